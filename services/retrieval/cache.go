package retrieval

import (
	"context"
	"sync"
	"sync/atomic"

	"genelit/api/models/evidence"
	"genelit/api/utils"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type (
	// EvidenceCache memoizes entity resolution for the lifetime of one
	// pipeline run. Concurrent first lookups of the same entity share
	// a single fetch.
	EvidenceCache struct {
		fetcher *Fetcher

		mu      sync.RWMutex
		entries map[string][]evidence.EvidenceRecord
		group   singleflight.Group

		hits   int64
		misses int64
	}

	CacheStats struct {
		Hits    int64 `json:"hits"`
		Misses  int64 `json:"misses"`
		Entries int   `json:"entries"`
	}
)

func NewEvidenceCache(fetcher *Fetcher) *EvidenceCache {
	return &EvidenceCache{
		fetcher: fetcher,
		entries: make(map[string][]evidence.EvidenceRecord),
	}
}

func (c *EvidenceCache) Resolve(ctx context.Context, entity string) []evidence.EvidenceRecord {
	if records, ok := c.lookup(entity); ok {
		atomic.AddInt64(&c.hits, 1)
		return records
	}

	value, _, shared := c.group.Do(entity, func() (interface{}, error) {
		// another caller may have finished while we queued
		if records, ok := c.lookup(entity); ok {
			return records, nil
		}
		atomic.AddInt64(&c.misses, 1)

		records := c.resolve(ctx, entity)

		c.mu.Lock()
		c.entries[entity] = records
		c.mu.Unlock()
		return records, nil
	})
	if shared {
		atomic.AddInt64(&c.hits, 1)
	}
	return value.([]evidence.EvidenceRecord)
}

// ResolveAll resolves every distinct entity concurrently and only
// returns once all of them are settled.
func (c *EvidenceCache) ResolveAll(ctx context.Context, entities []string) map[string][]evidence.EvidenceRecord {
	unique := utils.UniqueSorted(entities)

	g := new(errgroup.Group)
	for _, entity := range unique {
		entity := entity
		g.Go(func() error {
			c.Resolve(ctx, entity)
			return nil
		})
	}
	g.Wait()

	snapshot := make(map[string][]evidence.EvidenceRecord, len(unique))
	c.mu.RLock()
	for _, entity := range unique {
		snapshot[entity] = c.entries[entity]
	}
	c.mu.RUnlock()
	return snapshot
}

func (c *EvidenceCache) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
		Entries: entries,
	}
}

func (c *EvidenceCache) lookup(entity string) ([]evidence.EvidenceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, ok := c.entries[entity]
	return records, ok
}

// resolve is the two step search then detail sequence. When the detail
// call is exhausted the identifiers found by search are kept as
// link-only records.
func (c *EvidenceCache) resolve(ctx context.Context, entity string) []evidence.EvidenceRecord {
	ids := c.fetcher.Fetch(ctx, entity)
	if len(ids) == 0 {
		return []evidence.EvidenceRecord{}
	}

	records := c.fetcher.FetchDetails(ctx, entity, ids)
	if len(records) > 0 {
		return records
	}

	records = make([]evidence.EvidenceRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, evidence.EvidenceRecord{
			Entity:       entity,
			LiteratureId: id,
			Link:         evidence.LinkFor(id),
		})
	}
	return records
}
