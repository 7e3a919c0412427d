package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"genelit/api/models"
	"genelit/api/models/indexes"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/labstack/gommon/log"
)

type (
	// Document is one source document bound for an index.
	Document struct {
		Index string
		Body  interface{}
	}

	IndexingStats struct {
		Indexed uint64 `json:"indexed"`
		Failed  uint64 `json:"failed"`
	}
)

// BulkIndex sends every document through a bulk indexer and waits for
// all of them to be acknowledged.
func BulkIndex(ctx context.Context, es *es7.Client, logger *log.Logger, numWorkers int, docs []Document) (IndexingStats, error) {
	var stats IndexingStats
	if len(docs) == 0 {
		return stats, nil
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		NumWorkers:    numWorkers,
		FlushInterval: time.Second,
	})
	if err != nil {
		return stats, err
	}

	for _, doc := range docs {
		data, err := json.Marshal(doc.Body)
		if err != nil {
			return stats, fmt.Errorf("marshal %s document: %w", doc.Index, err)
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action: "index",
			Index:  doc.Index,
			Body:   bytes.NewReader(data),

			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				atomic.AddUint64(&stats.Indexed, 1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				atomic.AddUint64(&stats.Failed, 1)
				if err != nil {
					logger.Errorf("bulk item into %s: %v", item.Index, err)
				} else {
					logger.Errorf("bulk item into %s: %s: %s", item.Index, res.Error.Type, res.Error.Reason)
				}
			},
		})
		if err != nil {
			return stats, err
		}
	}

	if err := bi.Close(ctx); err != nil {
		return stats, err
	}

	biStats := bi.Stats()
	logger.Debugf("bulk indexing: %d added, %d flushed, %d failed", biStats.NumAdded, biStats.NumFlushed, biStats.NumFailed)
	return stats, nil
}

// DeleteRunsOlderThan removes documents of every index created before cutoff.
func DeleteRunsOlderThan(cfg *models.Config, es *es7.Client, cutoff time.Time) (int, error) {
	var buf bytes.Buffer
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"createdTime": map[string]interface{}{
					"lt": cutoff.Format(time.RFC3339),
				},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return 0, err
	}

	res, err := es.DeleteByQuery(
		[]string{indexes.GeneRelationsIndex, indexes.VariantRelationsIndex, indexes.ValidationIndex},
		bytes.NewReader(buf.Bytes()),
		es.DeleteByQuery.WithContext(context.Background()),
		es.DeleteByQuery.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return 0, err
	}

	result, err := readResponse(cfg, res)
	if err != nil {
		return 0, err
	}
	deleted, _ := result["deleted"].(float64)
	return int(deleted), nil
}
