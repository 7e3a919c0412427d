package mining

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"genelit/api/models"
	entityType "genelit/api/models/constants/entity-type"
	"genelit/api/models/evidence"
	"genelit/api/utils"

	"github.com/labstack/gommon/log"
)

// MaxBatchSize is the most identifiers the PubTator3 export accepts per call.
const MaxBatchSize = 100

const DefaultBatchSize = 70

var (
	ErrBatchSizeExceeded = errors.New("batch size out of range")
	ErrBatchFailed       = errors.New("relation batch failed")
)

type (
	Miner struct {
		exportUrl string
		batchSize int

		client *http.Client
		logger *log.Logger
	}

	// MiningResult holds the relation rows of each bucket, keyed by
	// literature id. Documents without relations for a bucket are absent.
	MiningResult struct {
		Genes    []evidence.RelationRow
		Variants []evidence.RelationRow

		Requests  int
		Documents int
		Discarded int
	}
)

func NewMiner(cfg *models.Config) (*Miner, error) {
	batchSize := cfg.Mining.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize < 1 || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d (allowed 1-%d)", ErrBatchSizeExceeded, batchSize, MaxBatchSize)
	}

	format := cfg.Mining.Format
	if format == "" {
		format = "biocjson"
	}

	return &Miner{
		exportUrl: fmt.Sprintf("%s/publications/export/%s", strings.TrimRight(cfg.Mining.Url, "/"), format),
		batchSize: batchSize,
		client:    utils.NewHttpClient(cfg.Mining.Timeout),
		logger:    utils.NewLogger("miner", cfg.Debug),
	}, nil
}

func (m *Miner) BatchSize() int {
	return m.batchSize
}

// Batches deduplicates and sorts ids, then partitions them.
func (m *Miner) Batches(ids []string) [][]string {
	unique := utils.UniqueSorted(ids)

	var batches [][]string
	for start := 0; start < len(unique); start += m.batchSize {
		end := start + m.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch := unique[start:end]
		if len(batch) == 0 {
			continue
		}
		batches = append(batches, batch)
	}
	return batches
}

// MineRows queries the relation service once per batch. The first batch
// to fail aborts the stage.
func (m *Miner) MineRows(ctx context.Context, ids []string) (MiningResult, error) {
	result := MiningResult{
		Genes:    []evidence.RelationRow{},
		Variants: []evidence.RelationRow{},
	}

	batches := m.Batches(ids)
	offset := 0
	for i, batch := range batches {
		body, err := m.exportBatch(ctx, batch)
		result.Requests++
		if err != nil {
			return result, fmt.Errorf("%w: batch %d/%d (ids %d-%d): %v",
				ErrBatchFailed, i+1, len(batches), offset, offset+len(batch)-1, err)
		}
		offset += len(batch)

		documents, err := decodeExport(body)
		if err != nil {
			return result, fmt.Errorf("%w: batch %d/%d: undecodable export: %v", ErrBatchFailed, i+1, len(batches), err)
		}

		for _, document := range documents {
			genes, variants, discarded := bucketDocument(document)
			result.Documents++
			result.Discarded += discarded

			if len(genes.Relations) > 0 {
				result.Genes = append(result.Genes, genes)
			}
			if len(variants.Relations) > 0 {
				result.Variants = append(result.Variants, variants)
			}
		}
		m.logger.Debugf("batch %d/%d: %d ids, %d documents", i+1, len(batches), len(batch), len(documents))
	}

	return result, nil
}

// Mine is MineRows followed by normalization of both buckets.
func (m *Miner) Mine(ctx context.Context, ids []string) (genes []evidence.CanonicalRelation, variants []evidence.CanonicalRelation, err error) {
	rows, err := m.MineRows(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	genes, droppedGenes := NormalizeRows(rows.Genes)
	variants, droppedVariants := NormalizeRows(rows.Variants)
	if dropped := droppedGenes + droppedVariants + rows.Discarded; dropped > 0 {
		m.logger.Debugf("dropped %d malformed relations", dropped)
	}

	m.logger.Infoj(log.JSON{
		"message":          "mining complete",
		"requests":         rows.Requests,
		"documents":        rows.Documents,
		"geneRelations":    len(genes),
		"variantRelations": len(variants),
	})
	return genes, variants, nil
}

func (m *Miner) exportBatch(ctx context.Context, batch []string) ([]byte, error) {
	requestUrl := fmt.Sprintf("%s?pmids=%s", m.exportUrl, url.QueryEscape(strings.Join(batch, ",")))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}

	response, err := m.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", response.StatusCode)
	}
	return io.ReadAll(response.Body)
}

// bucketDocument splits the qualifying relations of a document by the
// type of the non-disease role.
func bucketDocument(document biocDocument) (genes evidence.RelationRow, variants evidence.RelationRow, discarded int) {
	literatureId := document.literatureId()
	genes.LiteratureId = literatureId
	variants.LiteratureId = literatureId

	for _, raw := range document.rawRelations() {
		disease, subject, ok := classify(raw)
		if !ok || disease.Identifier == "" || subject.Name == "" {
			discarded++
			continue
		}

		encoded := EncodeRelation(disease.Identifier, subject.Name, raw.Score, raw.AssociationType)
		switch subject.Type {
		case entityType.Gene:
			genes.Relations = append(genes.Relations, encoded)
		case entityType.Variant:
			variants.Relations = append(variants.Relations, encoded)
		}
	}
	return genes, variants, discarded
}
