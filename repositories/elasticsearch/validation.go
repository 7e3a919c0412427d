package elasticsearch

import (
	"genelit/api/models"
	"genelit/api/models/indexes"

	es7 "github.com/elastic/go-elasticsearch/v7"
)

func GetValidationRowsByGene(cfg *models.Config, es *es7.Client, gene string, size int) ([]indexes.ValidationRow, error) {
	query := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"gene": map[string]interface{}{
					"query":    gene,
					"operator": "and",
				},
			},
		},
	}

	result, err := search(cfg, es, indexes.ValidationIndex, query)
	if err != nil {
		return nil, err
	}
	return decodeHits[indexes.ValidationRow](result)
}

// GetGenesByLocation returns the distinct genes (sorted) whose derived
// locus is exactly loc.
func GetGenesByLocation(cfg *models.Config, es *es7.Client, loc string) ([]string, error) {
	query := map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"loc": loc,
			},
		},
		"aggs": map[string]interface{}{
			"genes": termsAggregation("gene.keyword"),
		},
	}

	result, err := search(cfg, es, indexes.ValidationIndex, query)
	if err != nil {
		return nil, err
	}
	return bucketKeys(result, "genes"), nil
}
