package elasticsearch

import (
	"context"
	"fmt"

	"genelit/api/models"
	"genelit/api/models/constants"
	s "genelit/api/models/constants/sort"
	"genelit/api/models/indexes"

	es7 "github.com/elastic/go-elasticsearch/v7"
)

// GetGeneRelations matches the gene symbol through the analyzed text
// field, so lookups ignore case.
func GetGeneRelations(cfg *models.Config, es *es7.Client, gene string, size int, sortByScore constants.SortDirection) ([]indexes.GeneRelation, error) {
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
		"sort": scoreSort(sortByScore),
	}

	result, err := search(cfg, es, indexes.GeneRelationsIndex, query)
	if err != nil {
		return nil, err
	}
	return decodeHits[indexes.GeneRelation](result)
}

// GetVariantRelations is an exact match on the variant identifier.
func GetVariantRelations(cfg *models.Config, es *es7.Client, rsId string, size int, sortByScore constants.SortDirection) ([]indexes.VariantRelation, error) {
	query := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"rsId": rsId,
			},
		},
		"sort": scoreSort(sortByScore),
	}

	result, err := search(cfg, es, indexes.VariantRelationsIndex, query)
	if err != nil {
		return nil, err
	}
	return decodeHits[indexes.VariantRelation](result)
}

// GetRelationsOverview counts the documents of every genelit index.
func GetRelationsOverview(cfg *models.Config, es *es7.Client) (map[string]int, error) {
	counts := map[string]int{}
	for _, index := range []string{indexes.GeneRelationsIndex, indexes.VariantRelationsIndex, indexes.ValidationIndex} {
		res, err := es.Count(
			es.Count.WithContext(context.Background()),
			es.Count.WithIndex(index),
		)
		if err != nil {
			return nil, err
		}
		result, err := readResponse(cfg, res)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", index, err)
		}
		count, _ := result["count"].(float64)
		counts[index] = int(count)
	}
	return counts, nil
}

// unscored relations always come last
func scoreSort(direction constants.SortDirection) []map[string]interface{} {
	return []map[string]interface{}{
		{"score": map[string]string{"order": string(s.OrDefault(direction)), "missing": "_last"}},
	}
}
