package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"genelit/api/models"
	"genelit/api/models/indexes"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/mitchellh/mapstructure"
)

// maximum number of buckets returned by a terms aggregation
const maxBuckets = 10000

// EnsureIndexes creates any missing index with its mapping.
func EnsureIndexes(cfg *models.Config, es *es7.Client) error {
	for index, mapping := range indexes.Mappings() {
		res, err := es.Indices.Exists([]string{index})
		if err != nil {
			return fmt.Errorf("check index %s: %w", index, err)
		}
		res.Body.Close()
		if res.StatusCode == 200 {
			continue
		}

		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(map[string]interface{}{"mappings": mapping}); err != nil {
			return err
		}

		createRes, err := es.Indices.Create(index, es.Indices.Create.WithBody(&buf))
		if err != nil {
			return fmt.Errorf("create index %s: %w", index, err)
		}
		if _, err := readResponse(cfg, createRes); err != nil {
			return fmt.Errorf("create index %s: %w", index, err)
		}
	}
	return nil
}

func search(cfg *models.Config, es *es7.Client, index string, query map[string]interface{}) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	if cfg.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	res, err := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	return readResponse(cfg, res)
}

func readResponse(cfg *models.Config, res *esapi.Response) (map[string]interface{}, error) {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		fmt.Println(string(body))
	}
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s: %s", res.Status(), strings.TrimSpace(string(body)))
	}

	result := make(map[string]interface{})
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// decodeHits maps every hit's _source onto a new T.
func decodeHits[T any](result map[string]interface{}) ([]T, error) {
	docs := []T{}

	hits, _ := result["hits"].(map[string]interface{})
	hitsList, _ := hits["hits"].([]interface{})
	for _, h := range hitsList {
		hit, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hit["_source"]
		if !ok {
			continue
		}

		var doc T
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
			Result:           &doc,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(source); err != nil {
			return nil, fmt.Errorf("decode hit: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// bucketKeys lists the keys of a terms aggregation, in returned order.
func bucketKeys(result map[string]interface{}, aggregation string) []string {
	keys := []string{}

	aggs, _ := result["aggregations"].(map[string]interface{})
	agg, _ := aggs[aggregation].(map[string]interface{})
	buckets, _ := agg["buckets"].([]interface{})
	for _, b := range buckets {
		bucket, ok := b.(map[string]interface{})
		if !ok {
			continue
		}
		if key, ok := bucket["key"].(string); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func termsAggregation(field string) map[string]interface{} {
	return map[string]interface{}{
		"terms": map[string]interface{}{
			"field": field,
			"size":  maxBuckets, // increases the number of buckets returned (default is 10)
			"order": map[string]string{
				"_key": "asc",
			},
		},
	}
}
