package mining

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"genelit/api/models"
	entityType "genelit/api/models/constants/entity-type"
	"genelit/api/models/evidence"
	"genelit/api/tests/common"

	"github.com/ahmetb/go-linq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePubtator struct {
	server *httptest.Server

	mu      sync.Mutex
	batches [][]string
	paths   []string

	failOnCall int
}

func newFakePubtator(t *testing.T, respond func(pmids []string) string) *fakePubtator {
	f := &fakePubtator{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pmids := strings.Split(r.URL.Query().Get("pmids"), ",")

		f.mu.Lock()
		f.batches = append(f.batches, pmids)
		f.paths = append(f.paths, r.URL.Path)
		call := len(f.batches)
		f.mu.Unlock()

		if f.failOnCall == call {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, respond(pmids))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakePubtator) config() *models.Config {
	cfg := common.InitConfig()
	cfg.Mining.Url = f.server.URL
	return cfg
}

func emptyExport(_ []string) string {
	return `{"PubTator3": []}`
}

func makeIds(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("%d", 10000+i))
	}
	return ids
}

const sampleExport = `{"PubTator3": [
  {
    "_id": "100|None",
    "id": "100",
    "pmid": 100,
    "passages": [
      {
        "infons": {"type": "title"},
        "relations": [
          {"id": "P1", "infons": {"score": 0.5, "type": "Cause",
            "role1": {"identifier": "MESH:D002", "type": "Disease", "name": "Lung Neoplasms"},
            "role2": {"identifier": "RS#:1042522", "type": "Variant", "name": "rs1042522"}}}
        ]
      }
    ],
    "relations": [
      {"id": "R1", "infons": {"score": "0.92", "type": "Association",
        "role1": {"identifier": "MESH:D001", "type": "Disease", "name": "Breast Neoplasms"},
        "role2": {"identifier": "672", "type": "Gene", "name": "BRCA1"}}},
      {"id": "R2", "infons": {"score": "0.7", "type": "Association",
        "role1": {"identifier": "672", "type": "Gene", "name": "BRCA1"},
        "role2": {"identifier": "MESH:D003", "type": "Disease", "name": "Ovarian Neoplasms"}}},
      {"id": "R3", "infons": {"score": "0.8", "type": "Bind",
        "role1": {"identifier": "672", "type": "Gene", "name": "BRCA1"},
        "role2": {"identifier": "7157", "type": "Gene", "name": "TP53"}}},
      {"id": "R4", "infons": {"score": "0.8", "type": "Treatment",
        "role1": {"identifier": "MESH:D001", "type": "Disease", "name": "Breast Neoplasms"},
        "role2": {"identifier": "MESH:C000", "type": "Chemical", "name": "tamoxifen"}}},
      {"id": "R5", "infons": {"score": "0.8", "type": "Association",
        "role1": {"identifier": "MESH:D001", "type": "Disease", "name": "Breast Neoplasms"},
        "role2": {"identifier": "MESH:D004", "type": "Disease", "name": "Neoplasms"}}}
    ]
  },
  {
    "_id": "101|None",
    "id": "101",
    "pmid": 101,
    "passages": [],
    "relations": [
      {"id": "R1", "infons": {"score": "0.88", "type": "Association",
        "role1": {"identifier": "MESH:D001", "type": "Disease", "name": "Breast Neoplasms"},
        "role2": {"identifier": "672", "type": "Gene", "name": "BRCA1"}}}
    ]
  },
  {
    "_id": "102|None",
    "id": "102",
    "passages": [],
    "relations": []
  }
]}`

func TestNewMiner(t *testing.T) {
	cfg := common.InitConfig()

	t.Run("should default to batches of 70", func(t *testing.T) {
		cfg.Mining.BatchSize = 0
		miner, err := NewMiner(cfg)

		require.NoError(t, err)
		assert.Equal(t, 70, miner.BatchSize())
	})

	t.Run("should fail fast beyond the export limit", func(t *testing.T) {
		for _, size := range []int{-1, MaxBatchSize + 1, 1000} {
			cfg.Mining.BatchSize = size
			miner, err := NewMiner(cfg)

			assert.Nil(t, miner)
			assert.True(t, errors.Is(err, ErrBatchSizeExceeded), "size %d", size)
		}
	})

	t.Run("should accept the export limit itself", func(t *testing.T) {
		cfg.Mining.BatchSize = MaxBatchSize
		_, err := NewMiner(cfg)
		assert.NoError(t, err)
	})
}

func TestMineRows(t *testing.T) {
	t.Run("should issue one request per batch", func(t *testing.T) {
		pubtator := newFakePubtator(t, emptyExport)
		miner, err := NewMiner(pubtator.config())
		require.NoError(t, err)

		result, err := miner.MineRows(context.Background(), makeIds(150))

		require.NoError(t, err)
		assert.Equal(t, 3, result.Requests)
		require.Len(t, pubtator.batches, 3)
		assert.Len(t, pubtator.batches[0], 70)
		assert.Len(t, pubtator.batches[1], 70)
		assert.Len(t, pubtator.batches[2], 10)
		assert.Equal(t, "/publications/export/biocjson", pubtator.paths[0])
	})

	t.Run("should cover every identifier exactly once", func(t *testing.T) {
		pubtator := newFakePubtator(t, emptyExport)
		miner, _ := NewMiner(pubtator.config())
		ids := append(makeIds(90), makeIds(20)...)

		_, err := miner.MineRows(context.Background(), ids)
		require.NoError(t, err)

		var sent []string
		linq.From(pubtator.batches).
			SelectManyT(func(batch []string) linq.Query { return linq.From(batch) }).
			ToSlice(&sent)
		assert.Len(t, sent, 90)
		assert.Equal(t, 90, linq.From(sent).Distinct().Count())
	})

	t.Run("should skip the request for no identifiers", func(t *testing.T) {
		pubtator := newFakePubtator(t, emptyExport)
		miner, _ := NewMiner(pubtator.config())

		result, err := miner.MineRows(context.Background(), []string{"", ""})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Requests)
		assert.Empty(t, pubtator.batches)
		assert.NotNil(t, result.Genes)
	})

	t.Run("should abort on a failed batch", func(t *testing.T) {
		pubtator := newFakePubtator(t, emptyExport)
		pubtator.failOnCall = 2
		miner, _ := NewMiner(pubtator.config())

		_, err := miner.MineRows(context.Background(), makeIds(150))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrBatchFailed))
		assert.Contains(t, err.Error(), "batch 2/3")
		assert.Contains(t, err.Error(), "502")
		assert.Len(t, pubtator.batches, 2)
	})

	t.Run("should bucket qualifying relations by subject type", func(t *testing.T) {
		pubtator := newFakePubtator(t, func(_ []string) string { return sampleExport })
		miner, _ := NewMiner(pubtator.config())

		result, err := miner.MineRows(context.Background(), []string{"100", "101", "102"})
		require.NoError(t, err)

		assert.Equal(t, 3, result.Documents)
		assert.Equal(t, 3, result.Discarded)

		require.Len(t, result.Genes, 2)
		assert.Equal(t, "100", result.Genes[0].LiteratureId)
		assert.Equal(t, []string{
			"MESH:D001!BRCA1!0.92!Association",
			"MESH:D003!BRCA1!0.7!Association",
		}, result.Genes[0].Relations)
		assert.Equal(t, "101", result.Genes[1].LiteratureId)

		// 102 has no relations and 101 none for variants
		require.Len(t, result.Variants, 1)
		assert.Equal(t, "100", result.Variants[0].LiteratureId)
		assert.Equal(t, []string{"MESH:D002!rs1042522!0.5!Cause"}, result.Variants[0].Relations)
	})
}

func TestMine(t *testing.T) {
	pubtator := newFakePubtator(t, func(_ []string) string { return sampleExport })
	miner, _ := NewMiner(pubtator.config())

	genes, variants, err := miner.Mine(context.Background(), []string{"100", "101"})
	require.NoError(t, err)

	assert.Len(t, genes, 3)
	assert.Equal(t, 2, linq.From(genes).
		WhereT(func(r evidence.CanonicalRelation) bool { return r.DiseaseId == "MESH:D001" }).
		Count())
	require.Len(t, variants, 1)
	assert.Equal(t, "rs1042522", variants[0].SubjectKey)
	assert.InDelta(t, 0.5, *variants[0].Score, 1e-9)
}

func TestCastToEntityType(t *testing.T) {
	assert.Equal(t, entityType.Disease, entityType.CastToEntityType("Disease"))
	assert.Equal(t, entityType.Gene, entityType.CastToEntityType("gene"))
	assert.Equal(t, entityType.Variant, entityType.CastToEntityType("DNAMutation"))
	assert.Equal(t, entityType.Variant, entityType.CastToEntityType("ProteinMutation"))
	assert.Equal(t, entityType.Variant, entityType.CastToEntityType("SNP"))
	assert.Equal(t, entityType.Unrecognized, entityType.CastToEntityType("Chemical"))
	assert.Equal(t, entityType.Unrecognized, entityType.CastToEntityType(""))
}
