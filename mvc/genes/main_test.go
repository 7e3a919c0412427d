package genes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"genelit/api/contexts"
	"genelit/api/models/indexes"
	"genelit/api/repositories/mesh"
	"genelit/api/tests/common"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string, es *es7.Client, store *mesh.Store) (*contexts.GenelitContext, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return &contexts.GenelitContext{
		Context:   e.NewContext(req, rec),
		Es7Client: es,
		Config:    common.InitConfig(),
		MeshStore: store,
		Gene:      "BRCA1",
	}, rec
}

func TestGenesGetRelations(t *testing.T) {
	fake := common.NewFakeElasticsearch(t)
	fake.RespondWithHits(indexes.GeneRelationsIndex,
		`{"gene":"BRCA1","disease":"MESH:D001943","association":"Association","score":0.9,"pmids":["100","101"],"runId":"r1","createdTime":"2024-05-01T12:00:00Z"}`,
		`{"gene":"BRCA1","disease":"MESH:D009369","association":"Cause","score":null,"pmids":["102"],"runId":"r1","createdTime":"2024-05-01T12:00:00Z"}`,
	)

	store, err := mesh.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Upsert(context.Background(), []mesh.Descriptor{
		{UI: "D001943", Name: "Breast Neoplasms", TreeNumbers: []string{"C04.588.180", "C17.800.090.500"}},
	}))

	t.Run("should annotate relations with known descriptors", func(t *testing.T) {
		gc, rec := newContext("/genes/relations?gene=BRCA1&size=5", fake.Client(t), store)

		require.NoError(t, GenesGetRelations(gc))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := common.GetJsonBody(rec)
		assert.Equal(t, "BRCA1", body["term"])
		assert.Equal(t, float64(2), body["count"])

		results := body["results"].([]interface{})
		first := results[0].(map[string]interface{})
		assert.Equal(t, "MESH:D001943", first["disease"])
		assert.Equal(t, []interface{}{"100", "101"}, first["pmids"])
		annotation := first["mesh"].(map[string]interface{})
		assert.Equal(t, "Breast Neoplasms", annotation["descriptorName"])
		assert.Equal(t, "Neoplasms", annotation["category"])

		second := results[1].(map[string]interface{})
		assert.Nil(t, second["score"])
		assert.NotContains(t, second, "mesh")

		searches := fake.Searches(indexes.GeneRelationsIndex)
		require.NotEmpty(t, searches)
		assert.Equal(t, float64(5), searches[len(searches)-1]["size"])
	})

	t.Run("should work without a catalog", func(t *testing.T) {
		gc, rec := newContext("/genes/relations?gene=BRCA1", fake.Client(t), nil)

		require.NoError(t, GenesGetRelations(gc))

		assert.Equal(t, http.StatusOK, rec.Code)
		first := common.GetJsonBody(rec)["results"].([]interface{})[0].(map[string]interface{})
		assert.NotContains(t, first, "mesh")
	})

	t.Run("should report a missing evidence store", func(t *testing.T) {
		gc, rec := newContext("/genes/relations?gene=BRCA1", nil, nil)

		require.NoError(t, GenesGetRelations(gc))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("should report search failures", func(t *testing.T) {
		broken := common.NewFakeElasticsearch(t)
		broken.Fail(indexes.GeneRelationsIndex)
		gc, rec := newContext("/genes/relations?gene=BRCA1", broken.Client(t), nil)

		require.NoError(t, GenesGetRelations(gc))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
