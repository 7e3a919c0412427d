package variants

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"genelit/api/contexts"
	"genelit/api/models/indexes"
	"genelit/api/tests/common"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string, es *es7.Client) (*contexts.GenelitContext, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return &contexts.GenelitContext{
		Context:   e.NewContext(req, rec),
		Es7Client: es,
		Config:    common.InitConfig(),
		Gene:      "TP53",
		RsId:      "rs1042522",
	}, rec
}

func TestVariantsGetRelations(t *testing.T) {
	fake := common.NewFakeElasticsearch(t)
	fake.RespondWithHits(indexes.VariantRelationsIndex,
		`{"rsId":"rs1042522","gene":"TP53","disease":"MESH:D002","association":"Cause","score":0.5,"pmids":["102"],"runId":"r1","createdTime":"2024-05-01T12:00:00Z"}`,
		`{"rsId":"rs1042522","gene":"MDM2","disease":"MESH:D002","association":"Cause","score":0.5,"pmids":["102"],"runId":"r1","createdTime":"2024-05-01T12:00:00Z"}`,
	)

	gc, rec := newContext("/variants/relations?rsId=rs1042522", fake.Client(t))
	require.NoError(t, VariantsGetRelations(gc))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := common.GetJsonBody(rec)
	assert.Equal(t, "rs1042522", body["term"])
	assert.Equal(t, float64(2), body["count"])
	genes := []interface{}{}
	for _, r := range body["results"].([]interface{}) {
		genes = append(genes, r.(map[string]interface{})["gene"])
	}
	assert.Equal(t, []interface{}{"TP53", "MDM2"}, genes)

	query := fake.Searches(indexes.VariantRelationsIndex)[0]["query"].(map[string]interface{})
	assert.Equal(t, "rs1042522", query["term"].(map[string]interface{})["rsId"])
}

func TestVariantsGetByGene(t *testing.T) {
	fake := common.NewFakeElasticsearch(t)
	fake.RespondWithHits(indexes.ValidationIndex,
		`{"entity":"p.R72P","gene":"TP53","variationId":"rs1042522","loc":"17:7676154","pmids":["102"],"trait":"Lung cancer","pValue":"2E-8","effectSize":"1.3","runId":"r1","createdTime":"2024-05-01T12:00:00Z"}`,
	)

	t.Run("should list validation rows", func(t *testing.T) {
		gc, rec := newContext("/variants/by/gene?gene=TP53", fake.Client(t))
		require.NoError(t, VariantsGetByGene(gc))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := common.GetJsonBody(rec)
		require.Equal(t, float64(1), body["count"])
		row := body["results"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "17:7676154", row["loc"])
		assert.Equal(t, "Lung cancer", row["trait"])
	})

	t.Run("should report failures", func(t *testing.T) {
		broken := common.NewFakeElasticsearch(t)
		broken.Fail(indexes.ValidationIndex)
		gc, rec := newContext("/variants/by/gene?gene=TP53", broken.Client(t))
		require.NoError(t, VariantsGetByGene(gc))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		gc, rec = newContext("/variants/by/gene?gene=TP53", nil)
		require.NoError(t, VariantsGetByGene(gc))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
