package locations

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"genelit/api/contexts"
	"genelit/api/models/indexes"
	"genelit/api/tests/common"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationsGetGenes(t *testing.T) {
	fake := common.NewFakeElasticsearch(t)
	fake.Respond(indexes.ValidationIndex, `{"hits":{"total":{"value":3,"relation":"eq"},"hits":[]},
		"aggregations":{"genes":{"buckets":[{"key":"TP53","doc_count":2},{"key":"WRAP53","doc_count":1}]}}}`)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/locations/genes?loc=17:7676154", nil)
	rec := httptest.NewRecorder()
	gc := &contexts.GenelitContext{
		Context:   e.NewContext(req, rec),
		Es7Client: fake.Client(t),
		Config:    common.InitConfig(),
		Locus:     "17:7676154",
	}

	require.NoError(t, LocationsGetGenes(gc))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := common.GetJsonBody(rec)
	assert.Equal(t, "17:7676154", body["loc"])
	assert.Equal(t, []interface{}{"TP53", "WRAP53"}, body["genes"])

	query := fake.Searches(indexes.ValidationIndex)[0]["query"].(map[string]interface{})
	assert.Equal(t, "17:7676154", query["term"].(map[string]interface{})["loc"])
}
