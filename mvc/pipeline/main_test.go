package pipeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"genelit/api/contexts"
	pipelineMode "genelit/api/models/constants/pipeline-mode"
	"genelit/api/models/dtos"
	"genelit/api/models/runs"
	pipelineService "genelit/api/services/pipeline"
	"genelit/api/tests/common"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineRun(t *testing.T) {
	// literature searches come back empty, so runs finish without mining
	unavailable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(unavailable.Close)

	cfg := common.InitConfig()
	cfg.Literature.SearchUrl = unavailable.URL + "/esearch.fcgi"
	cfg.Literature.FetchUrl = unavailable.URL + "/efetch.fcgi"
	cfg.Mining.Url = unavailable.URL
	cfg.Api.OutputDirectory = t.TempDir()
	cfg.Validation.ReferencePath = ""

	input := filepath.Join(t.TempDir(), "entities.csv")
	require.NoError(t, os.WriteFile(input, []byte("Protein Variation,Gene\np.R72P,TP53\n"), 0o644))

	ps, err := pipelineService.NewPipelineService(nil, cfg)
	require.NoError(t, err)

	newContext := func(target string) (*contexts.GenelitContext, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		return &contexts.GenelitContext{
			Context:         e.NewContext(req, rec),
			Config:          cfg,
			PipelineService: ps,
			InputPath:       input,
			Mode:            pipelineMode.Gene,
		}, rec
	}

	gc, rec := newContext("/pipeline/run?input=entities.csv&mode=gene")
	require.NoError(t, PipelineRun(gc))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var queued runs.RunResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queued))
	assert.Equal(t, runs.Queued, queued.State)
	assert.Equal(t, input, queued.InputPath)

	var listed dtos.RunRequestsResponseDTO
	require.Eventually(t, func() bool {
		gc, rec := newContext("/pipeline/requests")
		if GetAllRunRequests(gc) != nil {
			return false
		}
		listed = dtos.RunRequestsResponseDTO{}
		if json.Unmarshal(rec.Body.Bytes(), &listed) != nil || len(listed.Results) != 1 {
			return false
		}
		return listed.Results[0].State == runs.Done
	}, 10*time.Second, 20*time.Millisecond)

	assert.Equal(t, queued.Id, listed.Results[0].Id)
	assert.Equal(t, pipelineMode.Gene, listed.Results[0].Mode)
}
