package pipeline

import (
	"fmt"
	"net/http"
	"time"

	"genelit/api/contexts"
	"genelit/api/models/dtos"
	"genelit/api/models/runs"
	pipelineService "genelit/api/services/pipeline"

	"github.com/labstack/echo"
)

// PipelineRun queues a background run over the validated inputs.
func PipelineRun(c echo.Context) error {
	fmt.Printf("[%s] - PipelineRun hit!\n", time.Now())
	gc := c.(*contexts.GenelitContext)

	request := gc.PipelineService.Submit(pipelineService.RunOptions{
		InputPath:     gc.InputPath,
		ReferencePath: gc.ReferencePath,
		Mode:          gc.Mode,
	})

	return c.JSON(http.StatusAccepted, runs.RunResponseDTO{
		Id:        request.Id,
		InputPath: request.InputPath,
		State:     request.State,
		Message:   "Run queued",
	})
}

func GetAllRunRequests(c echo.Context) error {
	fmt.Printf("[%s] - GetAllRunRequests hit!\n", time.Now())
	ps := c.(*contexts.GenelitContext).PipelineService

	return c.JSON(http.StatusOK, dtos.RunRequestsResponseDTO{
		Status:  http.StatusOK,
		Results: ps.Requests(),
	})
}
