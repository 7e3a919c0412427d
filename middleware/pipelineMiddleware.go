package middleware

import (
	"fmt"
	"net/http"
	"path/filepath"

	"genelit/api/contexts"
	pipelineMode "genelit/api/models/constants/pipeline-mode"
	"genelit/api/models/dtos/errors"
	"genelit/api/utils"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure an existing `input` table was provided, and
that the optional `reference` table and `mode` are valid
*/
func MandatePipelineInputs(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.GenelitContext)
		dataDir := gc.Config.Api.DataDirectory

		input := c.QueryParam("input")
		if len(input) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("missing input"))
		}
		inputPath := resolveDataPath(dataDir, input)
		if !utils.FileExists(inputPath) {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("input %s not found", input)))
		}

		var referencePath string
		if reference := c.QueryParam("reference"); len(reference) > 0 {
			referencePath = resolveDataPath(dataDir, reference)
			if !utils.FileExists(referencePath) {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("reference %s not found", reference)))
			}
		}

		mode := pipelineMode.Unknown
		if modeQP := c.QueryParam("mode"); len(modeQP) > 0 {
			mode = pipelineMode.CastToPipelineMode(modeQP)
			if mode == pipelineMode.Unknown {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid mode %s - expected gene or variant", modeQP)))
			}
		}

		gc.InputPath = inputPath
		gc.ReferencePath = referencePath
		gc.Mode = mode

		return next(gc)
	}
}

// names are always looked up inside the data directory, absolute ones included
func resolveDataPath(dataDir string, name string) string {
	return filepath.Join(dataDir, filepath.Clean("/"+name))
}
