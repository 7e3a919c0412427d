package contexts

import (
	"genelit/api/models"
	"genelit/api/models/constants"
	"genelit/api/repositories/mesh"
	"genelit/api/services/pipeline"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  an elasticsearch client and other variables
	GenelitContext struct {
		echo.Context
		Es7Client       *es7.Client
		Config          *models.Config
		PipelineService *pipeline.PipelineService
		MeshStore       *mesh.Store

		// values validated by middleware
		Gene          string
		RsId          string
		Locus         string
		InputPath     string
		ReferencePath string
		Mode          constants.PipelineMode
	}
)
