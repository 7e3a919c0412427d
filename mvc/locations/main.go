package locations

import (
	"fmt"
	"net/http"
	"time"

	"genelit/api/contexts"
	"genelit/api/models/dtos"
	"genelit/api/models/dtos/errors"
	"genelit/api/mvc"
	esRepo "genelit/api/repositories/elasticsearch"

	"github.com/labstack/echo"
)

func LocationsGetGenes(c echo.Context) error {
	fmt.Printf("[%s] - LocationsGetGenes hit!\n", time.Now())
	gc := c.(*contexts.GenelitContext)
	es, cfg, _, _ := mvc.RetrieveCommonElements(c)
	if es == nil {
		return c.JSON(http.StatusServiceUnavailable, errors.CreateSimpleServiceUnavailable("evidence store not configured"))
	}

	genes, err := esRepo.GetGenesByLocation(cfg, es, gc.Locus)
	if err != nil {
		fmt.Printf("Failed to get genes at %s: %v\n", gc.Locus, err)
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, dtos.LocationGenesResponseDTO{
		Status:  http.StatusOK,
		Message: "Success",
		Loc:     gc.Locus,
		Genes:   genes,
	})
}
