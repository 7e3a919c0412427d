package variants

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

func VariantsGetRelations(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetRelations hit!\n", time.Now())
	gc := c.(*contexts.GenelitContext)
	es, cfg, size, sortByScore := mvc.RetrieveCommonElements(c)
	if es == nil {
		return c.JSON(http.StatusServiceUnavailable, errors.CreateSimpleServiceUnavailable("evidence store not configured"))
	}

	relations, err := esRepo.GetVariantRelations(cfg, es, gc.RsId, size, sortByScore)
	if err != nil {
		fmt.Printf("Failed to get relations for %s: %v\n", gc.RsId, err)
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, dtos.VariantRelationsResponseDTO{
		Status:  http.StatusOK,
		Message: "Success",
		Term:    gc.RsId,
		Count:   len(relations),
		Results: relations,
	})
}

// VariantsGetByGene lists the validation rows (entity, locus, GWAS
// record) of a gene.
func VariantsGetByGene(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetByGene hit!\n", time.Now())
	gc := c.(*contexts.GenelitContext)
	es, cfg, size, _ := mvc.RetrieveCommonElements(c)
	if es == nil {
		return c.JSON(http.StatusServiceUnavailable, errors.CreateSimpleServiceUnavailable("evidence store not configured"))
	}

	rows, err := esRepo.GetValidationRowsByGene(cfg, es, gc.Gene, size)
	if err != nil {
		fmt.Printf("Failed to get variants for %s: %v\n", gc.Gene, err)
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, dtos.ValidationRowsResponseDTO{
		Status:  http.StatusOK,
		Message: "Success",
		Term:    gc.Gene,
		Count:   len(rows),
		Results: rows,
	})
}
