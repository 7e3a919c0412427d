package genes

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

// GenesGetRelations lists the aggregated disease relations of a gene,
// each annotated with its MeSH descriptor when the catalog knows it.
func GenesGetRelations(c echo.Context) error {
	fmt.Printf("[%s] - GenesGetRelations hit!\n", time.Now())
	gc := c.(*contexts.GenelitContext)
	es, cfg, size, sortByScore := mvc.RetrieveCommonElements(c)
	if es == nil {
		return c.JSON(http.StatusServiceUnavailable, errors.CreateSimpleServiceUnavailable("evidence store not configured"))
	}

	relations, err := esRepo.GetGeneRelations(cfg, es, gc.Gene, size, sortByScore)
	if err != nil {
		fmt.Printf("Failed to get relations for %s: %v\n", gc.Gene, err)
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	results := make([]dtos.GeneRelationResult, 0, len(relations))
	for _, r := range relations {
		results = append(results, dtos.GeneRelationResult{GeneRelation: r})
	}

	if gc.MeshStore != nil && len(results) > 0 {
		diseases := make([]string, 0, len(results))
		for _, r := range results {
			diseases = append(diseases, r.Disease)
		}

		descriptors, err := gc.MeshStore.Lookup(c.Request().Context(), diseases)
		if err != nil {
			// relations are still useful without names
			fmt.Printf("MeSH lookup failed: %v\n", err)
		}
		for i, r := range results {
			if d, ok := descriptors[r.Disease]; ok {
				results[i].Mesh = &dtos.MeshAnnotation{
					DescriptorName: d.Name,
					TreeNumbers:    d.TreeNumbers,
					Category:       string(d.Category()),
				}
			}
		}
	}

	return c.JSON(http.StatusOK, dtos.GeneRelationsResponseDTO{
		Status:  http.StatusOK,
		Message: "Success",
		Term:    gc.Gene,
		Count:   len(results),
		Results: results,
	})
}
