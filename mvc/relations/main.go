package relations

import (
	"fmt"
	"net/http"
	"time"

	"genelit/api/models/dtos"
	"genelit/api/models/dtos/errors"
	"genelit/api/mvc"
	esRepo "genelit/api/repositories/elasticsearch"

	"github.com/labstack/echo"
)

func GetRelationsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetRelationsOverview hit!\n", time.Now())
	es, cfg, _, _ := mvc.RetrieveCommonElements(c)
	if es == nil {
		return c.JSON(http.StatusServiceUnavailable, errors.CreateSimpleServiceUnavailable("evidence store not configured"))
	}

	counts, err := esRepo.GetRelationsOverview(cfg, es)
	if err != nil {
		fmt.Printf("Failed to get relations overview: %v\n", err)
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}

	return c.JSON(http.StatusOK, dtos.RelationsOverviewDTO{Counts: counts})
}
