package mvc

import (
	"strconv"

	"genelit/api/contexts"
	"genelit/api/models"
	"genelit/api/models/constants"
	s "genelit/api/models/constants/sort"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

const (
	DefaultResultSize = 100
	MaxResultSize     = 10000
)

// RetrieveCommonElements pulls the clients every query route needs, the
// requested result size and score ordering.
func RetrieveCommonElements(c echo.Context) (*es7.Client, *models.Config, int, constants.SortDirection) {
	gc := c.(*contexts.GenelitContext)

	size := DefaultResultSize
	if sizeQP := c.QueryParam("size"); len(sizeQP) > 0 {
		if parsed, err := strconv.Atoi(sizeQP); err == nil && parsed > 0 {
			size = parsed
		}
	}
	if size > MaxResultSize {
		size = MaxResultSize
	}

	sortByScore := s.CastToSortDirection(c.QueryParam("sortByScore"))

	return gc.Es7Client, gc.Config, size, sortByScore
}
