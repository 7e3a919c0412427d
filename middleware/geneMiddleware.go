package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"genelit/api/contexts"
	"genelit/api/models/dtos/errors"

	"github.com/labstack/echo"
)

var (
	geneSymbolPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-.@_/]*$`)
	rsIdPattern       = regexp.MustCompile(`^(?i)rs[0-9]+$`)
)

/*
Echo middleware to ensure a valid `gene` HTTP query parameter was provided
*/
func MandateGeneAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gene := strings.TrimSpace(c.QueryParam("gene"))
		if len(gene) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("missing gene"))
		}
		if !geneSymbolPattern.MatchString(gene) {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid gene symbol %s", gene)))
		}

		gc := c.(*contexts.GenelitContext)
		gc.Gene = gene

		return next(gc)
	}
}

/*
Echo middleware to ensure a valid `rsId` HTTP query parameter was provided
*/
func MandateRsIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rsId := strings.TrimSpace(c.QueryParam("rsId"))
		if len(rsId) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("missing rsId"))
		}
		if !rsIdPattern.MatchString(rsId) {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid rsId %s - expected e.g. rs1042522", rsId)))
		}

		gc := c.(*contexts.GenelitContext)
		gc.RsId = "rs" + rsId[2:]

		return next(gc)
	}
}
