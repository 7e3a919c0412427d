package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"genelit/api/contexts"
	"genelit/api/models/constants/chromosome"
	"genelit/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure a valid `loc` (chromosome:position) HTTP query parameter was provided
*/
func MandateLocusAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// check for loc query parameter
		loc := strings.TrimSpace(c.QueryParam("loc"))
		if len(loc) == 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("missing loc"))
		}

		// verify:
		parts := strings.Split(loc, ":")
		if len(parts) != 2 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid loc %s - expected chromosome:position", loc)))
		}
		if !chromosome.IsValidHumanChromosome(parts[0]) {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid chromosome %s", parts[0])))
		}
		position, conversionErr := strconv.Atoi(parts[1])
		if conversionErr != nil || position <= 0 {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid position %s - please provide a position greater than 0", parts[1])))
		}

		// loci are matched exactly, so forward it untouched
		gc := c.(*contexts.GenelitContext)
		gc.Locus = loc

		return next(gc)
	}
}
