package sort

import (
	"genelit/api/models/constants"
	"strings"
)

const (
	Undefined  constants.SortDirection = ""
	Ascending  constants.SortDirection = "asc"
	Descending constants.SortDirection = "desc"
)

func CastToSortDirection(text string) constants.SortDirection {
	switch strings.ToLower(text) {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	default:
		return Undefined
	}
}

// OrDefault resolves Undefined to Descending (best scores first).
func OrDefault(direction constants.SortDirection) constants.SortDirection {
	if direction == Undefined {
		return Descending
	}
	return direction
}
