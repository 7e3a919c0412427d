package pipelineMode

import (
	"genelit/api/models/constants"
	"strings"
)

const (
	Unknown constants.PipelineMode = ""

	// subject key is a gene symbol
	Gene constants.PipelineMode = "gene"
	// subject key is a variant identifier (rsID)
	Variant constants.PipelineMode = "variant"
)

func CastToPipelineMode(text string) constants.PipelineMode {
	switch strings.ToLower(text) {
	case "gene", "genes", "g":
		return Gene
	case "variant", "variants", "v":
		return Variant
	default:
		return Unknown
	}
}
