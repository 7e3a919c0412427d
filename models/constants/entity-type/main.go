package entityType

import (
	"genelit/api/models/constants"
	"strings"
)

const (
	Unrecognized constants.EntityType = iota
	Disease
	Gene
	Variant
)

// CastToEntityType maps an annotation role type to its closed enumeration.
// Mutation flavours used by older PubTator exports all count as variants.
func CastToEntityType(text string) constants.EntityType {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "disease":
		return Disease
	case "gene":
		return Gene
	case "variant", "mutation", "dnamutation", "proteinmutation", "snp":
		return Variant
	default:
		return Unrecognized
	}
}

func EntityTypeToString(et constants.EntityType) string {
	switch et {
	case Disease:
		return "Disease"
	case Gene:
		return "Gene"
	case Variant:
		return "Variant"
	default:
		return "Unrecognized"
	}
}
