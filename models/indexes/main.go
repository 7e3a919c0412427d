package indexes

import "time"

const (
	GeneRelationsIndex    = "genelit.relations.genes"
	VariantRelationsIndex = "genelit.relations.variants"
	ValidationIndex       = "genelit.validation"
)

// GeneRelation is the indexed form of a gene-keyed aggregated row.
type GeneRelation struct {
	Gene        string    `json:"gene"`
	Disease     string    `json:"disease"`
	Association string    `json:"association"`
	Score       *float64  `json:"score"`
	Pmids       []string  `json:"pmids"`
	RunId       string    `json:"runId"`
	CreatedTime time.Time `json:"createdTime"`
}

type VariantRelation struct {
	RsId        string    `json:"rsId"`
	Gene        string    `json:"gene"`
	Disease     string    `json:"disease"`
	Association string    `json:"association"`
	Score       *float64  `json:"score"`
	Pmids       []string  `json:"pmids"`
	RunId       string    `json:"runId"`
	CreatedTime time.Time `json:"createdTime"`
}

// ValidationRow is one entity row joined with (at most) one GWAS record.
type ValidationRow struct {
	Entity      string    `json:"entity"`
	Gene        string    `json:"gene"`
	VariationId string    `json:"variationId"`
	Loc         string    `json:"loc"`
	Pmids       []string  `json:"pmids"`
	Trait       string    `json:"trait,omitempty"`
	PValue      string    `json:"pValue,omitempty"`
	EffectSize  string    `json:"effectSize,omitempty"`
	RunId       string    `json:"runId"`
	CreatedTime time.Time `json:"createdTime"`
}

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_KEYWORD = map[string]interface{}{"type": "keyword"}
var MAPPING_FLOAT64 = map[string]interface{}{"type": "double"}
var MAPPING_DATE = map[string]interface{}{"type": "date"}

var GENE_RELATION_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"gene":        MAPPING_TEXT,
		"disease":     MAPPING_KEYWORD,
		"association": MAPPING_KEYWORD,
		"score":       MAPPING_FLOAT64,
		"pmids":       MAPPING_KEYWORD,
		"runId":       MAPPING_KEYWORD,
		"createdTime": MAPPING_DATE,
	},
}

var VARIANT_RELATION_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"rsId":        MAPPING_KEYWORD,
		"gene":        MAPPING_TEXT,
		"disease":     MAPPING_KEYWORD,
		"association": MAPPING_KEYWORD,
		"score":       MAPPING_FLOAT64,
		"pmids":       MAPPING_KEYWORD,
		"runId":       MAPPING_KEYWORD,
		"createdTime": MAPPING_DATE,
	},
}

// loc is a keyword so location lookups are exact matches
var VALIDATION_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"entity":      MAPPING_TEXT,
		"gene":        MAPPING_TEXT,
		"variationId": MAPPING_KEYWORD,
		"loc":         MAPPING_KEYWORD,
		"pmids":       MAPPING_KEYWORD,
		"trait":       MAPPING_TEXT,
		"pValue":      MAPPING_KEYWORD,
		"effectSize":  MAPPING_KEYWORD,
		"runId":       MAPPING_KEYWORD,
		"createdTime": MAPPING_DATE,
	},
}

func Mappings() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		GeneRelationsIndex:    GENE_RELATION_INDEX_MAPPING,
		VariantRelationsIndex: VARIANT_RELATION_INDEX_MAPPING,
		ValidationIndex:       VALIDATION_INDEX_MAPPING,
	}
}
