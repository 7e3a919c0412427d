package evidence

import (
	"fmt"

	"genelit/api/models/constants"
)

const LiteratureLinkFormat = "https://pubmed.ncbi.nlm.nih.gov/%s/"

func LinkFor(literatureId string) string {
	return fmt.Sprintf(LiteratureLinkFormat, literatureId)
}

// Column is a single header/value pair of an input table row,
// kept in source order so rows can be written back out untouched.
type Column struct {
	Name  string
	Value string
}

type EntityRow struct {
	Entity      string
	Gene        string
	VariationId string
	VariantCall string

	Columns []Column
}

type EvidenceRecord struct {
	Entity       string `json:"entity"`
	LiteratureId string `json:"literatureId"`
	Link         string `json:"link"`
	Title        string `json:"title,omitempty"`
	Abstract     string `json:"abstract,omitempty"`
}

type AnnotatedEntityRow struct {
	EntityRow
	Evidence []EvidenceRecord
}

func (r AnnotatedEntityRow) LiteratureIds() []string {
	ids := make([]string, 0, len(r.Evidence))
	for _, e := range r.Evidence {
		ids = append(ids, e.LiteratureId)
	}
	return ids
}

type Role struct {
	Type       constants.EntityType
	Identifier string
	Name       string
}

type RawRelation struct {
	LiteratureId    string
	RoleA           Role
	RoleB           Role
	Score           string
	AssociationType string
}

// RelationRow is one document's worth of encoded relation strings
// (disease!subject!score!type) for a single bucket.
type RelationRow struct {
	LiteratureId string
	Relations    []string
}

type CanonicalRelation struct {
	LiteratureId    string
	SubjectKey      string
	DiseaseId       string
	Score           *float64
	AssociationType string
}

type AggregatedRow struct {
	SubjectKey      string   `json:"subjectKey"`
	Gene            string   `json:"gene,omitempty"`
	DiseaseId       string   `json:"disease"`
	AssociationType string   `json:"association"`
	MeanScore       *float64 `json:"score"`
	LiteratureIds   []string `json:"pmids"`
}

// CrosswalkIndex maps a variant identifier to its distinct gene symbols.
type CrosswalkIndex map[string][]string

type ReferenceRecord struct {
	VariationId string `json:"variationId"`
	Trait       string `json:"trait"`
	PValue      string `json:"pValue"`
	EffectSize  string `json:"effectSize"`
}

type ValidationJoinResult struct {
	AnnotatedEntityRow
	External     *ReferenceRecord
	DerivedLocus string
}
