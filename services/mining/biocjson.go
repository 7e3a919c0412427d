package mining

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"genelit/api/models/constants"
	entityType "genelit/api/models/constants/entity-type"
	"genelit/api/models/evidence"
)

// flexString accepts either a JSON string or a JSON number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("neither string nor number: %s", string(data))
	}
	*f = flexString(n.String())
	return nil
}

type (
	biocExport struct {
		PubTator3 []biocDocument `json:"PubTator3"`
	}

	biocDocument struct {
		Id        flexString     `json:"id"`
		Pmid      flexString     `json:"pmid"`
		Passages  []biocPassage  `json:"passages"`
		Relations []biocRelation `json:"relations"`
	}

	biocPassage struct {
		Relations []biocRelation `json:"relations"`
	}

	biocRelation struct {
		Id     string `json:"id"`
		Infons struct {
			Score flexString `json:"score"`
			Type  string     `json:"type"`
			Role1 *biocRole  `json:"role1"`
			Role2 *biocRole  `json:"role2"`
		} `json:"infons"`
	}

	biocRole struct {
		Identifier string `json:"identifier"`
		Accession  string `json:"accession"`
		Type       string `json:"type"`
		Name       string `json:"name"`
	}
)

func (d biocDocument) literatureId() string {
	if d.Pmid != "" {
		return string(d.Pmid)
	}
	// ids look like "12345" or "12345|None"
	id, _, _ := strings.Cut(string(d.Id), "|")
	return id
}

func (r *biocRole) toRole() evidence.Role {
	if r == nil {
		return evidence.Role{Type: entityType.Unrecognized}
	}
	identifier := r.Identifier
	if identifier == "" || identifier == "-" {
		identifier = r.Accession
	}
	return evidence.Role{
		Type:       entityType.CastToEntityType(r.Type),
		Identifier: strings.TrimSpace(identifier),
		Name:       strings.TrimSpace(r.Name),
	}
}

// decodeExport reads either the wrapped {"PubTator3": [...]} export or
// a bare array of documents.
func decodeExport(body []byte) ([]biocDocument, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	if body[0] == '[' {
		var documents []biocDocument
		if err := json.Unmarshal(body, &documents); err != nil {
			return nil, err
		}
		return documents, nil
	}

	var export biocExport
	if err := json.Unmarshal(body, &export); err != nil {
		return nil, err
	}
	return export.PubTator3, nil
}

// rawRelations lists every relation of a document, document level first,
// then each passage in order.
func (d biocDocument) rawRelations() []evidence.RawRelation {
	literatureId := d.literatureId()

	collect := func(out []evidence.RawRelation, relations []biocRelation) []evidence.RawRelation {
		for _, r := range relations {
			out = append(out, evidence.RawRelation{
				LiteratureId:    literatureId,
				RoleA:           r.Infons.Role1.toRole(),
				RoleB:           r.Infons.Role2.toRole(),
				Score:           strings.TrimSpace(string(r.Infons.Score)),
				AssociationType: strings.TrimSpace(r.Infons.Type),
			})
		}
		return out
	}

	out := collect(nil, d.Relations)
	for _, p := range d.Passages {
		out = collect(out, p.Relations)
	}
	return out
}

// classify returns the disease role and the subject role of a relation,
// in that order, when exactly one side is a disease and the other a gene
// or a variant.
func classify(raw evidence.RawRelation) (disease evidence.Role, subject evidence.Role, ok bool) {
	a, b := raw.RoleA, raw.RoleB
	switch {
	case a.Type == entityType.Disease && isSubjectType(b.Type):
		return a, b, true
	case b.Type == entityType.Disease && isSubjectType(a.Type):
		return b, a, true
	default:
		return evidence.Role{}, evidence.Role{}, false
	}
}

func isSubjectType(t constants.EntityType) bool {
	return t == entityType.Gene || t == entityType.Variant
}
