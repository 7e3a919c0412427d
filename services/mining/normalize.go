package mining

import (
	"math"
	"strconv"
	"strings"

	"genelit/api/models/evidence"
)

const (
	relationFieldSeparator = "!"
	relationListSeparator  = ";"
	relationFieldCount     = 4
)

// EncodeRelation renders a qualifying relation as
// disease!subject!score!association.
func EncodeRelation(diseaseId string, subject string, score string, associationType string) string {
	return strings.Join([]string{diseaseId, subject, score, associationType}, relationFieldSeparator)
}

// ParseRelation turns one encoded relation into its canonical form.
// Anything but exactly four fields, or an empty disease, yields false.
// A score that is not a finite number is left nil and the relation kept.
func ParseRelation(literatureId string, raw string) (evidence.CanonicalRelation, bool) {
	parts := strings.Split(raw, relationFieldSeparator)
	if len(parts) != relationFieldCount {
		return evidence.CanonicalRelation{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	diseaseId, subject, rawScore, associationType := parts[0], parts[1], parts[2], parts[3]
	if diseaseId == "" {
		return evidence.CanonicalRelation{}, false
	}

	relation := evidence.CanonicalRelation{
		LiteratureId:    strings.TrimSpace(literatureId),
		SubjectKey:      subject,
		DiseaseId:       diseaseId,
		AssociationType: associationType,
	}
	if score, err := strconv.ParseFloat(rawScore, 64); err == nil && !math.IsNaN(score) && !math.IsInf(score, 0) {
		relation.Score = &score
	}
	return relation, true
}

// NormalizeRows flattens relation rows into canonical relations,
// dropping malformed entries. A relation cell may itself hold a
// ';' joined list, as written to the relation tables.
func NormalizeRows(rows []evidence.RelationRow) (relations []evidence.CanonicalRelation, dropped int) {
	relations = []evidence.CanonicalRelation{}
	for _, row := range rows {
		for _, cell := range row.Relations {
			for _, item := range strings.Split(cell, relationListSeparator) {
				item = strings.TrimSpace(item)
				if item == "" {
					continue
				}
				relation, ok := ParseRelation(row.LiteratureId, item)
				if !ok {
					dropped++
					continue
				}
				relations = append(relations, relation)
			}
		}
	}
	return relations, dropped
}

// JoinRelations is the cell value of a relation table row.
func JoinRelations(relations []string) string {
	return strings.Join(relations, relationListSeparator)
}
