package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"genelit/api/models"
	"genelit/api/models/evidence"
	"genelit/api/utils"

	"github.com/labstack/gommon/log"
)

var ErrMalformedVariantCall = errors.New("malformed variant call")

type Merger struct {
	logger *log.Logger
}

func NewMerger(cfg *models.Config) *Merger {
	return &Merger{
		logger: utils.NewLogger("validation", cfg.Debug),
	}
}

// Merge left joins rows against reference on the variation id. A row
// matching several reference records appears once per match; a row
// matching none is kept with no external record. Every row must carry
// a well formed variant call.
func (m *Merger) Merge(rows []evidence.AnnotatedEntityRow, reference []evidence.ReferenceRecord) ([]evidence.ValidationJoinResult, error) {
	byId := map[string][]int{}
	for i, record := range reference {
		if record.VariationId == "" {
			continue
		}
		byId[record.VariationId] = append(byId[record.VariationId], i)
	}

	results := make([]evidence.ValidationJoinResult, 0, len(rows))
	matched := 0
	for i, row := range rows {
		locus, err := DeriveLocus(row.VariantCall)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+1, row.VariationId, err)
		}

		matches := byId[row.VariationId]
		if row.VariationId == "" || len(matches) == 0 {
			results = append(results, evidence.ValidationJoinResult{
				AnnotatedEntityRow: row,
				DerivedLocus:       locus,
			})
			continue
		}

		matched++
		for _, idx := range matches {
			record := reference[idx]
			results = append(results, evidence.ValidationJoinResult{
				AnnotatedEntityRow: row,
				External:           &record,
				DerivedLocus:       locus,
			})
		}
	}

	m.logger.Debugf("%d of %d rows matched the reference, %d output rows", matched, len(rows), len(results))
	return results, nil
}

// DeriveLocus turns a tab separated variant call line into "chrom:pos".
func DeriveLocus(variantCall string) (string, error) {
	fields := strings.Split(variantCall, "\t")
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: expected at least 2 tab separated fields in %q", ErrMalformedVariantCall, variantCall)
	}
	return fields[0] + ":" + fields[1], nil
}

// CompleteRecords drops reference records with any empty field.
func CompleteRecords(records []evidence.ReferenceRecord) []evidence.ReferenceRecord {
	complete := make([]evidence.ReferenceRecord, 0, len(records))
	for _, r := range records {
		if r.VariationId == "" || r.Trait == "" || r.PValue == "" || r.EffectSize == "" {
			continue
		}
		complete = append(complete, r)
	}
	return complete
}

// LocateSubjects lists the distinct genes whose derived locus is
// exactly locus.
func LocateSubjects(results []evidence.ValidationJoinResult, locus string) []string {
	seen := map[string]struct{}{}
	genes := []string{}
	for _, r := range results {
		if r.DerivedLocus != locus || r.Gene == "" {
			continue
		}
		if _, ok := seen[r.Gene]; ok {
			continue
		}
		seen[r.Gene] = struct{}{}
		genes = append(genes, r.Gene)
	}
	sort.Strings(genes)
	return genes
}
