package aggregation

import (
	"sort"
	"strconv"

	"genelit/api/models"
	"genelit/api/models/evidence"
	"genelit/api/utils"

	"github.com/labstack/gommon/log"
	"golang.org/x/text/cases"
)

type (
	Engine struct {
		logger *log.Logger
	}

	groupKey struct {
		subject     string
		disease     string
		association string
	}

	group struct {
		key           groupKey
		literatureIds []string
		scores        []float64
	}
)

func NewEngine(cfg *models.Config) *Engine {
	return &Engine{
		logger: utils.NewLogger("aggregation", cfg.Debug),
	}
}

// AggregateByGene keeps relations whose subject matches one of
// validSubjects ignoring case, and emits one row per group.
func (e *Engine) AggregateByGene(relations []evidence.CanonicalRelation, validSubjects []string) []evidence.AggregatedRow {
	fold := cases.Fold()
	valid := make(map[string]struct{}, len(validSubjects))
	for _, s := range validSubjects {
		if s == "" {
			continue
		}
		valid[fold.String(s)] = struct{}{}
	}

	kept := relations[:0:0]
	for _, r := range relations {
		if _, ok := valid[fold.String(r.SubjectKey)]; ok {
			kept = append(kept, r)
		}
	}

	groups := groupRelations(kept)
	rows := make([]evidence.AggregatedRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, g.row(""))
	}

	e.logger.Debugf("gene mode: %d of %d relations in scope, %d rows", len(kept), len(relations), len(rows))
	return rows
}

// AggregateByVariant keeps relations whose subject is a crosswalk key
// and fans each group out to one row per associated gene.
func (e *Engine) AggregateByVariant(relations []evidence.CanonicalRelation, crosswalk evidence.CrosswalkIndex) []evidence.AggregatedRow {
	kept := relations[:0:0]
	for _, r := range relations {
		if genes, ok := crosswalk[r.SubjectKey]; ok && len(genes) > 0 {
			kept = append(kept, r)
		}
	}

	groups := groupRelations(kept)
	rows := make([]evidence.AggregatedRow, 0, len(groups))
	for _, g := range groups {
		for _, gene := range crosswalk[g.key.subject] {
			rows = append(rows, g.row(gene))
		}
	}

	e.logger.Debugf("variant mode: %d of %d relations in scope, %d groups, %d rows", len(kept), len(relations), len(groups), len(rows))
	return rows
}

// BuildCrosswalk maps each variation id of the entity table to its
// distinct, sorted gene symbols.
func BuildCrosswalk(rows []evidence.EntityRow) evidence.CrosswalkIndex {
	collected := map[string][]string{}
	for _, row := range rows {
		if row.VariationId == "" || row.Gene == "" {
			continue
		}
		collected[row.VariationId] = append(collected[row.VariationId], row.Gene)
	}

	index := make(evidence.CrosswalkIndex, len(collected))
	for variant, genes := range collected {
		index[variant] = utils.UniqueSorted(genes)
	}
	return index
}

// GeneSubjects lists the distinct gene symbols of the entity table.
func GeneSubjects(rows []evidence.EntityRow) []string {
	genes := make([]string, 0, len(rows))
	for _, row := range rows {
		genes = append(genes, row.Gene)
	}
	return utils.UniqueSorted(genes)
}

// groupRelations returns the groups ordered by key.
func groupRelations(relations []evidence.CanonicalRelation) []*group {
	byKey := map[groupKey]*group{}
	for _, r := range relations {
		key := groupKey{subject: r.SubjectKey, disease: r.DiseaseId, association: r.AssociationType}
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key}
			byKey[key] = g
		}
		g.literatureIds = append(g.literatureIds, r.LiteratureId)
		if r.Score != nil {
			g.scores = append(g.scores, *r.Score)
		}
	}

	groups := make([]*group, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		if a.subject != b.subject {
			return a.subject < b.subject
		}
		if a.disease != b.disease {
			return a.disease < b.disease
		}
		return a.association < b.association
	})
	return groups
}

func (g *group) row(gene string) evidence.AggregatedRow {
	return evidence.AggregatedRow{
		SubjectKey:      g.key.subject,
		Gene:            gene,
		DiseaseId:       g.key.disease,
		AssociationType: g.key.association,
		MeanScore:       meanScore(g.scores),
		LiteratureIds:   utils.UniqueSorted(g.literatureIds),
	}
}

// meanScore is rounded to 3 decimal places, nil without scores.
func meanScore(scores []float64) *float64 {
	if len(scores) == 0 {
		return nil
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	// round on the decimal rendering so 1.0005 stays 1.0
	mean, _ := strconv.ParseFloat(strconv.FormatFloat(sum/float64(len(scores)), 'f', 3, 64), 64)
	return &mean
}
