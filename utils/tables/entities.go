package tables

import (
	"strconv"
	"strings"

	"genelit/api/models"
	"genelit/api/models/evidence"

	"github.com/go-gota/gota/dataframe"
)

const (
	PmidsColumn     = "pmids"
	TitlesColumn    = "Titles"
	LinksColumn     = "Links"
	AbstractsColumn = "Abstracts"

	// evidence lists inside one cell
	evidenceSeparator = "\n"
)

var (
	RelationHeader   = []string{"pmid", "relations"}
	GeneHeader       = []string{"gene", "disease", "score", "association", "pmid"}
	VariantHeader    = []string{"rsID", "gene", "disease", "score", "association", "pmid"}
	ValidationSuffix = []string{"GWAS_DISEASE_or_TRAIT", "GWAS_P_VALUE", "GWAS_OR_or_BETA", "loc"}
)

// EntityRows types the upstream entity table. Only the entity column is
// required; the gene, variation id and variant call columns are picked
// up when present.
func EntityRows(df dataframe.DataFrame, cfg *models.Config) (header []string, rows []evidence.EntityRow, err error) {
	entityCols, err := Columns(df, cfg.Entities.EntityColumn)
	if err != nil {
		return nil, nil, err
	}
	entityCol := entityCols[0]

	header = df.Names()
	optional := func(name string) func(int) string {
		if !HasColumn(df, name) {
			return func(int) string { return "" }
		}
		col := df.Col(name)
		return func(i int) string { return strings.TrimSpace(Cell(col, i)) }
	}
	gene := optional(cfg.Entities.GeneColumn)
	variationId := optional(cfg.Entities.VariationIdColumn)
	variantCall := optional(cfg.Entities.VariantCallColumn)

	allCols := make([]func(int) string, len(header))
	for c, name := range header {
		col := df.Col(name)
		allCols[c] = func(i int) string { return Cell(col, i) }
	}

	rows = make([]evidence.EntityRow, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		columns := make([]evidence.Column, len(header))
		for c, name := range header {
			columns[c] = evidence.Column{Name: name, Value: allCols[c](i)}
		}
		rows = append(rows, evidence.EntityRow{
			Entity:      strings.TrimSpace(Cell(entityCol, i)),
			Gene:        gene(i),
			VariationId: variationId(i),
			VariantCall: variantCall(i),
			Columns:     columns,
		})
	}
	return header, rows, nil
}

// ReferenceRecords selects the four reference columns and drops rows
// with any null among them.
func ReferenceRecords(df dataframe.DataFrame, cfg *models.Config) ([]evidence.ReferenceRecord, error) {
	v := cfg.Validation
	cols, err := Columns(df, v.VariationIdColumn, v.TraitColumn, v.PValueColumn, v.EffectSizeColumn)
	if err != nil {
		return nil, err
	}

	records := make([]evidence.ReferenceRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		complete := true
		for _, col := range cols {
			if col.Elem(i).IsNA() {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		records = append(records, evidence.ReferenceRecord{
			VariationId: strings.TrimSpace(Cell(cols[0], i)),
			Trait:       Cell(cols[1], i),
			PValue:      Cell(cols[2], i),
			EffectSize:  Cell(cols[3], i),
		})
	}
	return records, nil
}

// RelationRows reads a pmid,relations table back.
func RelationRows(df dataframe.DataFrame) ([]evidence.RelationRow, error) {
	cols, err := Columns(df, RelationHeader...)
	if err != nil {
		return nil, err
	}

	rows := make([]evidence.RelationRow, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		relations := strings.TrimSpace(Cell(cols[1], i))
		if relations == "" {
			continue
		}
		rows = append(rows, evidence.RelationRow{
			LiteratureId: strings.TrimSpace(Cell(cols[0], i)),
			Relations:    []string{relations},
		})
	}
	return rows, nil
}

// AnnotatedEntityRows rebuilds the literature annotation of an entity
// table previously written by AnnotatedRecords.
func AnnotatedEntityRows(df dataframe.DataFrame, cfg *models.Config) (header []string, rows []evidence.AnnotatedEntityRow, err error) {
	header, entities, err := EntityRows(df, cfg)
	if err != nil {
		return nil, nil, err
	}
	if _, err := Columns(df, PmidsColumn); err != nil {
		return nil, nil, err
	}

	splitter := func(name string) func(int) []string {
		if !HasColumn(df, name) {
			return func(int) []string { return nil }
		}
		col := df.Col(name)
		return func(i int) []string { return strings.Split(Cell(col, i), evidenceSeparator) }
	}
	pmids, titles, links, abstracts := splitter(PmidsColumn), splitter(TitlesColumn), splitter(LinksColumn), splitter(AbstractsColumn)

	original := make([]string, 0, len(header))
	for _, name := range header {
		if !isEvidenceColumn(name) {
			original = append(original, name)
		}
	}

	rows = make([]evidence.AnnotatedEntityRow, 0, len(entities))
	for i, entity := range entities {
		kept := entity.Columns[:0:0]
		for _, c := range entity.Columns {
			if !isEvidenceColumn(c.Name) {
				kept = append(kept, c)
			}
		}
		entity.Columns = kept

		ids, rowTitles, rowLinks, rowAbstracts := pmids(i), titles(i), links(i), abstracts(i)
		records := []evidence.EvidenceRecord{}
		for j, id := range ids {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			record := evidence.EvidenceRecord{Entity: entity.Entity, LiteratureId: id, Link: evidence.LinkFor(id)}
			if j < len(rowTitles) {
				record.Title = rowTitles[j]
			}
			if j < len(rowLinks) && strings.TrimSpace(rowLinks[j]) != "" {
				record.Link = strings.TrimSpace(rowLinks[j])
			}
			if j < len(rowAbstracts) {
				record.Abstract = rowAbstracts[j]
			}
			records = append(records, record)
		}
		rows = append(rows, evidence.AnnotatedEntityRow{EntityRow: entity, Evidence: records})
	}
	return original, rows, nil
}

func isEvidenceColumn(name string) bool {
	switch name {
	case PmidsColumn, TitlesColumn, LinksColumn, AbstractsColumn:
		return true
	}
	return false
}

// -- writers

func AnnotatedRecords(header []string, rows []evidence.AnnotatedEntityRow) [][]string {
	out := [][]string{append(append([]string{}, header...), PmidsColumn, TitlesColumn, LinksColumn, AbstractsColumn)}
	for _, row := range rows {
		ids := make([]string, 0, len(row.Evidence))
		titles := make([]string, 0, len(row.Evidence))
		links := make([]string, 0, len(row.Evidence))
		abstracts := make([]string, 0, len(row.Evidence))
		for _, e := range row.Evidence {
			ids = append(ids, e.LiteratureId)
			titles = append(titles, flatten(e.Title))
			links = append(links, e.Link)
			abstracts = append(abstracts, flatten(e.Abstract))
		}
		record := columnValues(header, row.Columns)
		record = append(record,
			strings.Join(ids, evidenceSeparator),
			strings.Join(titles, evidenceSeparator),
			strings.Join(links, evidenceSeparator),
			strings.Join(abstracts, evidenceSeparator))
		out = append(out, record)
	}
	return out
}

func RelationRecords(rows []evidence.RelationRow) [][]string {
	out := [][]string{append([]string{}, RelationHeader...)}
	for _, row := range rows {
		out = append(out, []string{row.LiteratureId, strings.Join(row.Relations, ";")})
	}
	return out
}

func GeneRecords(rows []evidence.AggregatedRow) [][]string {
	out := [][]string{append([]string{}, GeneHeader...)}
	for _, row := range rows {
		out = append(out, []string{
			row.SubjectKey,
			row.DiseaseId,
			FormatScore(row.MeanScore),
			row.AssociationType,
			strings.Join(row.LiteratureIds, ","),
		})
	}
	return out
}

func VariantRecords(rows []evidence.AggregatedRow) [][]string {
	out := [][]string{append([]string{}, VariantHeader...)}
	for _, row := range rows {
		out = append(out, []string{
			row.SubjectKey,
			row.Gene,
			row.DiseaseId,
			FormatScore(row.MeanScore),
			row.AssociationType,
			strings.Join(row.LiteratureIds, ","),
		})
	}
	return out
}

func ValidationRecords(header []string, results []evidence.ValidationJoinResult) [][]string {
	first := append(append([]string{}, header...), PmidsColumn)
	out := [][]string{append(first, ValidationSuffix...)}
	for _, r := range results {
		record := columnValues(header, r.Columns)
		record = append(record, strings.Join(r.LiteratureIds(), evidenceSeparator))
		if r.External != nil {
			record = append(record, r.External.Trait, r.External.PValue, r.External.EffectSize)
		} else {
			record = append(record, "", "", "")
		}
		out = append(out, append(record, r.DerivedLocus))
	}
	return out
}

// FormatScore renders a mean score, empty when absent.
func FormatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

func columnValues(header []string, columns []evidence.Column) []string {
	byName := make(map[string]string, len(columns))
	for _, c := range columns {
		byName[c.Name] = c.Value
	}
	values := make([]string, 0, len(header)+len(ValidationSuffix)+1)
	for _, name := range header {
		values = append(values, byName[name])
	}
	return values
}

// titles and abstracts share a newline separated cell with their siblings
func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
