package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"genelit/api/models"
	"genelit/api/models/evidence"
	"genelit/api/models/indexes"
	esRepo "genelit/api/repositories/elasticsearch"
	"genelit/api/services/mining"
	"genelit/api/services/validation"
	"genelit/api/utils"
	"genelit/api/utils/tables"
)

// outputs writes each table of a run and remembers it for the workbook.
type outputs struct {
	directory string
	runId     string
	written   map[string]string
	sheets    []tables.Sheet
}

func newOutputs(directory string, runId string, written map[string]string) *outputs {
	return &outputs{directory: directory, runId: runId, written: written}
}

func (o *outputs) write(name string, records [][]string) error {
	path, err := utils.OutputPath(o.directory, o.runId, name)
	if err != nil {
		return err
	}
	if err := tables.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	o.written[name] = path
	o.sheets = append(o.sheets, tables.Sheet{Name: strings.TrimSuffix(name, ".csv"), Records: records})
	return nil
}

func (o *outputs) annotated(header []string, rows []evidence.AnnotatedEntityRow) error {
	return o.write(AnnotatedOutput, tables.AnnotatedRecords(header, rows))
}

func (o *outputs) relations(mined mining.MiningResult) error {
	if err := o.write(GeneRelationsOutput, tables.RelationRecords(mined.Genes)); err != nil {
		return err
	}
	return o.write(VariantRelationsOutput, tables.RelationRecords(mined.Variants))
}

func (o *outputs) genes(rows []evidence.AggregatedRow) error {
	return o.write(GeneOutput, tables.GeneRecords(rows))
}

func (o *outputs) variants(rows []evidence.AggregatedRow) error {
	return o.write(VariantOutput, tables.VariantRecords(rows))
}

func (o *outputs) validation(header []string, results []evidence.ValidationJoinResult) error {
	return o.write(ValidationOutput, tables.ValidationRecords(header, results))
}

func (o *outputs) workbook() error {
	path, err := utils.OutputPath(o.directory, o.runId, WorkbookOutput)
	if err != nil {
		return err
	}
	if err := tables.WriteWorkbookFile(path, o.sheets); err != nil {
		return fmt.Errorf("writing %s: %w", WorkbookOutput, err)
	}
	o.written[WorkbookOutput] = path
	return nil
}

func readEntities(cfg *models.Config, path string) ([]string, []evidence.EntityRow, error) {
	df, err := tables.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading entity table: %w", err)
	}
	header, rows, err := tables.EntityRows(df, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("reading entity table %s: %w", path, err)
	}
	return header, rows, nil
}

func readReference(cfg *models.Config, path string) ([]evidence.ReferenceRecord, error) {
	df, err := tables.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reference table: %w", err)
	}
	records, err := tables.ReferenceRecords(df, cfg)
	if err != nil {
		return nil, fmt.Errorf("reading reference table %s: %w", path, err)
	}
	return validation.CompleteRecords(records), nil
}

func indexDocuments(runId string, created time.Time, genes []evidence.AggregatedRow, variants []evidence.AggregatedRow, validated []evidence.ValidationJoinResult) []esRepo.Document {
	docs := make([]esRepo.Document, 0, len(genes)+len(variants)+len(validated))
	for _, g := range genes {
		docs = append(docs, esRepo.Document{
			Index: indexes.GeneRelationsIndex,
			Body: indexes.GeneRelation{
				Gene:        g.SubjectKey,
				Disease:     g.DiseaseId,
				Association: g.AssociationType,
				Score:       g.MeanScore,
				Pmids:       g.LiteratureIds,
				RunId:       runId,
				CreatedTime: created,
			},
		})
	}
	for _, v := range variants {
		docs = append(docs, esRepo.Document{
			Index: indexes.VariantRelationsIndex,
			Body: indexes.VariantRelation{
				RsId:        v.SubjectKey,
				Gene:        v.Gene,
				Disease:     v.DiseaseId,
				Association: v.AssociationType,
				Score:       v.MeanScore,
				Pmids:       v.LiteratureIds,
				RunId:       runId,
				CreatedTime: created,
			},
		})
	}
	for _, r := range validated {
		row := indexes.ValidationRow{
			Entity:      r.Entity,
			Gene:        r.Gene,
			VariationId: r.VariationId,
			Loc:         r.DerivedLocus,
			Pmids:       r.LiteratureIds(),
			RunId:       runId,
			CreatedTime: created,
		}
		if r.External != nil {
			row.Trait = r.External.Trait
			row.PValue = r.External.PValue
			row.EffectSize = r.External.EffectSize
		}
		docs = append(docs, esRepo.Document{Index: indexes.ValidationIndex, Body: row})
	}
	return docs
}

func (ps *PipelineService) index(ctx context.Context, runId string, docs []esRepo.Document) error {
	if err := esRepo.EnsureIndexes(ps.Config, ps.Es7Client); err != nil {
		return fmt.Errorf("preparing indexes: %w", err)
	}

	stats, err := esRepo.BulkIndex(ctx, ps.Es7Client, ps.logger, ps.permits.Size(), docs)
	if err != nil {
		return fmt.Errorf("indexing run %s: %w", runId, err)
	}
	if stats.Failed > 0 {
		ps.logger.Warnf("run %s: %d of %d documents failed to index", runId, stats.Failed, len(docs))
	}
	return nil
}
