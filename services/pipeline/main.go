package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"genelit/api/models"
	"genelit/api/models/constants"
	pipelineMode "genelit/api/models/constants/pipeline-mode"
	"genelit/api/models/evidence"
	"genelit/api/models/runs"
	"genelit/api/services/aggregation"
	"genelit/api/services/mining"
	"genelit/api/services/retrieval"
	"genelit/api/services/validation"
	"genelit/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	AnnotatedOutput        = "annotated.csv"
	GeneRelationsOutput    = "relations_g.csv"
	VariantRelationsOutput = "relations_v.csv"
	GeneOutput             = "genes.csv"
	VariantOutput          = "variants.csv"
	ValidationOutput       = "validation.csv"
	WorkbookOutput         = "genelit.xlsx"
)

type (
	PipelineService struct {
		Initialized      bool
		RunRequestChan   chan *runs.RunRequest
		RunRequestMap    map[string]*runs.RunRequest
		RunRequestMapMux sync.RWMutex

		Es7Client *es7.Client
		Config    *models.Config

		permits *retrieval.PermitPool
		fetcher *retrieval.Fetcher
		miner   *mining.Miner
		engine  *aggregation.Engine
		merger  *validation.Merger
		logger  *log.Logger
	}

	RunOptions struct {
		InputPath     string
		ReferencePath string
		Mode          constants.PipelineMode
	}
)

// NewPipelineService wires every stage of a run. es may be nil, in which
// case results are only written to disk.
func NewPipelineService(es *es7.Client, cfg *models.Config) (*PipelineService, error) {
	miner, err := mining.NewMiner(cfg)
	if err != nil {
		return nil, err
	}

	// one permit pool for every run, so concurrent runs share the cap
	permits := retrieval.NewPermitPool(cfg.Literature.ConcurrencyLevel)

	ps := &PipelineService{
		Initialized:      false,
		RunRequestChan:   make(chan *runs.RunRequest),
		RunRequestMap:    map[string]*runs.RunRequest{},
		RunRequestMapMux: sync.RWMutex{},
		Es7Client:        es,
		Config:           cfg,
		permits:          permits,
		fetcher:          retrieval.NewFetcher(cfg, permits),
		miner:            miner,
		engine:           aggregation.NewEngine(cfg),
		merger:           validation.NewMerger(cfg),
		logger:           utils.NewLogger("pipeline", cfg.Debug),
	}
	ps.Init()

	return ps, nil
}

func (ps *PipelineService) Init() {
	// safeguard to prevent multiple initilizations
	if !ps.Initialized {
		// listener for run request updates
		go func() {
			for request := range ps.RunRequestChan {
				if request.State == runs.Queued {
					ps.logger.Infof("Queueing a new pipeline run for %s", request.InputPath)
				}

				request.UpdatedAt = time.Now().Format(time.RFC3339)
				ps.RunRequestMapMux.Lock()
				ps.RunRequestMap[request.Id.String()] = request
				ps.RunRequestMapMux.Unlock()
			}
		}()

		ps.Initialized = true
		ps.logger.Info("Pipeline Service Initialized ..")
	}
}

// Submit queues a run and executes it in the background.
func (ps *PipelineService) Submit(opts RunOptions) runs.RunRequest {
	now := time.Now().Format(time.RFC3339)
	queued := runs.RunRequest{
		Id:            uuid.New(),
		InputPath:     opts.InputPath,
		ReferencePath: opts.ReferencePath,
		Mode:          opts.Mode,
		State:         runs.Queued,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ps.publish(queued)

	go func(request runs.RunRequest) {
		request.State = runs.Running
		ps.publish(request)

		summary, err := ps.Run(context.Background(), request.Id.String(), opts)
		if err != nil {
			request.State = runs.Error
			request.Message = err.Error()
		} else {
			request.State = runs.Done
			request.Message = fmt.Sprintf("%d gene rows, %d variant rows, %d validation rows",
				summary.GeneRows, summary.VariantRows, summary.ValidationRows)
		}
		ps.publish(request)
	}(queued)

	return queued
}

// Requests returns a snapshot of every known run, oldest first.
func (ps *PipelineService) Requests() []runs.RunRequest {
	ps.RunRequestMapMux.RLock()
	defer ps.RunRequestMapMux.RUnlock()

	requests := make([]runs.RunRequest, 0, len(ps.RunRequestMap))
	for _, r := range ps.RunRequestMap {
		requests = append(requests, *r)
	}
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt == requests[j].CreatedAt {
			return requests[i].Id.String() < requests[j].Id.String()
		}
		return requests[i].CreatedAt < requests[j].CreatedAt
	})
	return requests
}

// PruneRequests forgets finished runs last updated before cutoff.
func (ps *PipelineService) PruneRequests(cutoff time.Time) int {
	ps.RunRequestMapMux.Lock()
	defer ps.RunRequestMapMux.Unlock()

	pruned := 0
	for id, r := range ps.RunRequestMap {
		if r.State != runs.Done && r.State != runs.Error {
			continue
		}
		updated, err := time.Parse(time.RFC3339, r.UpdatedAt)
		if err != nil || !updated.Before(cutoff) {
			continue
		}
		delete(ps.RunRequestMap, id)
		pruned++
	}
	return pruned
}

// publish hands the listener its own copy of request.
func (ps *PipelineService) publish(request runs.RunRequest) {
	ps.RunRequestChan <- &request
}

// Run executes one full pass synchronously and writes its tables under
// <outputDirectory>/<runId>.
func (ps *PipelineService) Run(ctx context.Context, runId string, opts RunOptions) (runs.Summary, error) {
	summary := runs.Summary{Outputs: map[string]string{}}
	out := newOutputs(ps.Config.Api.OutputDirectory, runId, summary.Outputs)

	header, rows, err := readEntities(ps.Config, opts.InputPath)
	if err != nil {
		return summary, err
	}
	summary.Entities = len(rows)

	// retrieval: one cache per run, barrier before table assembly
	cache := retrieval.NewEvidenceCache(ps.fetcher)
	entities := make([]string, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, row.Entity)
	}
	resolved := cache.ResolveAll(ctx, entities)

	annotated := make([]evidence.AnnotatedEntityRow, 0, len(rows))
	var literatureIds []string
	for _, row := range rows {
		a := evidence.AnnotatedEntityRow{EntityRow: row, Evidence: resolved[row.Entity]}
		annotated = append(annotated, a)
		literatureIds = append(literatureIds, a.LiteratureIds()...)
	}
	literatureIds = utils.UniqueSorted(literatureIds)
	summary.LiteratureIds = len(literatureIds)

	stats := cache.Stats()
	summary.CacheHits, summary.CacheMisses = stats.Hits, stats.Misses

	if err := out.annotated(header, annotated); err != nil {
		return summary, err
	}

	// mining
	mined, err := ps.miner.MineRows(ctx, literatureIds)
	if err != nil {
		return summary, err
	}
	if err := out.relations(mined); err != nil {
		return summary, err
	}
	geneRelations, droppedGenes := mining.NormalizeRows(mined.Genes)
	variantRelations, droppedVariants := mining.NormalizeRows(mined.Variants)
	summary.GeneRelations, summary.VariantRelations = len(geneRelations), len(variantRelations)
	if dropped := droppedGenes + droppedVariants + mined.Discarded; dropped > 0 {
		ps.logger.Debugf("run %s: dropped %d malformed relations", runId, dropped)
	}

	// aggregation
	var geneRows, variantRows []evidence.AggregatedRow
	if opts.Mode != pipelineMode.Variant {
		geneRows = ps.engine.AggregateByGene(geneRelations, aggregation.GeneSubjects(rows))
		if err := out.genes(geneRows); err != nil {
			return summary, err
		}
	}
	if opts.Mode != pipelineMode.Gene {
		variantRows = ps.engine.AggregateByVariant(variantRelations, aggregation.BuildCrosswalk(rows))
		if err := out.variants(variantRows); err != nil {
			return summary, err
		}
	}
	summary.GeneRows, summary.VariantRows = len(geneRows), len(variantRows)

	// validation
	var validated []evidence.ValidationJoinResult
	referencePath := opts.ReferencePath
	if referencePath == "" {
		referencePath = ps.Config.Validation.ReferencePath
	}
	if referencePath != "" && opts.Mode != pipelineMode.Gene {
		reference, err := readReference(ps.Config, referencePath)
		if err != nil {
			return summary, err
		}
		validated, err = ps.merger.Merge(annotated, reference)
		if err != nil {
			return summary, err
		}
		if err := out.validation(header, validated); err != nil {
			return summary, err
		}
	}
	summary.ValidationRows = len(validated)

	if ps.Config.Api.ExportXlsx {
		if err := out.workbook(); err != nil {
			return summary, err
		}
	}

	if ps.Es7Client != nil {
		docs := indexDocuments(runId, time.Now().UTC(), geneRows, variantRows, validated)
		if err := ps.index(ctx, runId, docs); err != nil {
			return summary, err
		}
	}

	ps.logger.Infoj(log.JSON{
		"message":          "run complete",
		"runId":            runId,
		"entities":         summary.Entities,
		"literatureIds":    summary.LiteratureIds,
		"geneRelations":    summary.GeneRelations,
		"variantRelations": summary.VariantRelations,
		"geneRows":         summary.GeneRows,
		"variantRows":      summary.VariantRows,
		"validationRows":   summary.ValidationRows,
		"cacheHits":        summary.CacheHits,
		"cacheMisses":      summary.CacheMisses,
	})
	return summary, nil
}
