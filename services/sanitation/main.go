package sanitation

import (
	"time"

	"genelit/api/models"
	esRepo "genelit/api/repositories/elasticsearch"
	"genelit/api/services/pipeline"
	"genelit/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/go-co-op/gocron"
	"github.com/labstack/gommon/log"
)

type (
	SanitationService struct {
		Initialized bool
		Es7Client   *es7.Client
		Config      *models.Config
		Pipeline    *pipeline.PipelineService

		scheduler *gocron.Scheduler
		logger    *log.Logger
	}

	Report struct {
		PrunedRequests   int `json:"prunedRequests"`
		DeletedDocuments int `json:"deletedDocuments"`
	}
)

func NewSanitationService(es *es7.Client, cfg *models.Config, ps *pipeline.PipelineService) *SanitationService {
	ss := &SanitationService{
		Initialized: false,
		Es7Client:   es,
		Config:      cfg,
		Pipeline:    ps,
		logger:      utils.NewLogger("sanitation", cfg.Debug),
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if !ss.Initialized {
		// periodically forget finished run requests and drop indexed
		// documents of runs past the retention window
		ss.scheduler = gocron.NewScheduler(time.UTC)
		_, err := ss.scheduler.Every(1).Days().At(ss.Config.Sanitation.Schedule).Do(func() {
			ss.Sanitize(time.Now())
		})
		if err != nil {
			ss.logger.Errorf("invalid sanitation schedule %q: %v", ss.Config.Sanitation.Schedule, err)
			return
		}
		ss.scheduler.StartAsync()

		ss.Initialized = true
		ss.logger.Info("Sanitation Service Initialized ..")
	}
}

func (ss *SanitationService) Stop() {
	if ss.scheduler != nil {
		ss.scheduler.Stop()
	}
}

// Sanitize removes everything older than the retention window as of now.
func (ss *SanitationService) Sanitize(now time.Time) Report {
	var report Report
	cutoff := now.Add(-ss.Config.Sanitation.Retention)
	ss.logger.Infof("Running cleanup of runs older than %s..", cutoff.Format(time.RFC3339))

	if ss.Pipeline != nil {
		report.PrunedRequests = ss.Pipeline.PruneRequests(cutoff)
	}

	if ss.Es7Client != nil {
		deleted, err := esRepo.DeleteRunsOlderThan(ss.Config, ss.Es7Client, cutoff)
		if err != nil {
			ss.logger.Warnf("deleting indexed runs: %v", err)
		}
		report.DeletedDocuments = deleted
	}

	ss.logger.Infoj(log.JSON{
		"message":          "cleanup complete",
		"prunedRequests":   report.PrunedRequests,
		"deletedDocuments": report.DeletedDocuments,
	})
	return report
}
