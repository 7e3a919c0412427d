package runs

import (
	"genelit/api/models/constants"

	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

type RunRequest struct {
	Id            uuid.UUID              `json:"id"`
	InputPath     string                 `json:"inputPath"`
	ReferencePath string                 `json:"referencePath"`
	Mode          constants.PipelineMode `json:"mode"`
	State         State                  `json:"state"`
	Message       string                 `json:"message"`
	CreatedAt     string                 `json:"createdAt"`
	UpdatedAt     string                 `json:"updatedAt"`
}

type RunResponseDTO struct {
	Id        uuid.UUID `json:"id"`
	InputPath string    `json:"inputPath"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
}

// Summary is logged (and returned) once a pipeline pass completes.
type Summary struct {
	Entities         int               `json:"entities"`
	LiteratureIds    int               `json:"literatureIds"`
	GeneRelations    int               `json:"geneRelations"`
	VariantRelations int               `json:"variantRelations"`
	GeneRows         int               `json:"geneRows"`
	VariantRows      int               `json:"variantRows"`
	ValidationRows   int               `json:"validationRows"`
	CacheHits        int64             `json:"cacheHits"`
	CacheMisses      int64             `json:"cacheMisses"`
	Outputs          map[string]string `json:"outputs"`
}
