package models

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	Debug          bool   `envconfig:"GENELIT_DEBUG" yaml:"debug"`
	SemVer         string `envconfig:"GENELIT_SEMVER" default:"0.1.0" yaml:"semver"`
	ServiceContact string `envconfig:"GENELIT_SERVICE_CONTACT" default:"mailto:genelit@localhost" yaml:"serviceContact"`

	Api struct {
		Url             string `envconfig:"GENELIT_API_URL" yaml:"url"`
		Port            string `envconfig:"GENELIT_API_INTERNAL_PORT" default:"5000" yaml:"port"`
		DataDirectory   string `envconfig:"GENELIT_API_DATA_DIR" default:"data" yaml:"dataDirectory"`
		OutputDirectory string `envconfig:"GENELIT_API_OUTPUT_DIR" default:"results" yaml:"outputDirectory"`
		ExportXlsx      bool   `envconfig:"GENELIT_API_EXPORT_XLSX" yaml:"exportXlsx"`
	} `yaml:"api"`

	Literature struct {
		SearchUrl         string        `envconfig:"GENELIT_LITERATURE_SEARCH_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi" yaml:"searchUrl"`
		FetchUrl          string        `envconfig:"GENELIT_LITERATURE_FETCH_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi" yaml:"fetchUrl"`
		Database          string        `envconfig:"GENELIT_LITERATURE_DATABASE" default:"pubmed" yaml:"database"`
		ApiKey            string        `envconfig:"GENELIT_LITERATURE_API_KEY" yaml:"apiKey"`
		MaxArticles       int           `envconfig:"GENELIT_LITERATURE_MAX_ARTICLES" default:"5" yaml:"maxArticles"`
		ConcurrencyLevel  int           `envconfig:"GENELIT_LITERATURE_CONCURRENCY_LEVEL" default:"3" yaml:"concurrencyLevel"`
		RequestsPerSecond float64       `envconfig:"GENELIT_LITERATURE_REQUESTS_PER_SECOND" default:"3" yaml:"requestsPerSecond"`
		MaxAttempts       int           `envconfig:"GENELIT_LITERATURE_MAX_ATTEMPTS" default:"3" yaml:"maxAttempts"`
		RetryInterval     time.Duration `envconfig:"GENELIT_LITERATURE_RETRY_INTERVAL" default:"1s" yaml:"retryInterval"`
		Timeout           time.Duration `envconfig:"GENELIT_LITERATURE_TIMEOUT" default:"30s" yaml:"timeout"`
	} `yaml:"literature"`

	Mining struct {
		Url       string        `envconfig:"GENELIT_MINING_URL" default:"https://www.ncbi.nlm.nih.gov/research/pubtator3-api" yaml:"url"`
		Format    string        `envconfig:"GENELIT_MINING_FORMAT" default:"biocjson" yaml:"format"`
		BatchSize int           `envconfig:"GENELIT_MINING_BATCH_SIZE" default:"70" yaml:"batchSize"`
		Timeout   time.Duration `envconfig:"GENELIT_MINING_TIMEOUT" default:"120s" yaml:"timeout"`
	} `yaml:"mining"`

	Entities struct {
		EntityColumn      string `envconfig:"GENELIT_ENTITIES_ENTITY_COLUMN" default:"Protein Variation" yaml:"entityColumn"`
		GeneColumn        string `envconfig:"GENELIT_ENTITIES_GENE_COLUMN" default:"Gene" yaml:"geneColumn"`
		VariationIdColumn string `envconfig:"GENELIT_ENTITIES_VARIATION_ID_COLUMN" default:"VariationID" yaml:"variationIdColumn"`
		VariantCallColumn string `envconfig:"GENELIT_ENTITIES_VARIANT_CALL_COLUMN" default:"vcf" yaml:"variantCallColumn"`
	} `yaml:"entities"`

	Validation struct {
		ReferencePath     string `envconfig:"GENELIT_VALIDATION_REFERENCE_PATH" yaml:"referencePath"`
		VariationIdColumn string `envconfig:"GENELIT_VALIDATION_VARIATION_ID_COLUMN" default:"SNPS" yaml:"variationIdColumn"`
		TraitColumn       string `envconfig:"GENELIT_VALIDATION_TRAIT_COLUMN" default:"DISEASE/TRAIT" yaml:"traitColumn"`
		PValueColumn      string `envconfig:"GENELIT_VALIDATION_P_VALUE_COLUMN" default:"P-VALUE" yaml:"pValueColumn"`
		EffectSizeColumn  string `envconfig:"GENELIT_VALIDATION_EFFECT_SIZE_COLUMN" default:"OR or BETA" yaml:"effectSizeColumn"`
	} `yaml:"validation"`

	Elasticsearch struct {
		Url      string `envconfig:"GENELIT_ES_URL" yaml:"url"`
		Username string `envconfig:"GENELIT_ES_USERNAME" yaml:"username"`
		Password string `envconfig:"GENELIT_ES_PASSWORD" yaml:"password"`
	} `yaml:"elasticsearch"`

	Mesh struct {
		DbPath          string `envconfig:"GENELIT_MESH_DB_PATH" default:"data/mesh.db" yaml:"dbPath"`
		DescriptorsPath string `envconfig:"GENELIT_MESH_DESCRIPTORS_PATH" yaml:"descriptorsPath"`
	} `yaml:"mesh"`

	Sanitation struct {
		Schedule  string        `envconfig:"GENELIT_SANITATION_SCHEDULE" default:"04:00:00" yaml:"schedule"`
		Retention time.Duration `envconfig:"GENELIT_SANITATION_RETENTION" default:"72h" yaml:"retention"`
	} `yaml:"sanitation"`
}

// LoadConfig gathers environment variables (and their defaults), then
// overlays the YAML file at path when one is given.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("GENELIT_CONFIG_FILE")
	}
	if path == "" {
		return &cfg, nil
	}

	if err := cfg.overlayFile(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) overlayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}
