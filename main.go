package main

import (
	"context"
	"fmt"
	"os"

	"genelit/api/contexts"
	gam "genelit/api/middleware"
	"genelit/api/models"
	"genelit/api/mvc/genes"
	"genelit/api/mvc/locations"
	pipelineMvc "genelit/api/mvc/pipeline"
	"genelit/api/mvc/relations"
	serviceInfo "genelit/api/mvc/service-info"
	"genelit/api/mvc/variants"
	"genelit/api/repositories/mesh"
	"genelit/api/services/pipeline"
	"genelit/api/services/sanitation"
	"genelit/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables (and the optional config file)
	cfg, err := models.LoadConfig("")
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tData Directory : %s \n"+
		"\tOutput Directory : %s \n"+
		"\tExport XLSX : %t\n\n"+

		"\tLiterature Search Url : %s \n"+
		"\tMax Articles : %d\n"+
		"\tConcurrency Level : %d\n"+
		"\tRequests Per Second : %.1f\n\n"+

		"\tMining Url : %s \n"+
		"\tMining Batch Size : %d\n\n"+

		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n"+
		"\tMeSH Catalog : %s\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.DataDirectory,
		cfg.Api.OutputDirectory,
		cfg.Api.ExportXlsx,
		cfg.Literature.SearchUrl,
		cfg.Literature.MaxArticles,
		cfg.Literature.ConcurrencyLevel,
		cfg.Literature.RequestsPerSecond,
		cfg.Mining.Url,
		cfg.Mining.BatchSize,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Mesh.DbPath,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch (optional; query routes answer 503 without it)
	var es *es7.Client
	if cfg.Elasticsearch.Url != "" {
		es, err = utils.CreateEsConnection(cfg.Elasticsearch.Url, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}

	// -- MeSH catalog
	meshStore, err := mesh.Open(cfg.Mesh.DbPath)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	defer meshStore.Close()
	if cfg.Mesh.DescriptorsPath != "" {
		n, err := meshStore.LoadDescriptors(context.Background(), cfg.Mesh.DescriptorsPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		fmt.Printf("Loaded %d MeSH descriptors\n", n)
	}

	// Service Singletons
	ps, err := pipeline.NewPipelineService(es, cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	sanitation.NewSanitationService(es, cfg, ps)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET},
	}))

	// -- Override handlers with "custom Genelit" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.GenelitContext{
				Context:         c,
				Es7Client:       es,
				Config:          cfg,
				PipelineService: ps,
				MeshStore:       meshStore,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", serviceInfo.GetWelcome)

	// -- Service Info
	e.GET("/service-info", serviceInfo.GetServiceInfo)

	// -- Pipeline
	e.GET("/pipeline/run", pipelineMvc.PipelineRun,
		// middleware
		gam.MandatePipelineInputs)
	e.GET("/pipeline/requests", pipelineMvc.GetAllRunRequests)

	// -- Relations
	e.GET("/relations/overview", relations.GetRelationsOverview)
	e.GET("/genes/relations", genes.GenesGetRelations,
		// middleware
		gam.MandateGeneAttribute)
	e.GET("/variants/relations", variants.VariantsGetRelations,
		// middleware
		gam.MandateRsIdAttribute)

	// -- Validation
	e.GET("/variants/by/gene", variants.VariantsGetByGene,
		// middleware
		gam.MandateGeneAttribute)
	e.GET("/locations/genes", locations.LocationsGetGenes,
		// middleware
		gam.MandateLocusAttribute)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
