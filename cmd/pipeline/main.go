package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"genelit/api/models"
	pipelineMode "genelit/api/models/constants/pipeline-mode"
	"genelit/api/repositories/mesh"
	"genelit/api/services/pipeline"
	"genelit/api/utils"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "genelit",
		Short:         "Literature evidence for genes and variants",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// keep stdout for command output
			utils.SetLogOutput(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides GENELIT_* variables)")

	rootCmd.AddCommand(newRunCmd(&configPath), newMeshCmd(&configPath))
	return rootCmd
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		input     string
		reference string
		output    string
		mode      string
		xlsx      bool
		index     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one pipeline pass over an entity table",
		Long: `Resolves literature for every entity of the input table, mines
gene/variant-disease relations from it, aggregates them and, when a
reference table is given, joins the GWAS records. Tables are written
under <output>/<run id>.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return errors.New("--input is required")
			}

			cfg, err := models.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Api.OutputDirectory = output
			}
			if cmd.Flags().Changed("xlsx") {
				cfg.Api.ExportXlsx = xlsx
			}

			runMode := pipelineMode.Unknown
			if mode != "" {
				if runMode = pipelineMode.CastToPipelineMode(mode); runMode == pipelineMode.Unknown {
					return fmt.Errorf("invalid --mode %s - expected gene or variant", mode)
				}
			}

			var es *es7.Client
			if index && cfg.Elasticsearch.Url != "" {
				es, err = utils.CreateEsConnection(cfg.Elasticsearch.Url, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
				if err != nil {
					return err
				}
			}

			ps, err := pipeline.NewPipelineService(es, cfg)
			if err != nil {
				return err
			}

			runId := uuid.New().String()
			cmd.Printf("Running %s over %s..\n", runId, input)
			summary, err := ps.Run(context.Background(), runId, pipeline.RunOptions{
				InputPath:     input,
				ReferencePath: reference,
				Mode:          runMode,
			})
			if err != nil {
				return fmt.Errorf("run %s failed: %w", runId, err)
			}

			out, _ := json.MarshalIndent(summary, "", "  ")
			cmd.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "annotated entity table (csv/tsv)")
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "GWAS reference table for validation")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "gene or variant (default both)")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "also write an xlsx workbook")
	cmd.Flags().BoolVar(&index, "index", false, "index results into elasticsearch")
	return cmd
}

func newMeshCmd(configPath *string) *cobra.Command {
	var descriptors string

	cmd := &cobra.Command{
		Use:   "mesh",
		Short: "Load MeSH descriptors into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := models.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if descriptors == "" {
				descriptors = cfg.Mesh.DescriptorsPath
			}
			if descriptors == "" {
				return errors.New("--descriptors is required")
			}

			store, err := mesh.Open(cfg.Mesh.DbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.LoadDescriptors(context.Background(), descriptors)
			if err != nil {
				return err
			}
			total, err := store.Count(context.Background())
			if err != nil {
				return err
			}
			cmd.Printf("Loaded %d descriptors (%d in catalog)\n", n, total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&descriptors, "descriptors", "d", "", "MeSH descriptors TSV (DescriptorUI, DescriptorName, TreeNumbers)")
	return cmd
}
