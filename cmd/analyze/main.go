package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/config"
	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
	"alfredoptarigan/document-parser/internal/services"
)

const app = "analyze"

type fileResult struct {
	Filename string `json:"filename"`
	models.AnalysisOutcome
}

var rootCmd = &cobra.Command{
	Use:   app + " [files...]",
	Short: "Run OCR, classification and job matching on local documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.Flags().IntP("limit", "l", services.DefaultJobLimit, "number of job recommendations per document")
	rootCmd.Flags().StringP("output", "o", "", "write results to this file instead of stdout")
	rootCmd.Flags().IntP("concurrency", "c", 1, "documents processed at once")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("limit", rootCmd.Flags().Lookup("limit"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("concurrency", rootCmd.Flags().Lookup("concurrency"))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, paths []string) error {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zl.Sync()

	cfg := config.Load()

	extractor := services.NewTextExtractor(services.NewOCREngine(zl), services.NewPDFParserService(), zl)
	if err := extractor.Initialize(); err != nil {
		zl.Warn("OCR engine failed to initialize", zap.Error(err))
	}

	backend := services.UnconfiguredBackend()
	if cfg.Gemini.Configured() {
		gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
		if err != nil {
			zl.Warn("gemini unavailable, using keyword rules", zap.Error(err))
		} else {
			backend = services.ConfiguredBackend(gemini)
		}
	}

	analyzer := services.NewDocumentAnalyzer(backend, services.NewRuleEngine(), services.AnalyzerOptions{
		Timeout:    cfg.Gemini.Timeout,
		MaxRetries: cfg.Gemini.RetryMaxAttempts,
	}, zl)

	pipeline := services.NewPipeline(extractor, analyzer, services.NewJobMatcher(), services.PipelineOptions{
		Concurrency: viper.GetInt("concurrency"),
		JobLimit:    viper.GetInt("limit"),
	}, zl)

	results := make([]fileResult, len(paths))
	var docs []models.RawDocument
	var slots []int

	for i, path := range paths {
		name := filepath.Base(path)
		results[i].Filename = name

		kind, ok := models.KindFromFilename(name)
		if !ok {
			results[i].AnalysisOutcome = models.AnalysisOutcome{Status: models.StatusError, Error: "unsupported file type"}
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			results[i].AnalysisOutcome = models.AnalysisOutcome{Status: models.StatusError, Error: fmt.Sprintf("failed to read file: %v", err)}
			continue
		}

		docs = append(docs, models.RawDocument{Data: data, Kind: kind, Filename: name})
		slots = append(slots, i)
	}

	for j, outcome := range pipeline.ProcessBatch(ctx, docs) {
		results[slots[j]].AnalysisOutcome = outcome
	}

	out := os.Stdout
	if path := viper.GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	zl.Debug("analysis finished", zap.Int("files", len(paths)), zap.Int("processed", len(docs)))
	return nil
}
