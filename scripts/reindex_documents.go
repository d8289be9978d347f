package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/config"
	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/repositories"
	"alfredoptarigan/document-parser/internal/services"
)

// Rebuilds the vector index from every stored document. Point ids are
// derived from document id and chunk index, so re-running is safe.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	if !cfg.Gemini.Configured() || !cfg.Qdrant.Enabled() {
		zl.Fatal("reindexing needs GEMINI_API_KEY and QDRANT_URL")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	docRepo := repositories.NewDocumentRepository(db)

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
	if err != nil {
		zl.Fatal("failed to initialize gemini", zap.Error(err))
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zl)
	if err != nil {
		zl.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := index.InitCollection(ctx); err != nil {
		zl.Fatal("failed to initialize collection", zap.Error(err))
	}

	indexer := services.NewDocumentIndexer(gemini, index, services.NewTextChunker(), zl)

	summaries, err := docRepo.FindAll("")
	if err != nil {
		zl.Fatal("failed to list documents", zap.Error(err))
	}
	zl.Info("reindexing documents", zap.Int("count", len(summaries)))

	successCount := 0
	failCount := 0

	for i, summary := range summaries {
		docLog := zl.With(
			zap.String("document_id", summary.ID.String()),
			zap.String("filename", summary.OriginalFilename),
		)

		doc, err := docRepo.FindByID(summary.ID)
		if err != nil {
			docLog.Warn("failed to load document", zap.Error(err))
			failCount++
			continue
		}

		if err := indexer.IndexDocument(ctx, doc); err != nil {
			docLog.Error("failed to index document", zap.Error(err))
			failCount++
			continue
		}

		if err := docRepo.MarkIndexed(doc.ID); err != nil {
			docLog.Error("failed to mark document indexed", zap.Error(err))
			failCount++
			continue
		}

		successCount++
		if (i+1)%10 == 0 || i == len(summaries)-1 {
			zl.Info("progress", zap.Int("done", i+1), zap.Int("total", len(summaries)))
		}
	}

	zl.Info("reindex summary", zap.Int("successful", successCount), zap.Int("failed", failCount))

	if failCount > 0 {
		os.Exit(1)
	}
}
