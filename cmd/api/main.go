package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/config"
	"alfredoptarigan/document-parser/internal/handlers"
	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/repositories"
	"alfredoptarigan/document-parser/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	docRepo := repositories.NewDocumentRepository(db)

	storageService, err := newStorage(ctx, cfg.Storage, zl)
	if err != nil {
		zl.Fatal("failed to initialize storage", zap.Error(err))
	}
	if err := storageService.EnsureReady(ctx); err != nil {
		zl.Fatal("storage is not ready", zap.Error(err))
	}

	extractor := services.NewTextExtractor(services.NewOCREngine(zl), services.NewPDFParserService(), zl)
	if err := extractor.Initialize(); err != nil {
		zl.Warn("OCR engine failed to initialize, retrying on first use", zap.Error(err))
	}

	backend := services.UnconfiguredBackend()
	indexer := services.NewDisabledIndexer()

	if cfg.Gemini.Configured() {
		gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
		if err != nil {
			zl.Warn("gemini unavailable, using keyword rules", zap.Error(err))
		} else {
			backend = services.ConfiguredBackend(gemini)
			zl.Info("gemini backend configured", zap.String("model", gemini.Model()))

			if cfg.Qdrant.Enabled() {
				indexer = initIndexer(ctx, cfg, gemini, zl)
			}
		}
	} else {
		zl.Info("GEMINI_API_KEY not set, using keyword rules")
	}

	analyzer := services.NewDocumentAnalyzer(backend, services.NewRuleEngine(), services.AnalyzerOptions{
		Timeout:    cfg.Gemini.Timeout,
		MaxRetries: cfg.Gemini.RetryMaxAttempts,
	}, zl)

	pipeline := services.NewPipeline(extractor, analyzer, services.NewJobMatcher(), services.PipelineOptions{
		Concurrency: cfg.Pipeline.Concurrency,
		JobLimit:    cfg.Pipeline.JobLimit,
	}, zl)

	publisher := services.NewNoopPublisher()
	if cfg.Events.Enabled() {
		p, err := services.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange, zl)
		if err != nil {
			zl.Warn("event publishing disabled", zap.Error(err))
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	worker := services.NewIndexWorker(docRepo, indexer, cfg.Worker.Concurrency, zl)
	worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "AI Document Parser API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    bodyLimit(cfg.Storage.MaxFileSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.RegisterRoutes(app,
		handlers.NewHealthHandler(docRepo, extractor, analyzer, zl),
		handlers.NewUploadHandler(pipeline, docRepo, storageService, worker, publisher, cfg.Storage.MaxFileSize, zl),
		handlers.NewDocumentHandler(docRepo, storageService, indexer, publisher, zl),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("shutting down server")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

func initIndexer(ctx context.Context, cfg *config.Config, gemini services.GeminiService, zl *zap.Logger) services.DocumentIndexer {
	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zl)
	if err != nil {
		zl.Warn("document search disabled", zap.Error(err))
		return services.NewDisabledIndexer()
	}
	if err := index.InitCollection(ctx); err != nil {
		zl.Warn("document search disabled", zap.Error(err))
		return services.NewDisabledIndexer()
	}

	zl.Info("document search enabled", zap.String("collection", cfg.Qdrant.Collection))
	return services.NewDocumentIndexer(gemini, index, services.NewTextChunker(), zl)
}

func newStorage(ctx context.Context, cfg config.StorageConfig, zl *zap.Logger) (services.StorageService, error) {
	switch cfg.Driver {
	case services.StorageDriverS3:
		client, err := services.NewS3Client(ctx, services.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		zl.Info("using s3 storage", zap.String("bucket", cfg.S3.Bucket))
		return services.NewS3Storage(client, cfg.S3.Bucket, zl), nil
	case services.StorageDriverLocal, "":
		zl.Info("using local storage", zap.String("path", cfg.UploadPath))
		return services.NewLocalStorage(cfg.UploadPath), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// bodyLimit leaves room for several files of MaxFileSize in one request.
func bodyLimit(maxFileSize int64) int {
	const filesPerRequest = 10
	if maxFileSize <= 0 {
		return fiber.DefaultBodyLimit
	}
	return int(maxFileSize) * filesPerRequest
}
