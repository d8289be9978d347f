package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/repositories"
)

// Readiness is implemented by the text extractor and the document analyzer.
type Readiness interface {
	IsReady() bool
}

type HealthHandler struct {
	docRepo  repositories.DocumentRepository
	ocr      Readiness
	analyzer Readiness
	logger   *zap.Logger
	now      func() time.Time
}

func NewHealthHandler(docRepo repositories.DocumentRepository, ocr Readiness, analyzer Readiness, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		docRepo:  docRepo,
		ocr:      ocr,
		analyzer: analyzer,
		logger:   logger.OrNop(log),
		now:      time.Now,
	}
}

func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AI Document Parser API",
		"status":  "running",
	})
}

// HandleHealth reports "healthy" when the database, OCR engine and
// classification backend are all up, "degraded" otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	timestamp := h.now().Format(time.RFC3339)

	dbOnline := h.docRepo.Ping() == nil
	ocrOnline := h.ocr.IsReady()
	aiOnline := h.analyzer.IsReady()

	total, err := h.docRepo.Count()
	if err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": timestamp,
		})
	}

	status := "healthy"
	if !dbOnline || !ocrOnline || !aiOnline {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":    status,
		"timestamp": timestamp,
		"services": fiber.Map{
			"database": onlineLabel(dbOnline),
			"ocr":      onlineLabel(ocrOnline),
			"ai":       onlineLabel(aiOnline),
		},
		"stats": fiber.Map{
			"total_documents_processed": total,
			"uptime":                    "running",
		},
	})
}

func (h *HealthHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.docRepo.Statistics(h.now().Add(-24 * time.Hour))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"stats":  stats,
	})
}

func onlineLabel(ok bool) string {
	if ok {
		return "online"
	}
	return "offline"
}
