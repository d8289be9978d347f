package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/repositories"
	"alfredoptarigan/document-parser/internal/services"
)

type DocumentHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	indexer        services.DocumentIndexer
	publisher      services.EventPublisher
	logger         *zap.Logger
}

func NewDocumentHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	indexer services.DocumentIndexer,
	publisher services.EventPublisher,
	log *zap.Logger,
) *DocumentHandler {
	if indexer == nil {
		indexer = services.NewDisabledIndexer()
	}
	if publisher == nil {
		publisher = services.NewNoopPublisher()
	}
	return &DocumentHandler{
		docRepo:        docRepo,
		storageService: storageService,
		indexer:        indexer,
		publisher:      publisher,
		logger:         logger.OrNop(log),
	}
}

// HandleList lists documents newest first, optionally for one username.
func (h *DocumentHandler) HandleList(c *fiber.Ctx) error {
	docs, err := h.docRepo.FindAll(strings.TrimSpace(c.Query("username")))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":    "success",
		"count":     len(docs),
		"documents": docs,
	})
}

func (h *DocumentHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID format",
		})
	}

	doc, err := h.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"document": doc,
	})
}

// HandleDelete removes the stored original, the index entries and the record.
func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID format",
		})
	}

	doc, err := h.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		return err
	}

	ctx := c.UserContext()
	log := h.logger.With(zap.String("document_id", id.String()))

	if err := h.storageService.Delete(ctx, doc.FilePath); err != nil {
		log.Warn("failed to delete stored file", zap.Error(err))
	}
	if err := h.indexer.Delete(ctx, id.String()); err != nil {
		log.Warn("failed to delete index entries", zap.Error(err))
	}

	if err := h.docRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		return err
	}

	event := services.DocumentEvent{
		Status:       services.EventDeleted,
		DocumentID:   id.String(),
		Username:     doc.Username,
		Filename:     doc.OriginalFilename,
		DocumentType: doc.DocumentType,
		Timestamp:    time.Now().UTC(),
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish document event", zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Document %s deleted successfully", id),
	})
}

// HandleSearch runs a semantic query over indexed documents.
func (h *DocumentHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter 'q' is required",
		})
	}

	hits, err := h.indexer.Search(c.UserContext(), query, strings.TrimSpace(c.Query("username")), c.QueryInt("limit", services.DefaultSearchLimit))
	if err != nil {
		if errors.Is(err, services.ErrSearchDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Document search is not configured",
			})
		}
		h.logger.Error("document search failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "document search failed")
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"count":   len(hits),
		"results": hits,
	})
}
