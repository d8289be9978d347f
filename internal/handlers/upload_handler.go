package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
	"alfredoptarigan/document-parser/internal/repositories"
	"alfredoptarigan/document-parser/internal/services"
)

const invalidFileTypeMessage = "Invalid file type. Only PDF, JPG, PNG allowed."

type UploadHandler struct {
	pipeline       services.Pipeline
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	indexWorker    services.IndexWorker
	publisher      services.EventPublisher
	maxFileSize    int64
	logger         *zap.Logger
}

func NewUploadHandler(
	pipeline services.Pipeline,
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	indexWorker services.IndexWorker,
	publisher services.EventPublisher,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	if publisher == nil {
		publisher = services.NewNoopPublisher()
	}
	return &UploadHandler{
		pipeline:       pipeline,
		docRepo:        docRepo,
		storageService: storageService,
		indexWorker:    indexWorker,
		publisher:      publisher,
		maxFileSize:    maxFileSize,
		logger:         logger.OrNop(log),
	}
}

// accepted is an upload that passed validation and was stored.
type accepted struct {
	slot     int
	location string
	doc      models.RawDocument
}

// HandleUpload analyzes every file in the form and answers one result per
// file, in submission order. Per-file problems never fail the request.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	username := ""
	if values := form.Value["username"]; len(values) > 0 {
		username = strings.TrimSpace(values[0])
	}
	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "username is required",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files uploaded. Please upload one or more 'files'.",
		})
	}

	ctx := c.UserContext()
	results := make([]models.UploadResult, len(files))
	pending := make([]accepted, 0, len(files))

	for i, file := range files {
		results[i] = models.UploadResult{Filename: file.Filename, Status: models.StatusError}

		kind, ok := models.KindFromFilename(file.Filename)
		if !ok {
			results[i].Error = invalidFileTypeMessage
			continue
		}

		if h.maxFileSize > 0 && file.Size > h.maxFileSize {
			results[i].Error = fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize)
			continue
		}

		data, err := readUpload(file)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}

		location, err := h.storageService.Save(ctx, username, file.Filename, data)
		if err != nil {
			h.logger.Error("failed to store upload", zap.String("filename", file.Filename), zap.Error(err))
			results[i].Error = "failed to store file"
			continue
		}

		pending = append(pending, accepted{
			slot:     i,
			location: location,
			doc:      models.RawDocument{Data: data, Kind: kind, Filename: file.Filename},
		})
	}

	raw := make([]models.RawDocument, len(pending))
	for i, p := range pending {
		raw[i] = p.doc
	}
	outcomes := h.pipeline.ProcessBatch(ctx, raw)

	for i, p := range pending {
		results[p.slot] = h.finish(c, username, p, outcomes[i])
	}

	return c.JSON(models.UploadResponse{Results: results})
}

// finish persists a successful outcome and reports it. Failed outcomes leave
// no record, so their stored original is removed.
func (h *UploadHandler) finish(c *fiber.Ctx, username string, p accepted, outcome models.AnalysisOutcome) models.UploadResult {
	result := models.UploadResult{Filename: p.doc.Filename, Status: models.StatusError}

	if !outcome.Succeeded() {
		h.discard(c, p.location)
		h.publish(c, services.OutcomeEvent(username, p.doc.Filename, "", outcome))
		result.Error = outcome.Error
		return result
	}

	record := &models.DocumentRecord{
		Username:           username,
		OriginalFilename:   p.doc.Filename,
		FilePath:           p.location,
		OCRText:            outcome.Text,
		DocumentType:       outcome.Data.DocumentType,
		Skills:             outcome.Data.Skills,
		Metadata:           outcome.Data.Metadata,
		JobRecommendations: outcome.Data.JobRecommendations,
		Timestamp:          time.Now().Format(time.RFC3339),
	}

	if err := h.docRepo.Create(record); err != nil {
		h.logger.Error("failed to save document record", zap.String("filename", p.doc.Filename), zap.Error(err))
		h.discard(c, p.location)
		result.Error = "failed to save document record"
		return result
	}

	h.indexWorker.EnqueueDocument(record.ID)
	h.publish(c, services.OutcomeEvent(username, p.doc.Filename, record.ID.String(), outcome))

	result.Status = models.StatusSuccess
	result.DocumentID = record.ID.String()
	result.Data = outcome.Data
	return result
}

func (h *UploadHandler) discard(c *fiber.Ctx, location string) {
	if err := h.storageService.Delete(c.UserContext(), location); err != nil {
		h.logger.Warn("failed to remove stored upload", zap.String("location", location), zap.Error(err))
	}
}

func (h *UploadHandler) publish(c *fiber.Ctx, event services.DocumentEvent) {
	if err := h.publisher.Publish(c.UserContext(), event); err != nil {
		h.logger.Warn("failed to publish document event", zap.String("routing_key", event.RoutingKey()), zap.Error(err))
	}
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}
