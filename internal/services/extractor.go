package services

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
)

// pdfRenderScale is the zoom applied to scanned PDF pages before OCR.
const pdfRenderScale = 2.0

const pageSeparator = "\n\n"

type TextExtractor interface {
	Extract(ctx context.Context, doc models.RawDocument) (string, error)
	Initialize() error
	IsReady() bool
}

type textExtractor struct {
	ocr    OCREngine
	pdf    PDFParserService
	logger *zap.Logger
}

func NewTextExtractor(ocr OCREngine, pdfParser PDFParserService, log *zap.Logger) TextExtractor {
	return &textExtractor{
		ocr:    ocr,
		pdf:    pdfParser,
		logger: logger.OrNop(log),
	}
}

// Initialize eagerly loads the OCR engine. Extraction initializes it lazily
// on first use when this is never called.
func (e *textExtractor) Initialize() error {
	return e.ocr.Initialize()
}

func (e *textExtractor) IsReady() bool {
	return e.ocr.IsReady()
}

func (e *textExtractor) Extract(ctx context.Context, doc models.RawDocument) (string, error) {
	switch doc.Kind {
	case models.KindPDF:
		return e.extractFromPDF(ctx, doc)
	case models.KindImage:
		return e.extractFromImage(doc)
	default:
		return "", &ExtractionError{Filename: doc.Filename, Err: ErrUnsupportedKind}
	}
}

func (e *textExtractor) extractFromImage(doc models.RawDocument) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(doc.Data))
	if err != nil {
		return "", newExtractionError(doc.Filename, "could not read image: %v", err)
	}

	e.logger.Debug("running OCR on image",
		zap.String("filename", doc.Filename),
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)

	fragments, err := e.ocr.Recognize(img)
	if err != nil {
		return "", newExtractionError(doc.Filename, "OCR failed: %v", err)
	}

	return strings.Join(fragments, "\n"), nil
}

func (e *textExtractor) extractFromPDF(ctx context.Context, doc models.RawDocument) (string, error) {
	pageTexts, err := e.pdf.PageTexts(doc.Data)
	if err != nil {
		return "", newExtractionError(doc.Filename, "%v", err)
	}
	if len(pageTexts) == 0 {
		return "", newExtractionError(doc.Filename, "PDF has no pages")
	}

	var renderer PageRenderer
	defer func() {
		if renderer != nil {
			renderer.Close()
		}
	}()

	extracted := make([]string, 0, len(pageTexts))
	for pageIndex, text := range pageTexts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if strings.TrimSpace(text) != "" {
			extracted = append(extracted, text)
			continue
		}

		if renderer == nil {
			renderer, err = e.pdf.OpenRenderer(doc.Data)
			if err != nil {
				return "", newExtractionError(doc.Filename, "%v", err)
			}
		}

		e.logger.Debug("page has no text layer, rasterizing for OCR",
			zap.String("filename", doc.Filename),
			zap.Int("page", pageIndex+1),
		)

		img, err := renderer.RenderPage(pageIndex, pdfRenderScale)
		if err != nil {
			return "", newExtractionError(doc.Filename, "%v", err)
		}

		fragments, err := e.ocr.Recognize(img)
		if err != nil {
			return "", newExtractionError(doc.Filename, "OCR failed on page %d: %v", pageIndex+1, err)
		}

		extracted = append(extracted, strings.Join(fragments, "\n"))
	}

	return strings.Join(extracted, pageSeparator), nil
}
