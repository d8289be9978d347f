package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
)

// OCRLanguage is the only language the engine is loaded with.
const OCRLanguage = "eng"

// OCREngine turns a decoded image into text fragments in detection order.
type OCREngine interface {
	Initialize() error
	IsReady() bool
	Recognize(img image.Image) ([]string, error)
}

type tesseractEngine struct {
	language string
	logger   *zap.Logger

	initMu sync.Mutex
	ready  atomic.Bool

	// gosseract clients are not safe for concurrent use.
	mu     sync.Mutex
	client *gosseract.Client
}

func NewOCREngine(log *zap.Logger) OCREngine {
	return &tesseractEngine{
		language: OCRLanguage,
		logger:   logger.OrNop(log),
	}
}

// Initialize loads the tesseract client once. Concurrent and repeated calls
// are safe; a failed attempt leaves the engine uninitialized so a later call
// may retry.
func (e *tesseractEngine) Initialize() error {
	if e.ready.Load() {
		return nil
	}

	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.ready.Load() {
		return nil
	}

	e.logger.Info("initializing OCR engine", zap.String("language", e.language), zap.String("tesseract", gosseract.Version()))

	client := gosseract.NewClient()
	if err := client.SetLanguage(e.language); err != nil {
		client.Close()
		return fmt.Errorf("failed to set OCR language: %w", err)
	}

	e.mu.Lock()
	e.client = client
	e.mu.Unlock()
	e.ready.Store(true)

	e.logger.Info("OCR engine initialized")
	return nil
}

func (e *tesseractEngine) IsReady() bool {
	return e.ready.Load()
}

func (e *tesseractEngine) Recognize(img image.Image) ([]string, error) {
	if err := e.Initialize(); err != nil {
		return nil, err
	}

	encoded, err := encodeRGB(img)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(encoded); err != nil {
		return nil, fmt.Errorf("failed to load image into OCR engine: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("failed to run OCR: %w", err)
	}

	fragments := make([]string, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		fragments = append(fragments, text)
	}

	return fragments, nil
}

// encodeRGB flattens img onto white and encodes it as PNG. Opaque images are
// written by image/png as 3-channel truecolor, dropping the alpha channel.
func encodeRGB(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, flattenAlpha(img)); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}
	return buf.Bytes(), nil
}

func flattenAlpha(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}
