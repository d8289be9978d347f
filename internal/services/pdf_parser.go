package services

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// pdfBaseDPI is the resolution at which a page renders at scale 1.
const pdfBaseDPI = 72.0

type PDFParserService interface {
	// PageTexts returns the native text layer of every page in document order.
	// Pages without a text layer yield an empty string.
	PageTexts(data []byte) ([]string, error)
	// OpenRenderer prepares the document for rasterizing individual pages.
	OpenRenderer(data []byte) (PageRenderer, error)
}

type PageRenderer interface {
	// RenderPage rasterizes the zero-based page at the given scale.
	RenderPage(pageIndex int, scale float64) (image.Image, error)
	Close() error
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) PageTexts(data []byte) (texts []string, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPage := r.NumPage()
	texts = make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// An unreadable text layer is treated like a scanned page.
			texts = append(texts, "")
			continue
		}

		texts = append(texts, text)
	}

	return texts, nil
}

func (p *pdfParserService) OpenRenderer(data []byte) (PageRenderer, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	return &fitzRenderer{doc: doc}, nil
}

type fitzRenderer struct {
	doc *fitz.Document
}

func (f *fitzRenderer) RenderPage(pageIndex int, scale float64) (image.Image, error) {
	if pageIndex < 0 || pageIndex >= f.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", pageIndex+1)
	}

	img, err := f.doc.ImageDPI(pageIndex, pdfBaseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex+1, err)
	}

	return img, nil
}

func (f *fitzRenderer) Close() error {
	return f.doc.Close()
}
