package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"alfredoptarigan/document-parser/internal/models"
)

type stubExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (s *stubExtractor) Extract(ctx context.Context, doc models.RawDocument) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, doc.Filename)
	s.mu.Unlock()

	if err := s.errs[doc.Filename]; err != nil {
		return "", err
	}
	return s.texts[doc.Filename], nil
}

func (s *stubExtractor) Initialize() error { return nil }
func (s *stubExtractor) IsReady() bool     { return true }

func newTestPipeline(extractor TextExtractor, concurrency int) Pipeline {
	analyzer := NewDocumentAnalyzer(UnconfiguredBackend(), nil, AnalyzerOptions{}, nil)
	matcher := NewJobMatcherWithSource(JobCatalog(), rand.NewPCG(7, 8))
	return NewPipeline(extractor, analyzer, matcher, PipelineOptions{Concurrency: concurrency}, nil)
}

func TestProcessSuccess(t *testing.T) {
	extractor := &stubExtractor{texts: map[string]string{
		"cert.png": "ABC University\nCertificate of Internship\nPython React MongoDB Node.js REST API",
	}}
	p := newTestPipeline(extractor, 1)

	outcome := p.Process(context.Background(), models.RawDocument{Filename: "cert.png", Kind: models.KindImage})

	if !outcome.Succeeded() || outcome.Data == nil {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Data.DocumentType != models.TypeInternship {
		t.Fatalf("unexpected type %q", outcome.Data.DocumentType)
	}
	if len(outcome.Data.JobRecommendations) != DefaultJobLimit {
		t.Fatalf("expected %d jobs, got %d", DefaultJobLimit, len(outcome.Data.JobRecommendations))
	}
	if outcome.Data.JobRecommendations[0].Title != "Full Stack Developer" {
		t.Fatalf("expected full stack first, got %q", outcome.Data.JobRecommendations[0].Title)
	}
	if outcome.Text == "" || outcome.Data.OCRPreview != outcome.Text {
		t.Fatal("short text should be previewed in full and kept for persistence")
	}
}

func TestProcessExtractionFailure(t *testing.T) {
	extractor := &stubExtractor{errs: map[string]error{
		"bad.pdf": newExtractionError("bad.pdf", "failed to open PDF: bad header"),
	}}
	p := newTestPipeline(extractor, 1)

	outcome := p.Process(context.Background(), models.RawDocument{Filename: "bad.pdf", Kind: models.KindPDF})

	if outcome.Succeeded() || outcome.Data != nil {
		t.Fatalf("expected failure, got %+v", outcome)
	}
	if outcome.Error != "extraction error: failed to open PDF: bad header" {
		t.Fatalf("unexpected reason %q", outcome.Error)
	}
}

func TestProcessInsufficientText(t *testing.T) {
	extractor := &stubExtractor{texts: map[string]string{"blank.png": "  \n  short \n"}}
	p := newTestPipeline(extractor, 1)

	outcome := p.Process(context.Background(), models.RawDocument{Filename: "blank.png", Kind: models.KindImage})

	if outcome.Status != models.StatusError || outcome.Error != "insufficient text" {
		t.Fatalf("expected insufficient text failure, got %+v", outcome)
	}
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	if got := Preview(long); got != strings.Repeat("a", 500)+"..." {
		t.Fatalf("expected 500 chars plus marker, got %d chars", len(got))
	}

	short := strings.Repeat("b", 400)
	if got := Preview(short); got != short {
		t.Fatal("text under the limit must be returned unchanged")
	}

	exact := strings.Repeat("c", 500)
	if got := Preview(exact); got != exact {
		t.Fatal("text exactly at the limit must not be marked")
	}

	multibyte := strings.Repeat("é", 501)
	if got := Preview(multibyte); got != strings.Repeat("é", 500)+"..." {
		t.Fatal("preview must count characters, not bytes")
	}
}

func TestProcessBatchIsolatesFailuresAndKeepsOrder(t *testing.T) {
	extractor := &stubExtractor{
		texts: map[string]string{
			"a.png": "Workshop on Docker and Kubernetes",
			"c.pdf": "Bachelor degree in Computer Science",
		},
		errs: map[string]error{"b.jpg": newExtractionError("b.jpg", "could not read image")},
	}

	for _, concurrency := range []int{1, 3} {
		p := newTestPipeline(extractor, concurrency)
		docs := []models.RawDocument{
			{Filename: "a.png", Kind: models.KindImage},
			{Filename: "b.jpg", Kind: models.KindImage},
			{Filename: "c.pdf", Kind: models.KindPDF},
		}

		outcomes := p.ProcessBatch(context.Background(), docs)
		if len(outcomes) != 3 {
			t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
		}
		if !outcomes[0].Succeeded() || outcomes[0].Data.DocumentType != models.TypeWorkshop {
			t.Fatalf("first outcome wrong: %+v", outcomes[0])
		}
		if outcomes[1].Succeeded() || !strings.HasPrefix(outcomes[1].Error, "extraction error") {
			t.Fatalf("second outcome should fail: %+v", outcomes[1])
		}
		if !outcomes[2].Succeeded() || outcomes[2].Data.DocumentType != models.TypeDegree {
			t.Fatalf("third outcome wrong: %+v", outcomes[2])
		}
	}
}

func TestExtractionReasonForPlainError(t *testing.T) {
	if got := extractionReason(errors.New("boom")); got != "extraction error: boom" {
		t.Fatalf("unexpected reason %q", got)
	}
}
