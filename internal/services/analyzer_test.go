package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alfredoptarigan/document-parser/internal/models"
)

type stubGenerator struct {
	reply   string
	err     error
	block   bool
	panics  bool
	prompts []string
}

func (s *stubGenerator) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.panics {
		panic("client exploded")
	}
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

const internshipText = "ABC University\nCertificate of Internship\nWorked with Python and Docker"

func TestAnalyzeUnconfiguredUsesRules(t *testing.T) {
	analyzer := NewDocumentAnalyzer(UnconfiguredBackend(), nil, AnalyzerOptions{}, nil)

	if analyzer.IsReady() {
		t.Fatal("unconfigured analyzer must not report ready")
	}

	result := analyzer.Analyze(context.Background(), internshipText)
	if result.DocumentType != models.TypeInternship {
		t.Fatalf("expected keyword classification, got %q", result.DocumentType)
	}
	if result.Metadata.Institution != "ABC University" {
		t.Fatalf("expected rule institution, got %q", result.Metadata.Institution)
	}
	if !containsString(result.Skills, "Python") || !containsString(result.Skills, "Docker") {
		t.Fatalf("expected rule skills, got %v", result.Skills)
	}
}

func TestAnalyzeParsesWrappedJSON(t *testing.T) {
	gen := &stubGenerator{reply: "Sure! Here you go:\n```json\n" + `{
		"document_type": "internship certificate",
		"skills": ["Go", "go", "Kubernetes", ""],
		"metadata": {
			"institution": "Acme Corp",
			"duration": "Jan 2024 - Jun 2024",
			"grade_or_score": 9.5,
			"key_achievements": ["Shipped billing service"]
		}
	}` + "\n```\nHope this helps."}
	analyzer := NewDocumentAnalyzer(ConfiguredBackend(gen), nil, AnalyzerOptions{}, nil)

	result := analyzer.Analyze(context.Background(), internshipText)

	if result.DocumentType != models.TypeInternship {
		t.Fatalf("document type should be normalized, got %q", result.DocumentType)
	}
	if len(result.Skills) != 2 || result.Skills[0] != "Go" || result.Skills[1] != "Kubernetes" {
		t.Fatalf("unexpected skills %v", result.Skills)
	}
	if result.Metadata.GradeOrScore != "9.5" {
		t.Fatalf("numeric grade should be stringified, got %q", result.Metadata.GradeOrScore)
	}
	if result.Metadata.FieldOfStudy != models.FieldGeneral {
		t.Fatalf("missing field should keep default, got %q", result.Metadata.FieldOfStudy)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], internshipText) {
		t.Fatal("prompt must embed the full document text")
	}
}

func TestAnalyzeMalformedReplyReturnsBareDefault(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "I cannot classify this document."},
		{"broken json", `{"document_type": "Internship Certificate", "skills": [}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewDocumentAnalyzer(ConfiguredBackend(&stubGenerator{reply: tt.reply}), nil, AnalyzerOptions{}, nil)

			result := analyzer.Analyze(context.Background(), internshipText)
			want := models.DefaultAnalysis()
			if result.DocumentType != want.DocumentType || len(result.Skills) != 0 || result.Metadata.Institution != models.NotSpecified {
				t.Fatalf("expected bare default analysis, got %+v", result)
			}
		})
	}
}

func TestAnalyzeBackendFailureUsesRules(t *testing.T) {
	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{"error", &stubGenerator{err: errors.New("503 unavailable")}},
		{"panic", &stubGenerator{panics: true}},
		{"timeout", &stubGenerator{block: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewDocumentAnalyzer(ConfiguredBackend(tt.gen), nil, AnalyzerOptions{Timeout: 20 * time.Millisecond}, nil)

			result := analyzer.Analyze(context.Background(), internshipText)
			if result.DocumentType != models.TypeInternship || result.Metadata.Institution != "ABC University" {
				t.Fatalf("expected keyword fallback, got %+v", result)
			}
		})
	}
}

func TestCallBackendWrapsErrors(t *testing.T) {
	analyzer := NewDocumentAnalyzer(ConfiguredBackend(&stubGenerator{block: true}), nil, AnalyzerOptions{Timeout: 10 * time.Millisecond}, nil).(*documentAnalyzer)

	_, err := analyzer.callBackend(context.Background(), "prompt")
	if !errors.Is(err, ErrBackendCall) {
		t.Fatalf("expected ErrBackendCall, got %v", err)
	}
}

func TestParseClassificationMalformed(t *testing.T) {
	if _, err := parseClassification("}{"); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestParseClassificationUnknownTypeIsOther(t *testing.T) {
	result, err := parseClassification(`{"document_type": "Certificate of Merit", "skills": "Leadership"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DocumentType != models.TypeOther {
		t.Fatalf("expected Other, got %q", result.DocumentType)
	}
	if len(result.Skills) != 1 || result.Skills[0] != "Leadership" {
		t.Fatalf("single string skill should become a list, got %v", result.Skills)
	}
	if result.Metadata.KeyAchievements == nil {
		t.Fatal("achievements must never be nil")
	}
}
