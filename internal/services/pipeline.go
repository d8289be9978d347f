package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
)

const (
	// MinTextLength is the smallest trimmed text, in characters, worth analyzing.
	MinTextLength = 10
	// PreviewLength caps the stored OCR preview, in characters.
	PreviewLength   = 500
	previewEllipsis = "..."
)

type Pipeline interface {
	Process(ctx context.Context, doc models.RawDocument) models.AnalysisOutcome
	// ProcessBatch returns one outcome per input, in input order.
	ProcessBatch(ctx context.Context, docs []models.RawDocument) []models.AnalysisOutcome
}

type PipelineOptions struct {
	Concurrency int
	JobLimit    int
}

type pipeline struct {
	extractor   TextExtractor
	analyzer    DocumentAnalyzer
	matcher     JobMatcher
	concurrency int
	jobLimit    int
	logger      *zap.Logger
}

func NewPipeline(extractor TextExtractor, analyzer DocumentAnalyzer, matcher JobMatcher, opts PipelineOptions, log *zap.Logger) Pipeline {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.JobLimit < 1 {
		opts.JobLimit = DefaultJobLimit
	}

	return &pipeline{
		extractor:   extractor,
		analyzer:    analyzer,
		matcher:     matcher,
		concurrency: opts.Concurrency,
		jobLimit:    opts.JobLimit,
		logger:      logger.OrNop(log),
	}
}

func (p *pipeline) Process(ctx context.Context, doc models.RawDocument) models.AnalysisOutcome {
	log := p.logger.With(zap.String("filename", doc.Filename), zap.String("kind", string(doc.Kind)))

	text, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		log.Warn("text extraction failed", zap.Error(err))
		return failure(extractionReason(err))
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		log.Info("document has insufficient text", zap.Int("length", utf8.RuneCountInString(text)))
		return failure(ErrInsufficientText.Error())
	}

	analysis := p.analyzer.Analyze(ctx, text)
	jobs := p.matcher.FindMatchingJobs(analysis.Skills, p.jobLimit)

	log.Info("document analyzed",
		zap.String("document_type", analysis.DocumentType),
		zap.Int("skills", len(analysis.Skills)),
		zap.Int("job_recommendations", len(jobs)),
	)

	return models.AnalysisOutcome{
		Status: models.StatusSuccess,
		Data: &models.AnalysisPayload{
			DocumentType:       analysis.DocumentType,
			Skills:             analysis.Skills,
			Metadata:           analysis.Metadata,
			JobRecommendations: jobs,
			OCRPreview:         Preview(text),
		},
		Text: text,
	}
}

func (p *pipeline) ProcessBatch(ctx context.Context, docs []models.RawDocument) []models.AnalysisOutcome {
	outcomes := make([]models.AnalysisOutcome, len(docs))

	// Each goroutine owns its slot and never returns an error, so one
	// document cannot cancel its siblings.
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			outcomes[i] = p.Process(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Preview returns the first PreviewLength characters of text, marking truncation.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewLength {
		return text
	}
	return string([]rune(text)[:PreviewLength]) + previewEllipsis
}

func failure(reason string) models.AnalysisOutcome {
	return models.AnalysisOutcome{Status: models.StatusError, Error: reason}
}

func extractionReason(err error) string {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return fmt.Sprintf("%s: %v", ErrExtraction.Error(), extractionErr.Err)
	}
	return fmt.Sprintf("%s: %v", ErrExtraction.Error(), err)
}
