package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
)

const (
	defaultAnalysisTimeout = 30 * time.Second
	classificationTemp     = 0.2
)

// TextGenerator is the slice of GeminiService the analyzer depends on.
type TextGenerator interface {
	GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error)
}

// AnalysisBackend is either configured with a generator or explicitly absent.
// An absent backend is a valid state and routes every analysis to the rules.
type AnalysisBackend struct {
	generator TextGenerator
}

func ConfiguredBackend(g TextGenerator) AnalysisBackend {
	return AnalysisBackend{generator: g}
}

func UnconfiguredBackend() AnalysisBackend {
	return AnalysisBackend{}
}

func (b AnalysisBackend) Configured() bool {
	return b.generator != nil
}

type AnalyzerOptions struct {
	Timeout    time.Duration
	MaxRetries int
}

type DocumentAnalyzer interface {
	// Analyze never fails. Backend problems degrade to the keyword rules and
	// an unparseable backend reply degrades to models.DefaultAnalysis.
	Analyze(ctx context.Context, text string) models.AnalysisResult
	IsReady() bool
}

type documentAnalyzer struct {
	backend       AnalysisBackend
	rules         *RuleEngine
	promptBuilder *PromptBuilder
	timeout       time.Duration
	maxRetries    int
	logger        *zap.Logger
}

func NewDocumentAnalyzer(backend AnalysisBackend, rules *RuleEngine, opts AnalyzerOptions, log *zap.Logger) DocumentAnalyzer {
	if rules == nil {
		rules = NewRuleEngine()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultAnalysisTimeout
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	return &documentAnalyzer{
		backend:       backend,
		rules:         rules,
		promptBuilder: NewPromptBuilder(),
		timeout:       opts.Timeout,
		maxRetries:    opts.MaxRetries,
		logger:        logger.OrNop(log),
	}
}

// IsReady reports whether the remote backend is configured.
func (a *documentAnalyzer) IsReady() bool {
	return a.backend.Configured()
}

func (a *documentAnalyzer) Analyze(ctx context.Context, text string) models.AnalysisResult {
	if !a.backend.Configured() {
		a.logger.Debug("classification backend not configured, using keyword rules")
		return a.rules.Analyze(text)
	}

	reply, err := a.callBackend(ctx, a.promptBuilder.BuildClassificationPrompt(text))
	if err != nil {
		a.logger.Warn("classification backend failed, using keyword rules", zap.Error(err))
		return a.rules.Analyze(text)
	}

	result, err := parseClassification(reply)
	if err != nil {
		a.logger.Warn("could not parse classification response",
			zap.Error(err),
			zap.String("response", logger.TruncateForLog(reply, 500)),
		)
		return models.DefaultAnalysis()
	}

	a.logger.Debug("document classified",
		zap.String("document_type", result.DocumentType),
		zap.Int("skills", len(result.Skills)),
	)

	return result
}

// callBackend bounds the generator call with the analyzer timeout. Expiry,
// a returned error and a panic inside the client all surface as ErrBackendCall.
func (a *documentAnalyzer) callBackend(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		text, err := a.backend.generator.GenerateTextWithRetry(ctx, prompt, classificationTemp, a.maxRetries)
		done <- reply{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %v", ErrBackendCall, r.err)
		}
		return r.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrBackendCall, ctx.Err())
	}
}

// parseClassification reads the outermost {...} span of a free-text reply.
// Missing or mistyped fields fall back to their defaults.
func parseClassification(reply string) (models.AnalysisResult, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return models.AnalysisResult{}, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	result := models.DefaultAnalysis()
	if docType := coerceString(raw["document_type"]); docType != "" {
		result.DocumentType = models.NormalizeDocumentType(docType)
	}
	result.Skills = dedupeFold(coerceStringSlice(raw["skills"]))

	if meta, ok := raw["metadata"].(map[string]any); ok {
		setIfPresent(&result.Metadata.Institution, meta["institution"])
		setIfPresent(&result.Metadata.Duration, meta["duration"])
		setIfPresent(&result.Metadata.GradeOrScore, meta["grade_or_score"])
		setIfPresent(&result.Metadata.FieldOfStudy, meta["field_of_study"])
		result.Metadata.KeyAchievements = coerceStringSlice(meta["key_achievements"])
	}

	return result, nil
}

func setIfPresent(dst *string, v any) {
	if s := coerceString(v); s != "" {
		*dst = s
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func coerceStringSlice(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dedupeFold drops case-insensitive duplicates, keeping the first spelling.
func dedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
