// internal/service/trends/service.go

package trends

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trendlens/internal/domain/trend"
	"trendlens/internal/service/extract"
	"trendlens/internal/service/platform"
	"trendlens/internal/service/prompt"
)

// rawDiagnosticLimit bounds the copy of unparseable model text returned
// to clients.
const rawDiagnosticLimit = 500

// TextGenerator defines the model dependency of the trend service.
// Satisfied by *gemini.Client; tests inject fakes.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, grounded bool) (string, error)
}

// Service implements trend.Searcher, trend.InsightGenerator and
// trend.ContentGenerator on top of a text generator.
type Service struct {
	gen TextGenerator
	log *zap.Logger
	now func() time.Time
}

// NewService creates a trend service.
func NewService(gen TextGenerator, log *zap.Logger) *Service {
	return &Service{
		gen: gen,
		log: log,
		now: time.Now,
	}
}

// Search runs the search pipeline: prompt, grounded call, extraction,
// normalization, platform enforcement, evidence filter. For tiktok a
// single stricter retry is issued when the first attempt yields zero
// tiktok URLs after enforcement; the retry is sequential and never
// repeated.
func (s *Service) Search(ctx context.Context, req trend.SearchRequest) (*trend.SearchResponse, error) {
	p := platform.Normalize(req.Platform)

	cfg := prompt.SearchConfig{
		Query:    req.Query,
		Mode:     req.Mode,
		Platform: string(p),
		Topic:    req.Topic,
		Language: req.Language,
		Country:  req.Country,
		Days:     req.Days,
	}

	first, err := s.searchAttempt(ctx, prompt.Search(cfg), req, p)
	if err != nil {
		return nil, err
	}

	if !s.needsStrictRetry(first, p) {
		DropWithoutEvidence(first)
		return first, nil
	}

	s.log.Info("tiktok search yielded no tiktok URLs, retrying with strict prompt",
		zap.String("query", req.Query))

	second, err := s.searchAttempt(ctx, prompt.SearchStrictTikTok(cfg), req, p)
	if err != nil {
		return nil, err
	}
	DropWithoutEvidence(second)
	return second, nil
}

// searchAttempt is one step of the attempt/evaluate state machine:
// model call, extraction, normalization, enforcement.
func (s *Service) searchAttempt(ctx context.Context, promptText string, req trend.SearchRequest, p trend.Platform) (*trend.SearchResponse, error) {
	raw, err := s.gen.GenerateText(ctx, promptText, true)
	if err != nil {
		return nil, err
	}

	obj, ok := extract.JSONObject(raw)
	if !ok {
		return nil, &trend.UnparseableOutputError{Raw: truncate(raw, rawDiagnosticLimit)}
	}

	topic := req.Topic
	if topic == "" {
		topic = req.Query
	}
	resp := NormalizeSearch(obj, Meta{
		Platform: string(p),
		Topic:    topic,
		Language: language(req.Language),
	})
	resp.SearchedAt = s.now().UTC().Format(time.RFC3339)

	platform.EnforceSources(resp, p)
	return resp, nil
}

func (s *Service) needsStrictRetry(resp *trend.SearchResponse, p trend.Platform) bool {
	return p == trend.PlatformTikTok && platform.MatchingURLCount(resp, p) == 0
}

// Generate produces a trend snapshot for the insights endpoint.
func (s *Service) Generate(ctx context.Context, req trend.InsightRequest) (*trend.InsightsResponse, error) {
	raw, err := s.gen.GenerateText(ctx, prompt.Insights(prompt.InsightConfig{
		Platform:       req.Platform,
		ContentType:    req.ContentType,
		TargetAudience: req.TargetAudience,
		Product:        req.Product,
		Brand:          req.Brand,
		Message:        req.Message,
	}), true)
	if err != nil {
		return nil, err
	}

	obj, ok := extract.JSONObject(raw)
	if !ok {
		return nil, &trend.UnparseableOutputError{Raw: truncate(raw, rawDiagnosticLimit)}
	}

	return NormalizeInsights(obj, req, s.now().UTC().Format(time.RFC3339)), nil
}

// GenerateContent produces a content draft. Plain text call, not
// grounded.
func (s *Service) GenerateContent(ctx context.Context, req trend.ContentRequest) (*trend.ContentResponse, error) {
	raw, err := s.gen.GenerateText(ctx, prompt.Content(prompt.ContentConfig{
		Platform: req.Platform,
		Tone:     req.Tone,
		Audience: req.Audience,
		Product:  req.Product,
		Brand:    req.Brand,
		Message:  req.Message,
		Language: req.Language,
	}), false)
	if err != nil {
		return nil, err
	}

	obj, ok := extract.JSONObject(raw)
	if !ok {
		return nil, &trend.UnparseableOutputError{Raw: truncate(raw, rawDiagnosticLimit)}
	}

	req.Language = language(req.Language)
	return NormalizeContent(obj, req), nil
}

func language(lang string) string {
	if lang == "" {
		return "en-US"
	}
	return lang
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
