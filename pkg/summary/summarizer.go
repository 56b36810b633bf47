// Package summary implements the summarization stage. For every article it picks the best available text
// (fetched page, feed snippet or title), drops articles without business relevance and produces
// a summary with key points using the configured engine.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"

	"github.com/umputun/newsdeck/pkg/content"
	"github.com/umputun/newsdeck/pkg/domain"
)

//go:generate moq -out mocks/text_extractor.go -pkg mocks -skip-ensure -fmt goimports . TextExtractor

// TextExtractor fetches readable text of an article page
type TextExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Engine condenses article text into summary and key points
type Engine interface {
	Summarize(ctx context.Context, req Request) (Result, error)
}

// Request is a single summarization job
type Request struct {
	Company      string
	Relationship domain.RelationshipType
	Title        string
	Text         string
}

// Result of summarization
type Result struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

const (
	minSnippetLength  = 50
	fallbackMaxLength = 200
)

// Config holds Summarizer settings
type Config struct {
	RateLimit     time.Duration // minimal interval between page fetches
	MinTextLength int           // fetched text not longer than this is ignored
	Keywords      []string      // business keywords, empty disables relevance filter
	EntityHints   map[string]string
	MaxLength     int
	KeyPoints     int
}

// Summarizer runs the summarization stage
type Summarizer struct {
	extractor TextExtractor
	engine    Engine
	limiter   *rate.Limiter
	hints     *entityHints
	keywords  []string
	minText   int
}

// New makes Summarizer. Nil extractor disables page fetching, nil engine means extractive.
func New(extractor TextExtractor, engine Engine, cfg Config) *Summarizer {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 400
	}
	if cfg.KeyPoints <= 0 {
		cfg.KeyPoints = 3
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 200
	}
	if engine == nil {
		engine = NewExtractive(cfg.MaxLength, cfg.KeyPoints)
	}
	keywords := make([]string, 0, len(cfg.Keywords))
	for _, k := range cfg.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Every(cfg.RateLimit)
	}
	return &Summarizer{
		extractor: extractor,
		engine:    engine,
		limiter:   rate.NewLimiter(limit, 1),
		hints:     newEntityHints(cfg.EntityHints),
		keywords:  keywords,
		minText:   cfg.MinTextLength,
	}
}

// Summarize processes articles one by one. Irrelevant and failed articles are logged and skipped,
// so the result is never longer than the input. Only context cancellation is returned as error.
func (s *Summarizer) Summarize(ctx context.Context, company string, rel domain.RelationshipType,
	articles []domain.Article) ([]domain.SummarizedArticle, error) {
	res := make([]domain.SummarizedArticle, 0, len(articles))
	var skipped, failed int
	for i, a := range articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sa, relevant, err := s.summarizeOne(ctx, company, rel, a)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			lgr.Printf("[WARN] article %d/%d %q skipped: %v", i+1, len(articles), a.Title, err)
			continue
		}
		if !relevant {
			skipped++
			lgr.Printf("[DEBUG] article %d/%d %q has no business keywords, dropped", i+1, len(articles), a.Title)
			continue
		}
		res = append(res, sa)
	}
	lgr.Printf("[INFO] summarized %d of %d articles (%d not relevant, %d failed)", len(res), len(articles), skipped, failed)
	return res, nil
}

func (s *Summarizer) summarizeOne(ctx context.Context, company string, rel domain.RelationshipType,
	a domain.Article) (res domain.SummarizedArticle, relevant bool, err error) {
	text, source := s.chooseText(ctx, a)
	if strings.TrimSpace(text) == "" {
		return res, false, fmt.Errorf("%w: no text for %s", domain.ErrSummarizationFailure, a.URL)
	}
	if !s.isRelevant(text) {
		return res, false, nil
	}

	text = s.hints.annotate(text)
	r, err := s.engine.Summarize(ctx, Request{Company: company, Relationship: rel, Title: a.Title, Text: text})
	if err != nil {
		return res, true, fmt.Errorf("%w: %w", domain.ErrSummarizationFailure, err)
	}

	if !isUsableSummary(r.Summary) {
		lgr.Printf("[DEBUG] summary of %q rejected, using lead sentences", a.Title)
		r.Summary = leadSentences(text, fallbackMaxLength)
	}
	if strings.TrimSpace(r.Summary) == "" {
		return res, true, fmt.Errorf("%w: empty summary for %s", domain.ErrSummarizationFailure, a.URL)
	}

	return domain.SummarizedArticle{
		Article:       a,
		Summary:       r.Summary,
		KeyPoints:     r.KeyPoints,
		ContentSource: source,
	}, true, nil
}

// chooseText prefers the fetched page, then the feed snippet, then the bare title
func (s *Summarizer) chooseText(ctx context.Context, a domain.Article) (text, source string) {
	title := strings.TrimSpace(a.Title)

	if full := s.fetch(ctx, a.URL); len(full) > s.minText {
		return joinTitle(title, full), domain.ContentFullArticle
	}
	if snippet := content.CleanText(a.RawText); len(snippet) > minSnippetLength {
		return joinTitle(title, snippet), domain.ContentSnippet
	}
	return title, domain.ContentTitle
}

func (s *Summarizer) fetch(ctx context.Context, url string) string {
	if s.extractor == nil || url == "" {
		return ""
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return ""
	}
	text, err := s.extractor.Extract(ctx, url)
	if err != nil {
		lgr.Printf("[DEBUG] can't fetch %s: %v", url, err)
		return ""
	}
	return content.CleanText(text)
}

func (s *Summarizer) isRelevant(text string) bool {
	if len(s.keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func joinTitle(title, text string) string {
	if title == "" {
		return text
	}
	if strings.HasSuffix(title, ".") || strings.HasSuffix(title, "!") || strings.HasSuffix(title, "?") {
		return title + " " + text
	}
	return title + ". " + text
}
