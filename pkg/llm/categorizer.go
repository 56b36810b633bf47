// Package llm implements the categorization stage on top of an OpenAI-compatible endpoint (ollama by default).
package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsdeck/pkg/config"
	"github.com/umputun/newsdeck/pkg/domain"
)

//go:generate moq -out mocks/chat_client.go -pkg mocks -skip-ensure -fmt goimports . ChatClient

// ChatClient is the part of the OpenAI client used by Categorizer
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

const (
	exactConfidence   = 1.0
	partialConfidence = 0.5
	minPartialLabel   = 4
	maxSummaryInput   = 2000
)

// default system prompt for theme categorization
const defaultSystemPrompt = `You are an expert business analyst. You categorize business news summaries into exactly one
of the themes listed by the user. Respond ONLY with the theme name exactly as listed, without explanation.
If unsure, pick the closest theme.`

// Categorizer labels summarized articles with one of the configured business themes
type Categorizer struct {
	client    ChatClient
	config    config.LLMConfig
	themes    []string
	systemMsg string
}

// NewCategorizer makes categorizer for the given themes, listed in report order
func NewCategorizer(client ChatClient, cfg config.LLMConfig, themes []string) *Categorizer {
	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}
	return &Categorizer{client: client, config: cfg, themes: themes, systemMsg: systemMsg}
}

// Ping checks the endpoint is reachable by listing its models
func (c *Categorizer) Ping(ctx context.Context) error {
	models, err := c.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrCategorizationUnavailable, c.config.Endpoint, err)
	}
	for _, m := range models.Models {
		if m.ID == c.config.Model || strings.HasPrefix(m.ID, c.config.Model+":") {
			return nil
		}
	}
	lgr.Printf("[WARN] model %q is not listed by %s, %d models available", c.config.Model, c.config.Endpoint, len(models.Models))
	return nil
}

// Categorize labels every article. The endpoint is pinged first and an unreachable endpoint fails the batch
// with domain.ErrCategorizationUnavailable. Per-article request errors and unmatched labels fall back to
// domain.Uncategorized, so the result always has the same length as the input.
func (c *Categorizer) Categorize(ctx context.Context, articles []domain.SummarizedArticle) ([]domain.CategorizedArticle, error) {
	if err := c.Ping(ctx); err != nil {
		return nil, err
	}

	res := make([]domain.CategorizedArticle, 0, len(articles))
	counts := map[string]int{}
	for i, a := range articles {
		ca := domain.CategorizedArticle{SummarizedArticle: a, Theme: domain.Uncategorized}
		theme, confidence, err := c.categorizeOne(ctx, a)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			lgr.Printf("[WARN] article %d/%d %q not categorized: %v", i+1, len(articles), a.Title, err)
		default:
			ca.Theme = theme
			ca.Confidence = &confidence
			lgr.Printf("[DEBUG] article %d/%d %q -> %s (%.1f)", i+1, len(articles), a.Title, theme, confidence)
		}
		counts[ca.Theme]++
		res = append(res, ca)
	}
	lgr.Printf("[INFO] categorized %d articles: %v", len(res), counts)
	return res, nil
}

func (c *Categorizer) categorizeOne(ctx context.Context, a domain.SummarizedArticle) (theme string, confidence float64, err error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: c.buildPrompt(a)},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("%w: no response from llm", domain.ErrMalformedCategorization)
	}

	label := resp.Choices[0].Message.Content
	theme, confidence, ok := normalizeTheme(label, c.themes)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q matches no theme", domain.ErrMalformedCategorization, strings.TrimSpace(label))
	}
	return theme, confidence, nil
}

// buildPrompt creates the user prompt listing themes and the article summary
func (c *Categorizer) buildPrompt(a domain.SummarizedArticle) string {
	text := a.Summary
	if text == "" {
		text = a.Title
	}
	if len(text) > maxSummaryInput {
		cut := maxSummaryInput
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Categorize the following news summary into one of these %d business themes:\n", len(c.themes)))
	for _, t := range c.themes {
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	sb.WriteString("\nNews title: ")
	sb.WriteString(a.Title)
	sb.WriteString("\nNews summary:\n\"")
	sb.WriteString(text)
	sb.WriteString("\"\n\nRespond ONLY with the category name.")
	return sb.String()
}

// normalizeTheme maps the model answer to a configured theme: exact match first, then
// containment in either direction. Matching ignores case, quotes and the "&"/"and" spelling.
func normalizeTheme(label string, themes []string) (theme string, confidence float64, ok bool) {
	folded := foldLabel(label)
	if folded == "" {
		return "", 0, false
	}
	for _, t := range themes {
		if folded == foldLabel(t) {
			return t, exactConfidence, true
		}
	}
	for _, t := range themes {
		ft := foldLabel(t)
		if strings.Contains(folded, ft) || (len(folded) >= minPartialLabel && strings.Contains(ft, folded)) {
			return t, partialConfidence, true
		}
	}
	return "", 0, false
}

// foldLabel lower-cases the first non-empty line and strips decorations models like to add
func foldLabel(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(s)
	for _, p := range []string{"category:", "theme:", "answer:"} {
		s = strings.TrimPrefix(s, p)
	}
	s = strings.NewReplacer("&", " and ", "/", " ", "*", "", "\"", "", "'", "", "`", "").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " .,:;!")
}
