package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsdeck/pkg/config"
)

//go:generate moq -out mocks/chat_client.go -pkg mocks -skip-ensure -fmt goimports . ChatClient

// ChatClient is the part of the OpenAI client used for generation
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const maxPromptText = 6000

const summarySystemPrompt = `You are a business analyst preparing news briefings for a slide deck.
Summarize the article in plain, factual language. Write directly about the facts, never start with
phrases like "The article discusses". Keep company names exactly as written, including any type note in parentheses.
Respond with a JSON object: {"summary": "<2-3 sentences>", "key_points": ["<point>", ...]}.`

// LLM is summarization engine backed by an OpenAI-compatible chat endpoint.
// Failed calls, malformed answers and summaries copying the article opening fall back to the extractive engine.
type LLM struct {
	client    ChatClient
	cfg       config.LLMConfig
	maxLength int
	keyPoints int
	fallback  Engine
}

// NewLLM makes LLM engine. The fallback engine is used whenever generation fails.
func NewLLM(client ChatClient, cfg config.LLMConfig, maxLength, keyPoints int, fallback Engine) *LLM {
	if fallback == nil {
		fallback = NewExtractive(maxLength, keyPoints)
	}
	return &LLM{client: client, cfg: cfg, maxLength: maxLength, keyPoints: keyPoints, fallback: fallback}
}

// Summarize asks the model for summary and key points
func (e *LLM) Summarize(ctx context.Context, req Request) (Result, error) {
	res, err := e.generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		lgr.Printf("[DEBUG] llm summary of %q failed, using extractive: %v", req.Title, err)
		return e.fallback.Summarize(ctx, req)
	}
	return res, nil
}

func (e *LLM) generate(ctx context.Context, req Request) (Result, error) {
	text := req.Text
	if len(text) > maxPromptText {
		text = truncate(text, maxPromptText)
	}

	var sb strings.Builder
	if req.Company != "" {
		sb.WriteString(fmt.Sprintf("Company: %s (%s)\n", req.Company, req.Relationship.Framing()))
	}
	sb.WriteString(fmt.Sprintf("Summary length: at most %d characters. Key points: at most %d.\n\n", e.maxLength, e.keyPoints))
	sb.WriteString("Article:\n")
	sb.WriteString(text)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Temperature: float32(e.cfg.Temperature),
		MaxTokens:   e.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return Result{}, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("no response from llm")
	}

	res, err := parseSummaryResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return Result{}, err
	}
	if !isUsableSummary(res.Summary) || !isRewritten(res.Summary, req.Text) {
		return Result{}, fmt.Errorf("generated summary rejected: %q", res.Summary)
	}

	res.Summary = truncate(res.Summary, e.maxLength)
	if len(res.KeyPoints) > e.keyPoints {
		res.KeyPoints = res.KeyPoints[:e.keyPoints]
	}
	return res, nil
}

// parseSummaryResponse extracts the JSON object from the model answer, tolerating surrounding text
func parseSummaryResponse(content string) (Result, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return Result{}, fmt.Errorf("no json object found in response")
	}
	var res Result
	if err := json.Unmarshal([]byte(content[start:end+1]), &res); err != nil {
		return Result{}, fmt.Errorf("failed to parse json object response: %w", err)
	}
	res.Summary = strings.TrimSpace(res.Summary)
	points := make([]string, 0, len(res.KeyPoints))
	for _, p := range res.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	res.KeyPoints = points
	return res, nil
}
