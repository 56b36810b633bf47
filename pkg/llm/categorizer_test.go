package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdeck/pkg/config"
	"github.com/umputun/newsdeck/pkg/domain"
	"github.com/umputun/newsdeck/pkg/llm/mocks"
)

var testThemes = []string{"Strategy and Management", "Financials", "Investments, M&A and Partnerships",
	"Logistics and Operations", "Commercials", "ESG and Sustainability"}

func summarized(title, summary string) domain.SummarizedArticle {
	return domain.SummarizedArticle{Article: domain.Article{Title: title, URL: "https://example.com/" + title}, Summary: summary}
}

// fakeLLM serves the models list and answers chat completions with the label picked by answer
func fakeLLM(t *testing.T, answer func(prompt string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/models":
			_ = json.NewEncoder(w).Encode(openai.ModelsList{Models: []openai.Model{{ID: "mistral:latest"}, {ID: "zephyr:latest"}}})
		case "/v1/chat/completions":
			var req openai.ChatCompletionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			prompt := req.Messages[len(req.Messages)-1].Content
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: answer(prompt)}}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestCategorizer_Categorize(t *testing.T) {
	server := fakeLLM(t, func(prompt string) string {
		switch {
		case strings.Contains(prompt, "earnings"):
			return "Financials"
		case strings.Contains(prompt, "acquire"):
			return "  **Investments, M&A and Partnerships**.\nBecause the article is about a deal."
		case strings.Contains(prompt, "factory"):
			return "Operations"
		default:
			return "Sports"
		}
	})
	defer server.Close()

	cfg := config.LLMConfig{Endpoint: server.URL + "/v1", Model: "mistral", Temperature: 0.1, MaxTokens: 50, Timeout: 5 * time.Second}
	c := NewCategorizer(NewClient(cfg), cfg, testThemes)

	articles := []domain.SummarizedArticle{
		summarized("q1", "Acme Corp beat earnings expectations."),
		summarized("deal", "Acme Corp agreed to acquire Beta Ltd."),
		summarized("plant", "Acme Corp opened a factory in Ohio."),
		summarized("match", "Acme Corp sponsored a football match."),
	}
	res, err := c.Categorize(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, res, 4)

	assert.Equal(t, "Financials", res[0].Theme)
	require.NotNil(t, res[0].Confidence)
	assert.InDelta(t, 1.0, *res[0].Confidence, 0.001)

	assert.Equal(t, "Investments, M&A and Partnerships", res[1].Theme)
	assert.InDelta(t, 1.0, *res[1].Confidence, 0.001)

	assert.Equal(t, "Logistics and Operations", res[2].Theme)
	assert.InDelta(t, 0.5, *res[2].Confidence, 0.001)

	assert.Equal(t, domain.Uncategorized, res[3].Theme)
	assert.Nil(t, res[3].Confidence)

	allowed := append([]string{domain.Uncategorized}, testThemes...)
	for i, a := range res {
		assert.Contains(t, allowed, a.Theme)
		assert.Equal(t, articles[i].URL, a.URL, "order and content preserved")
	}
}

func TestCategorizer_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	cfg := config.LLMConfig{Endpoint: server.URL + "/v1", Model: "mistral", Timeout: time.Second}
	c := NewCategorizer(NewClient(cfg), cfg, testThemes)
	_, err := c.Categorize(context.Background(), []domain.SummarizedArticle{summarized("a", "summary")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCategorizationUnavailable)
}

func TestCategorizer_RequestErrorDegrades(t *testing.T) {
	client := &mocks.ChatClientMock{
		ListModelsFunc: func(ctx context.Context) (openai.ModelsList, error) {
			return openai.ModelsList{Models: []openai.Model{{ID: "other"}}}, nil
		},
		CreateChatCompletionFunc: func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			if strings.Contains(req.Messages[1].Content, "boom") {
				return openai.ChatCompletionResponse{}, errors.New("500 internal error")
			}
			if strings.Contains(req.Messages[1].Content, "empty") {
				return openai.ChatCompletionResponse{}, nil
			}
			return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "Commercials"}}}}, nil
		},
	}
	c := NewCategorizer(client, config.LLMConfig{Model: "mistral", SystemPrompt: "custom prompt"}, testThemes)
	res, err := c.Categorize(context.Background(), []domain.SummarizedArticle{
		summarized("a", "boom"), summarized("b", "empty"), summarized("c", "new product launch"),
	})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, domain.Uncategorized, res[0].Theme)
	assert.Equal(t, domain.Uncategorized, res[1].Theme)
	assert.Equal(t, "Commercials", res[2].Theme)

	require.Len(t, client.ListModelsCalls(), 1)
	require.Len(t, client.CreateChatCompletionCalls(), 3)
	assert.Equal(t, "custom prompt", client.CreateChatCompletionCalls()[0].Req.Messages[0].Content)
}

func TestCategorizer_EmptyBatchStillPings(t *testing.T) {
	client := &mocks.ChatClientMock{
		ListModelsFunc: func(ctx context.Context) (openai.ModelsList, error) { return openai.ModelsList{}, errors.New("refused") },
	}
	_, err := NewCategorizer(client, config.LLMConfig{}, testThemes).Categorize(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrCategorizationUnavailable)
}

func TestCategorizer_BuildPrompt(t *testing.T) {
	c := NewCategorizer(nil, config.LLMConfig{}, testThemes)
	prompt := c.buildPrompt(summarized("Acme title", ""))
	for _, th := range testThemes {
		assert.Contains(t, prompt, th+"\n")
	}
	assert.Contains(t, prompt, "6 business themes")
	assert.Contains(t, prompt, `"Acme title"`, "title used when summary is empty")

	t.Run("long summary cut on rune boundary", func(t *testing.T) {
		prompt := c.buildPrompt(summarized("Acme", "a"+strings.Repeat("é", maxSummaryInput)))
		assert.True(t, utf8.ValidString(prompt))
		assert.Contains(t, prompt, "a"+strings.Repeat("é", (maxSummaryInput-1)/2))
		assert.NotContains(t, prompt, strings.Repeat("é", (maxSummaryInput-1)/2+1))
	})
}

func TestNormalizeTheme(t *testing.T) {
	tbl := []struct {
		label      string
		want       string
		confidence float64
		ok         bool
	}{
		{"Financials", "Financials", 1.0, true},
		{"financials.", "Financials", 1.0, true},
		{`"ESG & Sustainability"`, "ESG and Sustainability", 1.0, true},
		{"Category: Commercials", "Commercials", 1.0, true},
		{"The best fit is Strategy and Management", "Strategy and Management", 0.5, true},
		{"M&A", "Investments, M&A and Partnerships", 0.5, true},
		{"ESG", "", 0, false},
		{"", "", 0, false},
		{"and", "", 0, false},
		{"Weather", "", 0, false},
	}
	for _, tt := range tbl {
		t.Run(tt.label, func(t *testing.T) {
			theme, confidence, ok := normalizeTheme(tt.label, testThemes)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, theme)
			assert.InDelta(t, tt.confidence, confidence, 0.001)
		})
	}
}
