package llm

import (
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsdeck/pkg/config"
)

// NewClient makes OpenAI-compatible client for the configured endpoint, bounded by the configured timeout.
// Local servers like ollama accept any key, the placeholder keeps the Authorization header well-formed.
func NewClient(cfg config.LLMConfig) *openai.Client {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return openai.NewClientWithConfig(clientConfig)
}
