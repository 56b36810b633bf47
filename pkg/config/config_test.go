package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "newsdeck.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 45s
news:
  provider: searxng
  base_url: http://localhost:8888
  timeout: 5s
  aliases:
    UPS: ["united parcel service", "ups inc"]
llm:
  endpoint: http://llm:11434/v1
  model: zephyr
  timeout: 20s
summary:
  engine: llm
  key_points: 5
  entity_hints:
    Linklaters: law firm
themes:
  - name: Financials
    keywords: [Earnings, " revenue "]
  - name: Commercials
    keywords: [launch]
output:
  dir: /tmp/decks
  save_intermediate: true
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "searxng", cfg.News.Provider)
		assert.Equal(t, "http://localhost:8888", cfg.News.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.News.Timeout)
		assert.Equal(t, []string{"united parcel service", "ups inc"}, cfg.News.Aliases["UPS"])
		assert.Equal(t, "http://llm:11434/v1", cfg.LLM.Endpoint)
		assert.Equal(t, "zephyr", cfg.LLM.Model)
		assert.Equal(t, "llm", cfg.Summary.Engine)
		assert.Equal(t, 5, cfg.Summary.KeyPoints)
		assert.Equal(t, "law firm", cfg.Summary.EntityHints["Linklaters"])
		assert.Equal(t, []string{"Financials", "Commercials"}, cfg.ThemeNames())
		assert.Equal(t, []string{"earnings", "revenue", "launch"}, cfg.BusinessKeywords())
		assert.Equal(t, "/tmp/decks", cfg.Output.Dir)
		assert.True(t, cfg.Output.SaveIntermediate)
		assert.True(t, cfg.Extraction.Enabled, "extraction stays enabled unless disabled explicitly")
	})

	t.Run("defaults", func(t *testing.T) {
		path := writeConfig(t, "llm:\n  model: mistral\n")
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "google", cfg.News.Provider)
		assert.Equal(t, "en-US", cfg.News.Language)
		assert.Equal(t, "US", cfg.News.Country)
		assert.Equal(t, 10*time.Second, cfg.Extraction.Timeout)
		assert.Equal(t, 100*time.Millisecond, cfg.Extraction.RateLimit)
		assert.Equal(t, "extractive", cfg.Summary.Engine)
		assert.Equal(t, 400, cfg.Summary.MaxLength)
		assert.Equal(t, 3, cfg.Summary.KeyPoints)
		assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.Endpoint)
		assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
		assert.Len(t, cfg.Themes, 6)
		assert.Equal(t, "outputs", cfg.Output.Dir)
	})

	t.Run("extraction disabled", func(t *testing.T) {
		path := writeConfig(t, "extraction:\n  enabled: false\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.Extraction.Enabled)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("NEWSDECK_TEST_KEY", "secret-key")
		path := writeConfig(t, "llm:\n  api_key: ${NEWSDECK_TEST_KEY}\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "secret-key", cfg.LLM.APIKey)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "\ninvalid yaml content\n  with bad indentation\n    and no structure\n")
		cfg, err := Load(path)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "unknown provider", content: "news:\n  provider: bing\n", errMsg: "unknown news.provider"},
		{name: "searxng without url", content: "news:\n  provider: searxng\n", errMsg: "news.base_url is required"},
		{name: "unknown engine", content: "summary:\n  engine: bart\n", errMsg: "unknown summary.engine"},
		{name: "short summary", content: "summary:\n  max_length: 10\n", errMsg: "summary.max_length"},
		{name: "bad temperature", content: "llm:\n  temperature: 3\n", errMsg: "llm.temperature"},
		{name: "reserved theme", content: "themes:\n  - name: Uncategorized\n", errMsg: "reserved"},
		{name: "duplicate theme", content: "themes:\n  - name: Financials\n  - name: financials\n", errMsg: "duplicate theme"},
		{name: "empty theme", content: "themes:\n  - name: \" \"\n", errMsg: "theme name is required"},
		{name: "short server timeout", content: "server:\n  timeout: 10ms\n", errMsg: "server timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, validate(cfg))
	assert.True(t, cfg.Extraction.Enabled)
	assert.Equal(t, []string{"Strategy and Management", "Financials", "Investments, M&A and Partnerships",
		"Logistics and Operations", "Commercials", "ESG and Sustainability"}, cfg.ThemeNames())
	assert.Contains(t, cfg.BusinessKeywords(), "supply chain")
	assert.Contains(t, cfg.BusinessKeywords(), "m&a")

	// keywords shared by several themes appear once
	kws := cfg.BusinessKeywords()
	seen := map[string]int{}
	for _, k := range kws {
		seen[k]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "keyword %q duplicated", k)
	}
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg := Default()
	cfg.Server.Listen = ":9090"
	cfg.Server.Timeout = 45 * time.Second

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)
}
