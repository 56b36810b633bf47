package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Browser front-end configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newsdeck.db?cache=shared&mode=rwc,description=Run journal database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=2,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Run journal configuration"`

	News NewsConfig `yaml:"news" json:"news" jsonschema:"description=News source configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article text extraction configuration"`

	Summary SummaryConfig `yaml:"summary" json:"summary" jsonschema:"description=Summarization configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for theme categorization"`

	Themes []Theme `yaml:"themes" json:"themes" jsonschema:"description=Business themes with relevance keywords"`

	Output struct {
		Dir              string `yaml:"dir" json:"dir" jsonschema:"default=outputs,description=Base output directory"`
		SaveIntermediate bool   `yaml:"save_intermediate" json:"save_intermediate" jsonschema:"default=false,description=Write JSON dumps of every stage next to the deck"`
	} `yaml:"output" json:"output" jsonschema:"description=Output configuration"`
}

// NewsConfig holds news source settings
type NewsConfig struct {
	Provider  string              `yaml:"provider" json:"provider" jsonschema:"default=google,enum=google,enum=searxng,description=News provider"`
	Timeout   time.Duration       `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=News query timeout"`
	UserAgent string              `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Newsdeck/1.0),description=User agent for news queries"`
	Language  string              `yaml:"language" json:"language" jsonschema:"default=en-US,description=Google News language (hl)"`
	Country   string              `yaml:"country" json:"country" jsonschema:"default=US,description=Google News country (gl)"`
	BaseURL   string              `yaml:"base_url" json:"base_url" jsonschema:"description=Override of the provider base URL, required for searxng"`
	Aliases   map[string][]string `yaml:"aliases" json:"aliases" jsonschema:"description=Per-company phrases that count as a mention instead of the plain name"`
}

// ExtractionConfig holds article text extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Fetch full article text"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Extraction timeout per article"`
	RateLimit     time.Duration `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=100ms,description=Minimal delay between article fetches"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; Newsdeck/1.0),description=User agent for article requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=200,description=Minimum extracted text length to use the full article"`
}

// SummaryConfig holds summarization settings
type SummaryConfig struct {
	Engine      string            `yaml:"engine" json:"engine" jsonschema:"default=extractive,enum=extractive,enum=llm,description=Summarization engine"`
	MaxLength   int               `yaml:"max_length" json:"max_length" jsonschema:"default=400,description=Maximum summary length in characters"`
	KeyPoints   int               `yaml:"key_points" json:"key_points" jsonschema:"default=3,description=Number of key points per article"`
	EntityHints map[string]string `yaml:"entity_hints" json:"entity_hints" jsonschema:"description=Entity name to type annotations added before summarization"`
}

// LLMConfig holds settings of the OpenAI-compatible inference endpoint
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=http://localhost:11434/v1,description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=mistral,description=Model name (e.g. mistral or zephyr)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.1,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=300,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
}

// Theme is a business theme with keywords used for relevance filtering and diverse selection
type Theme struct {
	Name     string   `yaml:"name" json:"name" jsonschema:"required,description=Theme name as shown in the report"`
	Keywords []string `yaml:"keywords" json:"keywords" jsonschema:"description=Lower-case keywords of the theme"`
}

// DefaultThemes returns the built-in theme set
func DefaultThemes() []Theme {
	return []Theme{
		{Name: "Strategy and Management", Keywords: []string{"strategy", "expansion", "reorganization", "leadership", "ceo",
			"executive", "management", "restructuring", "board", "appointment", "promotion", "succession"}},
		{Name: "Financials", Keywords: []string{"earnings", "results", "revenue", "profit", "growth", "guidance", "forecast",
			"financial", "loss", "quarter", "fiscal", "report"}},
		{Name: "Investments, M&A and Partnerships", Keywords: []string{"merger", "acquisition", "divestiture", "joint venture",
			"strategic alliance", "investment", "m&a", "partnership", "buyout", "stake", "deal"}},
		{Name: "Logistics and Operations", Keywords: []string{"distribution", "manufacturing", "supply chain", "disruption",
			"supplier", "operations", "plant", "factory", "network", "logistics", "production", "facility"}},
		{Name: "Commercials", Keywords: []string{"launch", "product", "service", "dtc", "direct to consumer", "e-commerce",
			"omnichannel", "initiative", "rollout", "offering", "market", "release"}},
		{Name: "ESG and Sustainability", Keywords: []string{"environment", "emissions", "green", "sustainability", "esg",
			"carbon", "climate", "reporting", "commitment", "renewable", "responsibility", "sustainable"}},
	}
}

// Default returns configuration with all defaults applied, used when no config file is given
func Default() *Config {
	var cfg Config
	cfg.Extraction.Enabled = true
	applyDefaults(&cfg)
	return &cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Config{}
	cfg.Extraction.Enabled = true // yaml keeps it unless explicitly set to false
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:newsdeck.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 4
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// news
	if cfg.News.Provider == "" {
		cfg.News.Provider = "google"
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = 30 * time.Second
	}
	if cfg.News.UserAgent == "" {
		cfg.News.UserAgent = "Mozilla/5.0 (compatible; Newsdeck/1.0)"
	}
	if cfg.News.Language == "" {
		cfg.News.Language = "en-US"
	}
	if cfg.News.Country == "" {
		cfg.News.Country = "US"
	}

	// extraction
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 10 * time.Second
	}
	if cfg.Extraction.RateLimit == 0 {
		cfg.Extraction.RateLimit = 100 * time.Millisecond
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "Mozilla/5.0 (compatible; Newsdeck/1.0)"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 200
	}

	// summary
	if cfg.Summary.Engine == "" {
		cfg.Summary.Engine = "extractive"
	}
	if cfg.Summary.MaxLength == 0 {
		cfg.Summary.MaxLength = 400
	}
	if cfg.Summary.KeyPoints == 0 {
		cfg.Summary.KeyPoints = 3
	}

	// llm
	if cfg.LLM.Endpoint == "" {
		cfg.LLM.Endpoint = "http://localhost:11434/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "mistral"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.1
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 300
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}

	// themes
	if len(cfg.Themes) == 0 {
		cfg.Themes = DefaultThemes()
	}
	for i := range cfg.Themes {
		for j, kw := range cfg.Themes[i].Keywords {
			cfg.Themes[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}

	// output
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "outputs"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	switch cfg.News.Provider {
	case "google":
	case "searxng":
		if cfg.News.BaseURL == "" {
			return fmt.Errorf("news.base_url is required for searxng provider")
		}
	default:
		return fmt.Errorf("unknown news.provider %q", cfg.News.Provider)
	}
	if cfg.News.Timeout < time.Second {
		return fmt.Errorf("news timeout must be at least 1 second")
	}

	if cfg.Summary.Engine != "extractive" && cfg.Summary.Engine != "llm" {
		return fmt.Errorf("unknown summary.engine %q", cfg.Summary.Engine)
	}
	if cfg.Summary.MaxLength < 50 {
		return fmt.Errorf("summary.max_length must be at least 50")
	}
	if cfg.Summary.KeyPoints < 1 {
		return fmt.Errorf("summary.key_points must be at least 1")
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.Timeout < time.Second {
		return fmt.Errorf("llm timeout must be at least 1 second")
	}

	seen := map[string]bool{}
	for _, th := range cfg.Themes {
		name := strings.TrimSpace(th.Name)
		if name == "" {
			return fmt.Errorf("theme name is required")
		}
		if strings.EqualFold(name, "uncategorized") || strings.EqualFold(name, "uncategorised") {
			return fmt.Errorf("theme %q is reserved", name)
		}
		if seen[strings.ToLower(name)] {
			return fmt.Errorf("duplicate theme %q", name)
		}
		seen[strings.ToLower(name)] = true
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// ThemeNames returns configured theme names in order
func (c *Config) ThemeNames() []string {
	res := make([]string, 0, len(c.Themes))
	for _, t := range c.Themes {
		res = append(res, t.Name)
	}
	return res
}

// BusinessKeywords returns keywords of all themes, deduplicated, in theme order
func (c *Config) BusinessKeywords() []string {
	seen := map[string]bool{}
	var res []string
	for _, t := range c.Themes {
		for _, kw := range t.Keywords {
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			res = append(res, kw)
		}
	}
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// Matches reports whether text contains any keyword of the theme, case-insensitive
func (t Theme) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range t.Keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
