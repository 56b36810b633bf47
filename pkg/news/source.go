package news

import (
	"fmt"
	"strings"

	"github.com/umputun/newsdeck/pkg/config"
)

// NewSource makes news source for the configured provider
func NewSource(cfg config.NewsConfig) (Source, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "google":
		return NewGoogleNews(GoogleNewsParams{
			BaseURL:   cfg.BaseURL,
			UserAgent: cfg.UserAgent,
			Language:  cfg.Language,
			Country:   cfg.Country,
			Timeout:   cfg.Timeout,
		}), nil
	case "searxng":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("searxng provider requires base_url")
		}
		return NewSearXNG(cfg.BaseURL, cfg.UserAgent, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown news provider %q", cfg.Provider)
	}
}
