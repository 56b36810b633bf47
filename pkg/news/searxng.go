package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/umputun/newsdeck/pkg/content"
	"github.com/umputun/newsdeck/pkg/domain"
)

// SearXNG queries a SearXNG instance through its JSON API
type SearXNG struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewSearXNG makes SearXNG source
func NewSearXNG(baseURL, userAgent string, timeout time.Duration) *SearXNG {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &SearXNG{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Name of the source
func (s *SearXNG) Name() string { return "searxng" }

type searxngResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"publishedDate"`
		Engine        string `json:"engine"`
	} `json:"results"`
}

// Search runs news search and returns up to limit articles
func (s *SearXNG) Search(ctx context.Context, query string, limit int) ([]domain.Article, error) {
	u, err := url.Parse(s.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", s.baseURL, err)
	}
	q := u.Query()
	q.Set("q", `"`+strings.TrimSpace(query)+`"`)
	q.Set("format", "json")
	q.Set("categories", "news")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	content.AddBrowserHeaders(req, content.AcceptJSON)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("searxng error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	res := make([]domain.Article, 0, len(sr.Results))
	for _, r := range sr.Results {
		if limit > 0 && len(res) >= limit {
			break
		}
		article := domain.Article{
			Title:     strings.TrimSpace(r.Title),
			URL:       strings.TrimSpace(r.URL),
			Source:    hostOf(r.URL),
			RawText:   strings.TrimSpace(r.Content),
			Published: parseDate(r.PublishedDate),
		}
		res = append(res, article)
	}
	return res, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}

// parseDate parses publishedDate in the formats searxng engines emit, nil if none fits
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
