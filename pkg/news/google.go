package news

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/newsdeck/pkg/content"
	"github.com/umputun/newsdeck/pkg/domain"
)

const googleNewsURL = "https://news.google.com/rss/search"

// GoogleNews searches Google News RSS
type GoogleNews struct {
	client    *http.Client
	baseURL   string
	userAgent string
	language  string // hl, e.g. en-US
	country   string // gl, e.g. US
	sanitizer *bluemonday.Policy
}

// GoogleNewsParams holds GoogleNews settings, zero values replaced by defaults
type GoogleNewsParams struct {
	BaseURL   string
	UserAgent string
	Language  string
	Country   string
	Timeout   time.Duration
}

// NewGoogleNews makes Google News RSS source
func NewGoogleNews(params GoogleNewsParams) *GoogleNews {
	if params.BaseURL == "" {
		params.BaseURL = googleNewsURL
	}
	if params.Language == "" {
		params.Language = "en-US"
	}
	if params.Country == "" {
		params.Country = "US"
	}
	if params.Timeout == 0 {
		params.Timeout = 30 * time.Second
	}
	return &GoogleNews{
		client:    &http.Client{Timeout: params.Timeout},
		baseURL:   params.BaseURL,
		userAgent: params.UserAgent,
		language:  params.Language,
		country:   params.Country,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Name of the source
func (g *GoogleNews) Name() string { return "google-news" }

// Search queries the RSS search endpoint with the exact-phrase query and returns up to limit articles
func (g *GoogleNews) Search(ctx context.Context, query string, limit int) ([]domain.Article, error) {
	searchURL, err := g.searchURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	content.AddBrowserHeaders(req, content.AcceptRSS)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", g.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, g.baseURL)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	res := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(res) >= limit {
			break
		}
		article := domain.Article{
			Title:   strings.TrimSpace(item.Title),
			URL:     strings.TrimSpace(item.Link),
			Source:  publisherFromTitle(item.Title),
			RawText: g.plainText(item.Description),
		}
		if item.PublishedParsed != nil {
			ts := item.PublishedParsed.UTC()
			article.Published = &ts
		} else if item.UpdatedParsed != nil {
			ts := item.UpdatedParsed.UTC()
			article.Published = &ts
		}
		res = append(res, article)
	}
	return res, nil
}

func (g *GoogleNews) searchURL(query string) (string, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", g.baseURL, err)
	}
	lang := g.language
	if i := strings.Index(lang, "-"); i > 0 {
		lang = lang[:i]
	}
	q := u.Query()
	q.Set("q", `"`+strings.TrimSpace(query)+`"`)
	q.Set("hl", g.language)
	q.Set("gl", g.country)
	q.Set("ceid", g.country+":"+lang)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// plainText strips markup from RSS description, google wraps snippets in links and font tags
func (g *GoogleNews) plainText(s string) string {
	text := html.UnescapeString(g.sanitizer.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// publisherFromTitle extracts the trailing " - Publisher" google appends to every headline
func publisherFromTitle(title string) string {
	i := strings.LastIndex(title, " - ")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(title[i+3:])
}
