// Package content fetches article pages and extracts their readable text.
package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	readability "github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; Newsdeck/1.0)"
	maxPageSize      = 5 * 1024 * 1024
)

// HTTPExtractor extracts article text from URLs using trafilatura, with readability as a fallback
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
}

// NewHTTPExtractor creates a new content extractor
func NewHTTPExtractor(timeout time.Duration, userAgent string) *HTTPExtractor {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPExtractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Extract retrieves the page and returns its main text content
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	AddBrowserHeaders(req, AcceptHTML)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", urlStr, err)
	}

	// redirects (google news links) land on the publisher page, extractors need the final URL
	pageURL := parsedURL
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	text, err := e.trafilatura(page, pageURL)
	if err == nil && text != "" {
		return text, nil
	}
	lgr.Printf("[DEBUG] trafilatura failed for %s, trying readability: %v", urlStr, err)

	text, err = e.readability(page, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	return text, nil
}

func (e *HTTPExtractor) trafilatura(page []byte, pageURL *url.URL) (string, error) {
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     pageURL,
	}

	result, err := trafilatura.Extract(bytes.NewReader(page), opts)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted")
	}
	return strings.TrimSpace(result.ContentText), nil
}

func (e *HTTPExtractor) readability(page []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no text content extracted")
	}
	return text, nil
}
