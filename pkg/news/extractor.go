// Package news implements the extraction stage: it queries a news source for articles about a company,
// keeps the ones actually mentioning it, removes duplicates and picks a theme-diverse subset.
package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdeck/pkg/config"
	"github.com/umputun/newsdeck/pkg/domain"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source

// Source is a news provider queried by company name
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Article, error)
	Name() string
}

// minSourceLimit is the smallest number of raw results requested from the source,
// filters drop a good share of them
const minSourceLimit = 50

// indicators required next to short company names to tell them from ordinary words
var companyIndicators = []string{"company", "corp", "corporation", "inc", "ltd", "llc", "stock", "shares", "earnings", "ceo"}

// Extractor runs the extraction stage
type Extractor struct {
	source  Source
	themes  []config.Theme
	aliases map[string][]string
}

// NewExtractor makes extractor for the given source. Themes drive diverse selection, aliases
// override the plain company name match for specific companies.
func NewExtractor(source Source, themes []config.Theme, aliases map[string][]string) *Extractor {
	return &Extractor{source: source, themes: themes, aliases: aliases}
}

// Extract returns up to n unique-by-URL articles mentioning the company and matching a theme keyword.
// Any source failure is reported as domain.ErrSourceUnavailable.
func (e *Extractor) Extract(ctx context.Context, company string, n int) ([]domain.Article, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("%w: company name is empty", domain.ErrInvalidInput)
	}
	if n <= 0 {
		return []domain.Article{}, nil
	}

	raw, err := e.source.Search(ctx, company, max(n*5, minSourceLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, e.source.Name(), err)
	}
	lgr.Printf("[DEBUG] %s returned %d articles for %q", e.source.Name(), len(raw), company)

	matcher := e.mentionMatcher(company)
	seen := map[string]bool{}
	skipped := 0
	candidates := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		key := normalizeURL(a.URL)
		if key == "" || seen[key] {
			continue
		}
		text := a.Title + " " + a.RawText
		if !matcher(text) {
			continue
		}
		if !e.isBusiness(text) {
			skipped++
			continue
		}
		seen[key] = true
		candidates = append(candidates, a)
	}

	res := e.selectDiverse(candidates, n)
	lgr.Printf("[INFO] extracted %d articles for %q (%d candidates, %d not business related, %d requested)",
		len(res), company, len(candidates), skipped, n)
	return res, nil
}

// selectDiverse picks the first matching article of every theme, then fills up with the rest in source order
func (e *Extractor) selectDiverse(candidates []domain.Article, n int) []domain.Article {
	picked := make([]bool, len(candidates))
	res := make([]domain.Article, 0, n)

	for _, th := range e.themes {
		if len(res) >= n {
			break
		}
		for i, a := range candidates {
			if picked[i] || !th.Matches(a.Title+" "+a.RawText) {
				continue
			}
			picked[i] = true
			res = append(res, a)
			break
		}
	}

	for i, a := range candidates {
		if len(res) >= n {
			break
		}
		if !picked[i] {
			picked[i] = true
			res = append(res, a)
		}
	}
	return res
}

// isBusiness reports whether text has a keyword of any theme, everything passes without themes
func (e *Extractor) isBusiness(text string) bool {
	if len(e.themes) == 0 {
		return true
	}
	for _, th := range e.themes {
		if th.Matches(text) {
			return true
		}
	}
	return false
}

// mentionMatcher returns a check telling whether text is about the company
func (e *Extractor) mentionMatcher(company string) func(text string) bool {
	for name, phrases := range e.aliases {
		if !strings.EqualFold(name, company) || len(phrases) == 0 {
			continue
		}
		lowered := make([]string, 0, len(phrases))
		for _, p := range phrases {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				lowered = append(lowered, p)
			}
		}
		return func(text string) bool { return containsAny(strings.ToLower(text), lowered) }
	}

	name := strings.ToLower(company)
	short := len([]rune(company)) <= 3
	return func(text string) bool {
		lower := strings.ToLower(text)
		if !strings.Contains(lower, name) {
			return false
		}
		return !short || containsAny(lower, companyIndicators)
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// normalizeURL makes dedup key from article URL, empty for unusable links
func normalizeURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)
	return strings.TrimSuffix(u.String(), "/")
}
