package domain

import "time"

// Article represents a single news item returned by the news source
type Article struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Source    string     `json:"source,omitempty"`
	Published *time.Time `json:"published,omitempty"`
	RawText   string     `json:"raw_text"` // snippet or body as delivered by the source
}

// content source markers for SummarizedArticle.ContentSource
const (
	ContentFullArticle = "full_article"
	ContentSnippet     = "snippet"
	ContentTitle       = "title"
)

// SummarizedArticle is an article with its condensed summary and key points
type SummarizedArticle struct {
	Article
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"key_points"`
	ContentSource string   `json:"content_source"`
}

// CategorizedArticle is a summarized article labeled with a business theme
type CategorizedArticle struct {
	SummarizedArticle
	Theme      string   `json:"theme"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// PublishedString returns the publication date in report format or "N/A"
func (a Article) PublishedString() string {
	if a.Published == nil || a.Published.IsZero() {
		return "N/A"
	}
	return a.Published.Format("02 Jan 2006")
}

// SourceName returns the source or "Unknown" if not set
func (a Article) SourceName() string {
	if a.Source == "" {
		return "Unknown"
	}
	return a.Source
}
