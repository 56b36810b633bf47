// Package deck implements the report-generation stage, rendering a report into a PPTX slide deck.
// The deck has a title slide, a theme slide per theme group listing its articles and a detail slide per article.
package deck

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdeck/pkg/domain"
)

const (
	colorDarkBlue = "003366"
	colorGrey     = "595959"
	colorLink     = "0000FF"
	colorWhite    = "FFFFFF"
)

// Renderer writes report decks under the output directory
type Renderer struct {
	outputDir string
}

// NewRenderer makes renderer writing to outputDir
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// Render writes the deck to its deterministic path and returns the path. The file is written to
// a temporary name in the same directory and renamed, so a failed render leaves no partial deck behind.
// All failures are reported as domain.ErrRender.
func (r *Renderer) Render(report domain.Report) (string, error) {
	path := OutputPath(r.outputDir, report.CompanyName, report.Relationship)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: make dir %s: %w", domain.ErrRender, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".deck-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", domain.ErrRender, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			lgr.Printf("[WARN] can't remove temp file %s: %v", tmpName, rmErr)
		}
	}

	slides := buildSlides(report)
	title := fmt.Sprintf("%s News Report", report.CompanyName)
	if err := writePackage(tmp, title, report.GeneratedAt, slides); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("%w: %w", domain.ErrRender, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: close %s: %w", domain.ErrRender, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return "", fmt.Errorf("%w: rename to %s: %w", domain.ErrRender, path, err)
	}

	lgr.Printf("[INFO] deck with %d slides (%d articles) written to %s", len(slides), report.ArticleCount(), path)
	return path, nil
}

// OutputPath returns <dir>/full_pipeline/<company>/ppt/<company>_<relationship>.pptx with the company name cleaned
func OutputPath(dir, company string, rel domain.RelationshipType) string {
	name := CleanFilename(company)
	return filepath.Join(CompanyDir(dir, company), "ppt", fmt.Sprintf("%s_%s.pptx", name, CleanFilename(string(rel))))
}

// CompanyDir returns <dir>/full_pipeline/<company>, the root of all run artifacts of the company
func CompanyDir(dir, company string) string {
	return filepath.Join(dir, "full_pipeline", CleanFilename(company))
}

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// CleanFilename replaces runs of non-word characters with "_" and trims leading and trailing "_".
// Names without any word character become "company".
func CleanFilename(name string) string {
	res := strings.Trim(nonWordRe.ReplaceAllString(name, "_"), "_")
	if res == "" {
		return "company"
	}
	return res
}

func buildSlides(report domain.Report) []slide {
	total := report.ArticleCount()
	slides := []slide{titleSlide(report)}
	if total == 0 {
		return append(slides, emptySlide(report.CompanyName))
	}

	idx := 0
	for _, g := range report.Groups {
		slides = append(slides, themeSlide(g))
		for _, a := range g.Articles {
			idx++
			slides = append(slides, articleSlide(g.Theme, idx, total, a))
		}
	}
	return slides
}

func titleSlide(report domain.Report) slide {
	subtitle := fmt.Sprintf("%s | Generated on %s | %d Articles", report.Relationship.Framing(),
		report.GeneratedAt.Format("02-01-2006"), report.ArticleCount())
	return slide{Boxes: []textBox{
		{Name: "Title", X: 609600, Y: 2130425, W: 10972800, H: 1470025, Anchor: "b",
			Paragraphs: []paragraph{{Text: report.CompanyName + " News Report", Size: 4400, Bold: true, Color: colorDarkBlue, Align: "ctr"}}},
		{Name: "Subtitle", X: 1219200, Y: 3886200, W: 9753600, H: 1752600, Anchor: "t",
			Paragraphs: []paragraph{{Text: subtitle, Size: 2000, Color: colorGrey, Align: "ctr"}}},
	}}
}

func emptySlide(company string) slide {
	return slide{Boxes: []textBox{
		header("No business news found"),
		body([]paragraph{{Text: fmt.Sprintf("No recent business articles about %s passed the relevance filters.", company),
			Size: 1800, Color: colorGrey, Align: "l"}}),
	}}
}

func themeSlide(g domain.ThemeGroup) slide {
	paras := []paragraph{{Text: fmt.Sprintf("%d %s", len(g.Articles), plural(len(g.Articles), "article", "articles")),
		Size: 1600, Italic: true, Color: colorGrey, Align: "l"}}
	for _, a := range g.Articles {
		paras = append(paras, paragraph{Text: a.Title, Size: 1600, Bullet: true, Align: "l", SpaceBefore: 600})
	}
	return slide{Boxes: []textBox{header(g.Theme), body(paras)}}
}

func articleSlide(theme string, idx, total int, a domain.CategorizedArticle) slide {
	var s slide
	paras := []paragraph{
		{Text: a.Title, Size: 1800, Bold: true, Color: colorDarkBlue, Align: "l"},
		{Text: "Summary: " + a.Summary, Size: 1400, Align: "l", SpaceBefore: 900},
	}
	if len(a.KeyPoints) > 0 {
		paras = append(paras, paragraph{Text: "Key points:", Size: 1300, Bold: true, Align: "l", SpaceBefore: 600})
		for _, kp := range a.KeyPoints {
			paras = append(paras, paragraph{Text: kp, Size: 1200, Bullet: true, Align: "l"})
		}
	}
	paras = append(paras,
		paragraph{Text: "Published: " + a.PublishedString(), Size: 1200, Italic: true, Align: "l", SpaceBefore: 900},
		paragraph{Text: "Source: " + a.SourceName(), Size: 1200, Align: "l"},
	)
	link := paragraph{Text: "Link: " + a.URL, Size: 1100, Color: colorLink, Align: "l"}
	if isWebLink(a.URL) {
		link.LinkID = s.addLink(a.URL)
	}
	paras = append(paras, link)

	s.Boxes = []textBox{header(fmt.Sprintf("%s - Article %d/%d", theme, idx, total)), body(paras)}
	return s
}

func header(text string) textBox {
	return textBox{Name: "Title", X: 457200, Y: 274638, W: 11277600, H: 1000000, Fill: colorDarkBlue, Anchor: "ctr",
		Paragraphs: []paragraph{{Text: text, Size: 2800, Bold: true, Color: colorWhite, Align: "l"}}}
}

func body(paras []paragraph) textBox {
	return textBox{Name: "Content", X: 457200, Y: 1417638, W: 11277600, H: 5029200, Anchor: "t", Paragraphs: paras}
}

func isWebLink(link string) bool {
	u, err := url.Parse(link)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
