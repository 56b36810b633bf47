package deck

import (
	"archive/zip"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var tmpl = template.Must(template.New("pptx").Funcs(template.FuncMap{
	"xml": xmlText,
	"add": func(a, b int) int { return a + b },
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templatesFS, "templates/*.tmpl"))

// widescreen 16:9 slide size in EMU
const (
	slideWidth  = 12192000
	slideHeight = 6858000
)

// textBox is a positioned shape with text, coordinates in EMU
type textBox struct {
	Name       string
	X, Y, W, H int64
	Fill       string // RRGGBB, empty for transparent
	Anchor     string // t, ctr or b
	Paragraphs []paragraph
}

// paragraph is a single-run paragraph, Size in hundredths of a point
type paragraph struct {
	Text        string
	Size        int
	Bold        bool
	Italic      bool
	Bullet      bool
	Color       string
	Align       string // l, ctr or r
	SpaceBefore int    // hundredths of a point
	LinkID      string // relationship id of the external hyperlink
}

type hyperlink struct {
	ID  string
	URL string
}

type slide struct {
	Boxes []textBox
	Links []hyperlink
}

// addLink registers an external hyperlink on the slide and returns its relationship id,
// rId1 is taken by the slide layout
func (s *slide) addLink(url string) string {
	id := fmt.Sprintf("rId%d", len(s.Links)+2)
	s.Links = append(s.Links, hyperlink{ID: id, URL: url})
	return id
}

type packageData struct {
	Title   string
	Created string
	Width   int64
	Height  int64
	Slides  []slide
}

type part struct {
	name     string
	template string
	data     any
}

// writePackage writes the OOXML presentation package with the given slides as a zip stream
func writePackage(w io.Writer, title string, created time.Time, slides []slide) error {
	pd := packageData{
		Title:   title,
		Created: created.UTC().Format(time.RFC3339),
		Width:   slideWidth,
		Height:  slideHeight,
		Slides:  slides,
	}

	parts := []part{
		{"[Content_Types].xml", "content_types.xml.tmpl", pd},
		{"_rels/.rels", "root_rels.xml.tmpl", pd},
		{"docProps/core.xml", "core.xml.tmpl", pd},
		{"docProps/app.xml", "app.xml.tmpl", pd},
		{"ppt/presentation.xml", "presentation.xml.tmpl", pd},
		{"ppt/_rels/presentation.xml.rels", "presentation_rels.xml.tmpl", pd},
		{"ppt/presProps.xml", "pres_props.xml.tmpl", pd},
		{"ppt/viewProps.xml", "view_props.xml.tmpl", pd},
		{"ppt/tableStyles.xml", "table_styles.xml.tmpl", pd},
		{"ppt/theme/theme1.xml", "theme.xml.tmpl", pd},
		{"ppt/slideMasters/slideMaster1.xml", "slide_master.xml.tmpl", pd},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slide_master_rels.xml.tmpl", pd},
		{"ppt/slideLayouts/slideLayout1.xml", "slide_layout.xml.tmpl", pd},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slide_layout_rels.xml.tmpl", pd},
	}
	for i, s := range slides {
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), "slide.xml.tmpl", s},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), "slide_rels.xml.tmpl", s},
		)
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: created})
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if err := tmpl.ExecuteTemplate(f, p.template, p.data); err != nil {
			return fmt.Errorf("render %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close package: %w", err)
	}
	return nil
}

// xmlText escapes s for XML text and attribute values. Characters not allowed in XML 1.0 are dropped,
// line breaks and tabs become spaces as every paragraph is a single line run.
func xmlText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case r < 0x20, r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
