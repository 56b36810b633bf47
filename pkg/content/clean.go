package content

import (
	"regexp"
	"strings"
)

var (
	urlRe   = regexp.MustCompile(`https?://\S+`)
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	spaceRe = regexp.MustCompile(`\s+`)

	// boilerplate phrases are dropped up to the end of their sentence
	boilerplateRe = regexp.MustCompile(`(?i)\b(click here|read more|subscribe( now| to)?|follow us|share this|comments? below|cookie policy|privacy policy)\b[^.!?]*[.!?]?`)
)

// CleanText removes links, e-mail addresses and page boilerplate and collapses whitespace
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = urlRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = boilerplateRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
