package summary

import (
	"regexp"
	"sort"
	"strings"
)

// entityHints annotates the first mention of known organisations with their type, e.g.
// "Slaughter and May (the law firm)", so summaries don't mistake firms for people
type entityHints struct {
	entries []hintEntry
}

type hintEntry struct {
	re   *regexp.Regexp
	note string
}

func newEntityHints(hints map[string]string) *entityHints {
	names := make([]string, 0, len(hints))
	for name := range hints {
		if strings.TrimSpace(name) != "" && strings.TrimSpace(hints[name]) != "" {
			names = append(names, name)
		}
	}
	// longer names first so "Bain & Company" wins over a shorter overlapping entry
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	res := &entityHints{entries: make([]hintEntry, 0, len(names))}
	for _, name := range names {
		res.entries = append(res.entries, hintEntry{
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(name)) + `\b`),
			note: " (the " + strings.TrimSpace(hints[name]) + ")",
		})
	}
	return res
}

// annotate adds the type note after the first mention of every known entity
func (h *entityHints) annotate(text string) string {
	for _, e := range h.entries {
		loc := e.re.FindStringIndex(text)
		if loc == nil || strings.HasPrefix(text[loc[1]:], e.note) {
			continue
		}
		text = text[:loc[1]] + e.note + text[loc[1]:]
	}
	return text
}
