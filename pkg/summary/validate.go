package summary

import (
	"regexp"
	"strings"
)

const (
	minSummaryLength = 20
	overlapWords     = 100
	maxOverlap       = 0.8
)

var linkRe = regexp.MustCompile(`https?://`)

// isUsableSummary rejects summaries too short to carry information and ones containing links
func isUsableSummary(summary string) bool {
	summary = strings.TrimSpace(summary)
	return len(summary) >= minSummaryLength && !linkRe.MatchString(summary)
}

// isRewritten tells whether a generated summary is more than a copy of the article opening:
// the share of its words found among the first 100 words of the source must stay below 80%
func isRewritten(summary, source string) bool {
	summaryWords := strings.Fields(strings.ToLower(summary))
	if len(summaryWords) == 0 {
		return false
	}
	sourceWords := strings.Fields(strings.ToLower(source))
	lead := make(map[string]bool, overlapWords)
	for _, w := range sourceWords[:min(overlapWords, len(sourceWords))] {
		lead[w] = true
	}

	uniq := map[string]bool{}
	overlap := 0
	for _, w := range summaryWords {
		if uniq[w] {
			continue
		}
		uniq[w] = true
		if lead[w] {
			overlap++
		}
	}
	return float64(overlap)/float64(len(uniq)) < maxOverlap
}
