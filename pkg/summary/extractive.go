package summary

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extractive is a local summarization engine scoring sentences by word frequency
type Extractive struct {
	maxLength int
	keyPoints int
}

// NewExtractive makes extractive engine producing summaries up to maxLength chars and keyPoints key points
func NewExtractive(maxLength, keyPoints int) *Extractive {
	return &Extractive{maxLength: maxLength, keyPoints: keyPoints}
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "with": true, "this": true, "from": true, "are": true,
	"was": true, "were": true, "has": true, "have": true, "had": true, "its": true, "their": true, "will": true,
	"would": true, "said": true, "says": true, "also": true, "but": true, "not": true, "been": true, "which": true,
	"who": true, "into": true, "about": true, "after": true, "over": true, "more": true, "than": true, "they": true,
	"his": true, "her": true, "she": true, "him": true, "our": true, "you": true, "all": true, "can": true,
	"one": true, "new": true, "out": true, "what": true, "when": true, "there": true, "other": true,
}

type scoredSentence struct {
	idx   int
	text  string
	score float64
}

// Summarize picks the highest scored sentences that fit into the length limit and returns them in
// document order. Key points are the top sentences by score.
func (e *Extractive) Summarize(_ context.Context, req Request) (Result, error) {
	sentences := splitSentences(req.Text)
	if len(sentences) == 0 {
		return Result{}, nil
	}
	if len(sentences) == 1 {
		s := truncate(sentences[0], e.maxLength)
		return Result{Summary: s, KeyPoints: []string{s}}, nil
	}

	ranked := rankSentences(sentences)

	picked := make([]scoredSentence, 0, len(ranked))
	total := 0
	for _, s := range ranked {
		l := len(s.text)
		if total > 0 {
			l++ // separating space
		}
		if total+l > e.maxLength {
			continue
		}
		picked = append(picked, s)
		total += l
	}
	if len(picked) == 0 {
		picked = append(picked, scoredSentence{idx: ranked[0].idx, text: truncate(ranked[0].text, e.maxLength)})
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].idx < picked[j].idx })

	parts := make([]string, 0, len(picked))
	for _, s := range picked {
		parts = append(parts, s.text)
	}

	points := make([]string, 0, e.keyPoints)
	for i := 0; i < len(ranked) && len(points) < e.keyPoints; i++ {
		points = append(points, truncate(ranked[i].text, fallbackMaxLength))
	}

	return Result{Summary: strings.Join(parts, " "), KeyPoints: points}, nil
}

// rankSentences scores sentences by the average document frequency of their content words,
// the leading sentences get a small bonus as news puts the gist first
func rankSentences(sentences []string) []scoredSentence {
	freq := map[string]int{}
	words := make([][]string, len(sentences))
	for i, s := range sentences {
		words[i] = contentWords(s)
		for _, w := range words[i] {
			freq[w]++
		}
	}

	res := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		var score float64
		for _, w := range words[i] {
			score += float64(freq[w])
		}
		if len(words[i]) > 0 {
			score /= float64(len(words[i]))
		}
		if i < 3 {
			score *= 1.0 + 0.1*float64(3-i)
		}
		res[i] = scoredSentence{idx: i, text: s, score: score}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].score > res[j].score })
	return res
}

func contentWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	res := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 || stopWords[f] {
			continue
		}
		res = append(res, f)
	}
	return res
}

var sentenceEndRe = regexp.MustCompile(`[.!?]+(\s+|$)`)

// splitSentences breaks text on terminal punctuation followed by whitespace, keeping the punctuation
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var res []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start:loc[1]]); s != "" {
			res = append(res, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		res = append(res, s)
	}
	return res
}

// leadSentences is the fallback summary: up to three leading sentences within maxLength
func leadSentences(text string, maxLength int) string {
	sentences := splitSentences(text)
	if len(sentences) < 2 {
		return truncate(strings.TrimSpace(text), maxLength)
	}
	var sb strings.Builder
	for _, s := range sentences[:min(3, len(sentences))] {
		if sb.Len() > 0 && sb.Len()+1+len(s) > maxLength {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s)
	}
	return truncate(sb.String(), maxLength)
}

// truncate cuts s to at most maxLength bytes on a word boundary, marking the cut with "..."
func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	cut := s[:maxLength-3]
	if i := strings.LastIndexAny(cut, " \t\n"); i > 0 {
		cut = cut[:i]
	}
	for cut != "" && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimRight(cut, " ,;:-") + "..."
}
