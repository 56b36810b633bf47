package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Uncategorized is the theme assigned when the LLM label can't be mapped to a configured theme
const Uncategorized = "Uncategorized"

// RelationshipType defines how the subject company is framed in the report
type RelationshipType string

const (
	RelationshipCompetitor        RelationshipType = "competitor"
	RelationshipPotentialCustomer RelationshipType = "potential_customer"
)

// ParseRelationship converts user input to RelationshipType.
// Accepts "potential customer" and "client" as aliases of potential_customer.
func ParseRelationship(s string) (RelationshipType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "_")
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "competitor":
		return RelationshipCompetitor, nil
	case "potential_customer", "client", "customer":
		return RelationshipPotentialCustomer, nil
	}
	return "", fmt.Errorf("%w: relationship type must be competitor or potential_customer, got %q", ErrInvalidInput, s)
}

// Framing returns the human-readable framing used on the title slide
func (r RelationshipType) Framing() string {
	switch r {
	case RelationshipCompetitor:
		return "Competitor Intelligence"
	case RelationshipPotentialCustomer:
		return "Potential Customer Briefing"
	}
	return "Company News"
}

// ThemeGroup holds articles sharing a theme
type ThemeGroup struct {
	Theme    string
	Articles []CategorizedArticle
}

// Report is the input of the report-generation stage
type Report struct {
	CompanyName  string
	Relationship RelationshipType
	GeneratedAt  time.Time
	Groups       []ThemeGroup
}

// ArticleCount returns the total number of articles over all groups
func (r Report) ArticleCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Articles)
	}
	return n
}

// NewReport groups categorized articles by theme. Groups follow themeOrder, unknown themes go after
// in first-seen order and Uncategorized is always last. Inside a group articles are sorted newest first,
// undated articles keep their relative order at the end.
func NewReport(company string, rel RelationshipType, generatedAt time.Time, themeOrder []string, articles []CategorizedArticle) Report {
	byTheme := map[string][]CategorizedArticle{}
	var seen []string
	for _, a := range articles {
		if _, ok := byTheme[a.Theme]; !ok {
			seen = append(seen, a.Theme)
		}
		byTheme[a.Theme] = append(byTheme[a.Theme], a)
	}

	order := make([]string, 0, len(seen))
	placed := map[string]bool{}
	for _, t := range themeOrder {
		if _, ok := byTheme[t]; ok && !placed[t] && t != Uncategorized {
			order = append(order, t)
			placed[t] = true
		}
	}
	for _, t := range seen {
		if !placed[t] && t != Uncategorized {
			order = append(order, t)
			placed[t] = true
		}
	}
	if _, ok := byTheme[Uncategorized]; ok {
		order = append(order, Uncategorized)
	}

	groups := make([]ThemeGroup, 0, len(order))
	for _, t := range order {
		items := byTheme[t]
		sort.SliceStable(items, func(i, j int) bool {
			pi, pj := items[i].Published, items[j].Published
			switch {
			case pi == nil:
				return false
			case pj == nil:
				return true
			default:
				return pi.After(*pj)
			}
		})
		groups = append(groups, ThemeGroup{Theme: t, Articles: items})
	}

	return Report{CompanyName: company, Relationship: rel, GeneratedAt: generatedAt, Groups: groups}
}
