package services

import (
	"strings"
	"unicode/utf8"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

const (
	suggestionMinQueryLen  = 2
	suggestionsPerCategory = 3
	suggestionsTotalMax    = 8
)

// BuildSuggestions ranks autocomplete candidates for a partial query over
// the given resource set. Candidates come from three categories, titles,
// partner names and tags, each capped at three entries, with the overall
// list capped at eight. Matching is case-insensitive substring matching;
// queries shorter than two characters yield no suggestions. Candidates
// within a category keep the order of first appearance in the input, and
// each carries the number of resources it applies to.
func BuildSuggestions(items []models.Resource, query string) []models.Suggestion {
	needle := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(needle) < suggestionMinQueryLen {
		return []models.Suggestion{}
	}

	titles := newSuggestionGroup(models.SuggestionTitle)
	partners := newSuggestionGroup(models.SuggestionPartner)
	tags := newSuggestionGroup(models.SuggestionTag)

	for _, r := range items {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			titles.add(r.Title, r.Title)
		}
		if name := r.Partner.Name; name != "" && strings.Contains(strings.ToLower(name), needle) {
			partners.add(name, name)
		}
		for _, t := range r.Tags {
			if strings.Contains(strings.ToLower(t.Name), needle) {
				tags.add(t.Name, "#"+t.Name)
			}
		}
	}

	out := make([]models.Suggestion, 0, suggestionsTotalMax)
	for _, g := range []*suggestionGroup{titles, partners, tags} {
		for _, s := range g.top(suggestionsPerCategory) {
			if len(out) == suggestionsTotalMax {
				return out
			}
			out = append(out, s)
		}
	}
	return out
}

// suggestionGroup accumulates distinct candidates of one category in
// first-seen order, counting occurrences.
type suggestionGroup struct {
	category models.SuggestionCategory
	order    []string
	counts   map[string]int
	labels   map[string]string
}

func newSuggestionGroup(category models.SuggestionCategory) *suggestionGroup {
	return &suggestionGroup{
		category: category,
		counts:   make(map[string]int),
		labels:   make(map[string]string),
	}
}

func (g *suggestionGroup) add(value, label string) {
	if _, seen := g.counts[value]; !seen {
		g.order = append(g.order, value)
		g.labels[value] = label
	}
	g.counts[value]++
}

func (g *suggestionGroup) top(n int) []models.Suggestion {
	if len(g.order) < n {
		n = len(g.order)
	}
	out := make([]models.Suggestion, 0, n)
	for _, v := range g.order[:n] {
		out = append(out, models.Suggestion{
			Category: g.category,
			Value:    v,
			Label:    g.labels[v],
			Count:    g.counts[v],
		})
	}
	return out
}
