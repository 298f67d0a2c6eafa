package resources

import (
	"strings"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// Matches reports whether a resource satisfies every active criterion in
// filters. Absent or empty criteria are no-ops; criteria combine with AND,
// values inside one criterion with OR.
func Matches(r *models.Resource, f *models.ResourceFilters) bool {
	if !matchesSearch(r, f.Search) {
		return false
	}
	if !inSet(string(r.Type), f.Types) {
		return false
	}
	if !inSet(r.PartnerID, f.PartnerIDs) {
		return false
	}
	if !inSet(r.ProjectID, f.ProjectIDs) {
		return false
	}
	if !inSet(string(r.Status), f.Statuses) {
		return false
	}
	if !inSet(string(r.AccessLevel), f.AccessLevels) {
		return false
	}
	if !inSet(r.FileFormat, f.FileFormats) {
		return false
	}
	if !matchesTags(r, f.Tags) {
		return false
	}
	if !matchesDateRange(r, f.DateRange) {
		return false
	}
	return true
}

// matchesSearch does a case-insensitive substring test against title,
// description, partner name, project name, tag names, keywords and author.
// A record matches if any of those fields contains the term.
func matchesSearch(r *models.Resource, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)

	if containsFold(r.Title, needle) ||
		containsFold(r.Description, needle) ||
		containsFold(r.Partner.Name, needle) ||
		containsFold(r.Author, needle) {
		return true
	}
	if r.Project != nil && containsFold(r.Project.Name, needle) {
		return true
	}
	for _, t := range r.Tags {
		if containsFold(t.Name, needle) {
			return true
		}
	}
	for _, k := range r.Keywords {
		if containsFold(k, needle) {
			return true
		}
	}
	return false
}

// containsFold assumes needle is already lowercased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func inSet(value string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

func matchesTags(r *models.Resource, names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if r.HasTag(name) {
			return true
		}
	}
	return false
}

// matchesDateRange compares the selected date field against the inclusive
// bounds. Either bound may be open.
func matchesDateRange(r *models.Resource, dr models.DateRange) bool {
	if dr.IsZero() {
		return true
	}
	d := r.EffectiveDate(dr.Field)
	if !dr.From.IsZero() && d.Before(dr.From) {
		return false
	}
	if !dr.To.IsZero() && d.After(dr.To) {
		return false
	}
	return true
}

// Filter returns the resources matching f, preserving input order.
func Filter(rs []models.Resource, f *models.ResourceFilters) []models.Resource {
	out := make([]models.Resource, 0, len(rs))
	for i := range rs {
		if Matches(&rs[i], f) {
			out = append(out, rs[i])
		}
	}
	return out
}
