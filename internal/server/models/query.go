package models

import "time"

// DateRange bounds a date filter. Either bound may be zero (open). Field
// selects the resource date compared against: "uploadDate" (default) or
// "publicationDate" (falling back to uploadDate when absent).
type DateRange struct {
	From  time.Time `json:"from,omitempty"`
	To    time.Time `json:"to,omitempty"`
	Field string    `json:"field,omitempty"`
}

// IsZero reports whether no bound is set.
func (d DateRange) IsZero() bool {
	return d.From.IsZero() && d.To.IsZero()
}

// ResourceFilters are the query criteria a caller can combine. Absent or
// empty criteria are no-ops; present criteria narrow the candidate set
// conjunctively. Within one criterion, multiple values match disjunctively.
type ResourceFilters struct {
	Search       string    `json:"search,omitempty"`
	Types        []string  `json:"types,omitempty"`
	PartnerIDs   []string  `json:"partnerIds,omitempty"`
	ProjectIDs   []string  `json:"projectIds,omitempty"`
	Statuses     []string  `json:"statuses,omitempty"`
	AccessLevels []string  `json:"accessLevels,omitempty"`
	FileFormats  []string  `json:"fileFormats,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	DateRange    DateRange `json:"dateRange,omitempty"`

	SortBy    string `json:"sortBy,omitempty"`    // date|title|size|downloads|relevance
	SortOrder string `json:"sortOrder,omitempty"` // asc|desc
}

// Pagination describes the returned window of a query result.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// ResourcePage is the uniform result envelope of a resource query: the
// window of matching resources plus the pagination bookkeeping and the
// filters that produced it.
type ResourcePage struct {
	Resources  []Resource      `json:"resources"`
	Pagination Pagination      `json:"pagination"`
	Filters    ResourceFilters `json:"filters"`
}

// SuggestionCategory labels where a search suggestion came from.
type SuggestionCategory string

const (
	SuggestionTitle   SuggestionCategory = "title"
	SuggestionPartner SuggestionCategory = "partner"
	SuggestionTag     SuggestionCategory = "tag"
)

// Suggestion is one ranked search hint. Label is the display form (tag
// suggestions are prefixed with "#"); Count is how many resources the
// suggestion applies to.
type Suggestion struct {
	Category SuggestionCategory `json:"category"`
	Value    string             `json:"value"`
	Label    string             `json:"label"`
	Count    int                `json:"count"`
}

// ResourceStats is the aggregate payload of GetResourceStats.
type ResourceStats struct {
	TotalResources int            `json:"totalResources"`
	ByType         map[string]int `json:"byType"`
	ByStatus       map[string]int `json:"byStatus"`
	TotalDownloads int            `json:"totalDownloads"`
	TotalViews     int            `json:"totalViews"`
	MostDownloaded *Resource      `json:"mostDownloaded,omitempty"`
}
