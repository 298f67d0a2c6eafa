// Package models defines server-side data models persisted in the database.
package models

import "time"

// ResourceType enumerates the catalogue categories a resource can belong to.
type ResourceType string

const (
	TypeResearchFindings ResourceType = "research-findings"
	TypeConceptNotes     ResourceType = "concept-notes"
	TypeProgramBriefs    ResourceType = "program-briefs"
	TypePublications     ResourceType = "publications"
	TypeReports          ResourceType = "reports"
	TypePresentations    ResourceType = "presentations"
	TypeVideos           ResourceType = "videos"
	TypeDatasets         ResourceType = "datasets"
)

// ResourceStatus enumerates workflow states.
type ResourceStatus string

const (
	StatusPublished   ResourceStatus = "published"
	StatusDraft       ResourceStatus = "draft"
	StatusUnderReview ResourceStatus = "under-review"
	StatusArchived    ResourceStatus = "archived"
)

// AccessLevel enumerates visibility tiers.
type AccessLevel string

const (
	AccessPublic       AccessLevel = "public"
	AccessInternal     AccessLevel = "internal"
	AccessRestricted   AccessLevel = "restricted"
	AccessConfidential AccessLevel = "confidential"
)

// Tag labels a resource. Name is what filters match on; Color is display-only.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Partner is the denormalized partner snapshot embedded in each resource.
type Partner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is the optional project snapshot embedded in a resource.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resource describes one stored file and its catalogue metadata.
//
// Every resource has exactly one partner and zero or one project.
// UploadDate is set at creation and never changes; LastModified is bumped
// on every mutation.
type Resource struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Type        ResourceType   `json:"type"`
	Status      ResourceStatus `json:"status"`
	AccessLevel AccessLevel    `json:"accessLevel"`

	FileFormat   string `json:"fileFormat"`
	FileSize     int64  `json:"fileSize"`
	FileName     string `json:"fileName"`
	FileURL      string `json:"fileUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	UploadDate      time.Time  `json:"uploadDate"`
	PublicationDate *time.Time `json:"publicationDate,omitempty"`
	LastModified    time.Time  `json:"lastModified"`

	PartnerID string   `json:"partnerId"`
	Partner   Partner  `json:"partner"`
	ProjectID string   `json:"projectId,omitempty"`
	Project   *Project `json:"project,omitempty"`

	Tags     []Tag    `json:"tags,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Author   string   `json:"author,omitempty"`

	DownloadCount int  `json:"downloadCount"`
	ViewCount     int  `json:"viewCount"`
	IsFavorited   bool `json:"isFavorited"`
	Rating        int  `json:"rating,omitempty"`
}

// EffectiveDate returns the date used for date-range filtering on the given
// field name. For "publicationDate" it falls back to UploadDate when the
// resource has no publication date.
func (r *Resource) EffectiveDate(field string) time.Time {
	if field == "publicationDate" && r.PublicationDate != nil {
		return *r.PublicationDate
	}
	return r.UploadDate
}

// HasTag reports whether any of the resource's tags has the given name
// (exact match; tag filters are case-preserving by convention).
func (r *Resource) HasTag(name string) bool {
	for _, t := range r.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
