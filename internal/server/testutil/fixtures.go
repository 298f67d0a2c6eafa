// Package testutil provides explicit fixture builders for tests. These
// replace ad-hoc random dataset generation: every attribute a test relies
// on is set deliberately.
package testutil

import (
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// ResourceBuilder assembles a test resource. Zero-config defaults give a
// published, public report owned by partner "p1".
type ResourceBuilder struct {
	r models.Resource
}

func NewResource(id string) *ResourceBuilder {
	upload := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return &ResourceBuilder{r: models.Resource{
		ID:           id,
		Title:        "Resource " + id,
		Type:         models.TypeReports,
		Status:       models.StatusPublished,
		AccessLevel:  models.AccessPublic,
		FileFormat:   "pdf",
		FileSize:     1024,
		FileName:     id + ".pdf",
		FileURL:      "https://files.example.org/resources/" + id,
		UploadDate:   upload,
		LastModified: upload,
		PartnerID:    "p1",
		Partner:      models.Partner{ID: "p1", Name: "Ghana Health Service"},
	}}
}

func (b *ResourceBuilder) Title(title string) *ResourceBuilder {
	b.r.Title = title
	return b
}

func (b *ResourceBuilder) Description(d string) *ResourceBuilder {
	b.r.Description = d
	return b
}

func (b *ResourceBuilder) Type(t models.ResourceType) *ResourceBuilder {
	b.r.Type = t
	return b
}

func (b *ResourceBuilder) Status(s models.ResourceStatus) *ResourceBuilder {
	b.r.Status = s
	return b
}

func (b *ResourceBuilder) Access(a models.AccessLevel) *ResourceBuilder {
	b.r.AccessLevel = a
	return b
}

func (b *ResourceBuilder) Format(f string) *ResourceBuilder {
	b.r.FileFormat = f
	return b
}

func (b *ResourceBuilder) Size(n int64) *ResourceBuilder {
	b.r.FileSize = n
	return b
}

func (b *ResourceBuilder) Downloads(n int) *ResourceBuilder {
	b.r.DownloadCount = n
	return b
}

func (b *ResourceBuilder) Views(n int) *ResourceBuilder {
	b.r.ViewCount = n
	return b
}

func (b *ResourceBuilder) Uploaded(t time.Time) *ResourceBuilder {
	b.r.UploadDate = t
	b.r.LastModified = t
	return b
}

func (b *ResourceBuilder) Published(t time.Time) *ResourceBuilder {
	b.r.PublicationDate = &t
	return b
}

func (b *ResourceBuilder) Partner(id, name string) *ResourceBuilder {
	b.r.PartnerID = id
	b.r.Partner = models.Partner{ID: id, Name: name}
	return b
}

func (b *ResourceBuilder) Project(id, name string) *ResourceBuilder {
	b.r.ProjectID = id
	b.r.Project = &models.Project{ID: id, Name: name}
	return b
}

func (b *ResourceBuilder) Tags(names ...string) *ResourceBuilder {
	for i, name := range names {
		b.r.Tags = append(b.r.Tags, models.Tag{ID: name, Name: name, Color: tagColors[i%len(tagColors)]})
	}
	return b
}

func (b *ResourceBuilder) Keywords(ks ...string) *ResourceBuilder {
	b.r.Keywords = ks
	return b
}

func (b *ResourceBuilder) Author(a string) *ResourceBuilder {
	b.r.Author = a
	return b
}

func (b *ResourceBuilder) Build() models.Resource {
	return b.r
}

var tagColors = []string{"#2563eb", "#16a34a", "#dc2626"}

// NewSurvey builds a submitted survey for the given principal and region.
func NewSurvey(id, principalID, region string, submitted time.Time) models.Survey {
	return models.Survey{
		ID: id,
		Content: models.SurveyContent{
			OrganisationInfo: &models.OrganisationInfo{
				OrganisationName: "Org " + id,
				Region:           region,
				Email:            principalID + "@example.org",
			},
			ProjectInfo: &models.ProjectInfo{
				ProjectName: "Project " + id,
				StartDate:   "2025-01-01",
				ProjectGoal: "Reduce NCD burden",
			},
		},
		CreatedBy: models.CreatedBy{
			PrincipalID: principalID,
			Email:       principalID + "@example.org",
			Name:        "User " + principalID,
			Timestamp:   submitted,
		},
		SubmissionDate: submitted,
		LastUpdated:    submitted,
		Status:         "submitted",
		Version:        "1.0",
	}
}

// NewDraft builds an in-flight draft for the given principal.
func NewDraft(principalID string, progress int, saved time.Time) models.Draft {
	return models.Draft{
		PrincipalID: principalID,
		Content: models.SurveyContent{
			OrganisationInfo: &models.OrganisationInfo{
				OrganisationName: "Org " + principalID,
				Region:           "Greater Accra",
				Email:            principalID + "@example.org",
			},
		},
		CurrentStep: "projectInfo",
		Progress:    progress,
		LastSaved:   saved,
	}
}
