package surveys

import (
	"context"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// Repository is the survey data source. Provenance fields are write-once:
// only UpdateContent mutates a stored survey, and it bumps LastUpdated.
type Repository interface {
	Insert(ctx context.Context, s *models.Survey) error
	GetByID(ctx context.Context, id string) (*models.Survey, error)

	// List returns surveys, newest first. An empty principalID lists all.
	List(ctx context.Context, principalID string) ([]models.Survey, error)

	UpdateContent(ctx context.Context, id string, content models.SurveyContent) error
}
