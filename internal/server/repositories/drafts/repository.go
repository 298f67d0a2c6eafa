package drafts

import (
	"context"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// Repository stores at most one in-flight draft per principal. The
// singleton invariant is enforced by Upsert keying on the principal id,
// not by callers defending a uniqueness constraint.
type Repository interface {
	Upsert(ctx context.Context, d *models.Draft) error
	Get(ctx context.Context, principalID string) (*models.Draft, error)
	Delete(ctx context.Context, principalID string) error

	// List returns drafts newest-first; the analytics aggregator consumes
	// it. An empty principalID lists every draft.
	List(ctx context.Context, principalID string) ([]models.Draft, error)
}
