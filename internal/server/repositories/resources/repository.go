package resources

import (
	"context"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// Repository is the resource data source. Two implementations exist: a
// PostgreSQL-backed one translating filters into native queries, and an
// in-memory one running the local filter/sort/paginate pipeline. Both must
// produce the same result sets for the same data, except for the documented
// relevance-sort degradation on the store path.
type Repository interface {
	// Query runs the filter/sort/paginate pipeline and returns one page.
	Query(ctx context.Context, filters models.ResourceFilters, page, pageSize int) (*models.ResourcePage, error)

	// GetByID resolves a single resource or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Resource, error)

	// All returns every resource; used by the suggestion ranker and stats.
	All(ctx context.Context) ([]models.Resource, error)

	Insert(ctx context.Context, r *models.Resource) error
	Update(ctx context.Context, r *models.Resource) error
	Delete(ctx context.Context, id string) error

	// Counter mutations are atomic at the store level.
	IncrementView(ctx context.Context, id string) error
	IncrementDownload(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Rate(ctx context.Context, id string, rating int) error

	// Stats aggregates catalogue-wide counts and sums.
	Stats(ctx context.Context) (*models.ResourceStats, error)
}
