package resources

import (
	"context"
	"sync"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// InMemoryRepository keeps resources in insertion order and serves queries
// through the local filter/sort/paginate pipeline. It backs the read-path
// fallback when the document store is unreachable, and doubles as the
// reference implementation for backend-equivalence tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []models.Resource
}

// NewInMemoryRepository seeds the repository with the given dataset.
// The slice is copied; later mutations of the argument are not observed.
func NewInMemoryRepository(seed []models.Resource) *InMemoryRepository {
	items := make([]models.Resource, len(seed))
	copy(items, seed)
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) Query(ctx context.Context, filters models.ResourceFilters, page, pageSize int) (*models.ResourcePage, error) {
	r.mu.RLock()
	snapshot := make([]models.Resource, len(r.items))
	copy(snapshot, r.items)
	r.mu.RUnlock()

	matched := Filter(snapshot, &filters)
	Sort(matched, filters.SortBy, filters.SortOrder, filters.Search)
	window := Paginate(matched, page, pageSize)

	out := make([]models.Resource, len(window))
	copy(out, window)

	return &models.ResourcePage{
		Resources:  out,
		Pagination: NewPagination(page, pageSize, len(matched)),
		Filters:    filters,
	}, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.items {
		if r.items[i].ID == id {
			res := r.items[i]
			return &res, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) All(ctx context.Context) ([]models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Resource, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, res *models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *res)
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, res *models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == res.ID {
			r.items[i] = *res
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *InMemoryRepository) IncrementView(ctx context.Context, id string) error {
	return r.mutate(id, func(res *models.Resource) {
		res.ViewCount++
	})
}

func (r *InMemoryRepository) IncrementDownload(ctx context.Context, id string) error {
	return r.mutate(id, func(res *models.Resource) {
		res.DownloadCount++
	})
}

func (r *InMemoryRepository) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var state bool
	err := r.mutate(id, func(res *models.Resource) {
		res.IsFavorited = !res.IsFavorited
		state = res.IsFavorited
	})
	return state, err
}

func (r *InMemoryRepository) Rate(ctx context.Context, id string, rating int) error {
	return r.mutate(id, func(res *models.Resource) {
		res.Rating = rating
	})
}

// mutate applies fn to the matching record under the write lock and bumps
// LastModified, matching the store path's row-level semantics.
func (r *InMemoryRepository) mutate(id string, fn func(*models.Resource)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			fn(&r.items[i])
			r.items[i].LastModified = time.Now()
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *InMemoryRepository) Stats(ctx context.Context) (*models.ResourceStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.ResourceStats{
		TotalResources: len(r.items),
		ByType:         map[string]int{},
		ByStatus:       map[string]int{},
	}
	var top *models.Resource
	for i := range r.items {
		res := &r.items[i]
		stats.ByType[string(res.Type)]++
		stats.ByStatus[string(res.Status)]++
		stats.TotalDownloads += res.DownloadCount
		stats.TotalViews += res.ViewCount
		if top == nil || res.DownloadCount > top.DownloadCount {
			top = res
		}
	}
	if top != nil {
		cp := *top
		stats.MostDownloaded = &cp
	}
	return stats, nil
}
