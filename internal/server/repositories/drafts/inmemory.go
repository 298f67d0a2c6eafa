package drafts

import (
	"context"
	"sort"
	"sync"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// InMemoryRepository keeps drafts keyed by principal id. The map key is the
// singleton enforcement: a second save for the same principal overwrites.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Draft
}

func NewInMemoryRepository(seed []models.Draft) *InMemoryRepository {
	items := make(map[string]models.Draft, len(seed))
	for _, d := range seed {
		items[d.PrincipalID] = d
	}
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, d *models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[d.PrincipalID] = *d
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, principalID string) (*models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[principalID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &d, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, principalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[principalID]; !ok {
		return common.ErrNotFound
	}
	delete(r.items, principalID)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, principalID string) ([]models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Draft{}
	for _, d := range r.items {
		if principalID != "" && d.PrincipalID != principalID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastSaved.Equal(out[j].LastSaved) {
			return out[i].LastSaved.After(out[j].LastSaved)
		}
		return out[i].PrincipalID < out[j].PrincipalID
	})
	return out, nil
}
