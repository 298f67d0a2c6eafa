package surveys

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// InMemoryRepository keeps surveys in a map guarded by a mutex. It serves
// the read-path fallback and tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Survey
}

func NewInMemoryRepository(seed []models.Survey) *InMemoryRepository {
	items := make(map[string]models.Survey, len(seed))
	for _, s := range seed {
		items[s.ID] = s
	}
	return &InMemoryRepository{items: items}
}

func (r *InMemoryRepository) Insert(ctx context.Context, s *models.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = *s
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (r *InMemoryRepository) List(ctx context.Context, principalID string) ([]models.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Survey{}
	for _, s := range r.items {
		if principalID == "" || s.CreatedBy.PrincipalID == principalID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmissionDate.Equal(out[j].SubmissionDate) {
			return out[i].SubmissionDate.After(out[j].SubmissionDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *InMemoryRepository) UpdateContent(ctx context.Context, id string, content models.SurveyContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return common.ErrNotFound
	}
	s.Content = content
	s.LastUpdated = time.Now()
	r.items[id] = s
	return nil
}
