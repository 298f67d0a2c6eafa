package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/dbx"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/logging"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/auth"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/drafts"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/resources"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/surveys"
)

// --- test fakes ---

// fakeRepoManager hands out the injected repositories regardless of the
// DBTX it is bound to, so transaction plumbing stays testable without a
// real database.
type fakeRepoManager struct {
	resources resources.Repository
	surveys   surveys.Repository
	drafts    drafts.Repository
}

func (f *fakeRepoManager) Resources(db dbx.DBTX) resources.Repository { return f.resources }
func (f *fakeRepoManager) Surveys(db dbx.DBTX) surveys.Repository     { return f.surveys }
func (f *fakeRepoManager) Drafts(db dbx.DBTX) drafts.Repository       { return f.drafts }
func (f *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

// unavailableResources simulates an unreachable store on every read.
type unavailableResources struct {
	resources.Repository
}

func (unavailableResources) Query(context.Context, models.ResourceFilters, int, int) (*models.ResourcePage, error) {
	return nil, fmt.Errorf("dial tcp: %w", common.ErrStoreUnavailable)
}

func (unavailableResources) GetByID(context.Context, string) (*models.Resource, error) {
	return nil, fmt.Errorf("dial tcp: %w", common.ErrStoreUnavailable)
}

func (unavailableResources) All(context.Context) ([]models.Resource, error) {
	return nil, fmt.Errorf("dial tcp: %w", common.ErrStoreUnavailable)
}

func (unavailableResources) Stats(context.Context) (*models.ResourceStats, error) {
	return nil, fmt.Errorf("dial tcp: %w", common.ErrStoreUnavailable)
}

type unavailableSurveys struct {
	surveys.Repository
}

func (unavailableSurveys) List(context.Context, string) ([]models.Survey, error) {
	return nil, fmt.Errorf("dial tcp: %w", common.ErrStoreUnavailable)
}

type unavailableDrafts struct {
	drafts.Repository
}

func (unavailableDrafts) List(context.Context, string) ([]models.Draft, error) {
	return nil, fmt.Errorf("dial tcp: %w", common.ErrStoreUnavailable)
}

// failingResources delegates to an in-memory repository but fails the
// configured write.
type failingResources struct {
	*resources.InMemoryRepository
	insertErr error
	updateErr error
}

func (f *failingResources) Insert(ctx context.Context, r *models.Resource) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.InMemoryRepository.Insert(ctx, r)
}

func (f *failingResources) Update(ctx context.Context, r *models.Resource) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.InMemoryRepository.Update(ctx, r)
}

// failingSurveys delegates to an in-memory repository but fails inserts.
type failingSurveys struct {
	*surveys.InMemoryRepository
	insertErr error
}

func (f *failingSurveys) Insert(ctx context.Context, s *models.Survey) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.InMemoryRepository.Insert(ctx, s)
}

// fakeObjectStore records puts and deletes in order.
type fakeObjectStore struct {
	putErr error
	delErr error

	puts    []string
	deletes []string
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, key)
	return "https://files.test.local/" + key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deletes = append(f.deletes, key)
	return nil
}

// --- helpers ---

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{StoreTimeout: time.Second, SecretKey: "k"}
}

func testPrincipal() auth.Principal {
	return auth.Principal{ID: "u1", Email: "u1@example.org", Name: "User One"}
}
