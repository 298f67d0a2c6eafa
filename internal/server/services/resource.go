// Package services contains server-side business logic. This file implements
// ResourceService, which fronts the resource catalogue: the dual-backend
// query path, file lifecycle against object storage, counters and stats.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/logging"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/auth"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/repomanager"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/resources"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/storage"
)

// ResourceService serves the catalogue. Reads go to the document store and
// degrade to the in-memory fallback when the store is unreachable; writes go
// to the store only and surface failures.
type ResourceService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	fallback     resources.Repository
	objects      storage.ObjectStore
	logger       logging.Logger
	storeTimeout time.Duration
}

// NewResourceService constructs a ResourceService. fallback is the in-memory
// repository used when the store reports ErrStoreUnavailable on reads.
func NewResourceService(db *sql.DB, m repomanager.RepositoryManager, fallback resources.Repository,
	objects storage.ObjectStore, logger logging.Logger, cfg *config.Config) *ResourceService {
	return &ResourceService{
		db:           db,
		repomanager:  m,
		fallback:     fallback,
		objects:      objects,
		logger:       logger.With("service", "resources"),
		storeTimeout: cfg.StoreTimeout,
	}
}

func (s *ResourceService) store() resources.Repository {
	return s.repomanager.Resources(s.db)
}

func (s *ResourceService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// QueryResources runs the filter/sort/paginate pipeline against the store,
// falling back to the in-memory dataset when the store is unreachable.
func (s *ResourceService) QueryResources(ctx context.Context, filters models.ResourceFilters, page, pageSize int) (*models.ResourcePage, error) {
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	result, err := s.store().Query(tctx, filters, page, pageSize)
	if errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Warn(ctx, "store unavailable, serving query from memory", "error", err)
		return s.fallback.Query(ctx, filters, page, pageSize)
	}
	return result, err
}

// GetResourceByID resolves one resource. A missing id is common.ErrNotFound;
// an unreachable store degrades to the fallback dataset.
func (s *ResourceService) GetResourceByID(ctx context.Context, id string) (*models.Resource, error) {
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	r, err := s.store().GetByID(tctx, id)
	if errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Warn(ctx, "store unavailable, serving resource from memory", "id", id, "error", err)
		return s.fallback.GetByID(ctx, id)
	}
	return r, err
}

// SearchSuggestions ranks autocomplete candidates for the partial query.
// Queries shorter than two characters yield an empty list without touching
// the store.
func (s *ResourceService) SearchSuggestions(ctx context.Context, query string) ([]models.Suggestion, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < suggestionMinQueryLen {
		return []models.Suggestion{}, nil
	}

	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	items, err := s.store().All(tctx)
	if errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Warn(ctx, "store unavailable, ranking suggestions from memory", "error", err)
		items, err = s.fallback.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	return BuildSuggestions(items, query), nil
}

// CreateResourceInput carries the metadata and file payload of a new
// resource. Title, PartnerID, Type, FileName and FileData are mandatory.
type CreateResourceInput struct {
	Title       string
	Description string
	Type        models.ResourceType
	Status      models.ResourceStatus
	AccessLevel models.AccessLevel

	FileName    string
	FileData    []byte
	ContentType string

	PartnerID   string
	PartnerName string
	ProjectID   string
	ProjectName string

	Tags            []models.Tag
	Keywords        []string
	Author          string
	PublicationDate *time.Time
}

func (in *CreateResourceInput) validate() error {
	switch {
	case !filled(in.Title):
		return common.NewValidationError("title", "is required")
	case !filled(in.PartnerID):
		return common.NewValidationError("partnerId", "is required")
	case in.Type == "":
		return common.NewValidationError("type", "is required")
	case !filled(in.FileName):
		return common.NewValidationError("fileName", "is required")
	case len(in.FileData) == 0:
		return common.NewValidationError("file", "is empty")
	}
	return nil
}

// CreateResource uploads the binary first and writes the metadata record
// second, so a failure never leaves a catalogue entry pointing at a missing
// file. If the metadata write fails the just-uploaded binary is removed
// again on a best-effort basis.
func (s *ResourceService) CreateResource(ctx context.Context, p auth.Principal, in CreateResourceInput) (*models.Resource, error) {
	if p.IsAnonymous() {
		return nil, common.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	key := storage.ObjectKey(id, in.FileName)

	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	locator, err := s.objects.Put(tctx, key, in.FileData, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("uploading resource file: %w", err)
	}

	now := time.Now()
	r := &models.Resource{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      in.Status,
		AccessLevel: in.AccessLevel,

		FileFormat: fileFormat(in.FileName),
		FileSize:   int64(len(in.FileData)),
		FileName:   in.FileName,
		FileURL:    locator,

		UploadDate:      now,
		PublicationDate: in.PublicationDate,
		LastModified:    now,

		PartnerID: in.PartnerID,
		Partner:   models.Partner{ID: in.PartnerID, Name: in.PartnerName},

		Tags:     in.Tags,
		Keywords: in.Keywords,
		Author:   in.Author,
	}
	if r.Status == "" {
		r.Status = models.StatusPublished
	}
	if r.AccessLevel == "" {
		r.AccessLevel = models.AccessPublic
	}
	if in.ProjectID != "" {
		r.ProjectID = in.ProjectID
		r.Project = &models.Project{ID: in.ProjectID, Name: in.ProjectName}
	}

	if err := s.store().Insert(tctx, r); err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.Error(ctx, "orphaned binary cleanup failed", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("storing resource metadata: %w", err)
	}
	return r, nil
}

// UpdateResourceInput is a partial update. Nil pointers leave the current
// value untouched; a non-empty FileData replaces the stored file.
type UpdateResourceInput struct {
	Title       *string
	Description *string
	Type        *models.ResourceType
	Status      *models.ResourceStatus
	AccessLevel *models.AccessLevel

	Tags            *[]models.Tag
	Keywords        *[]string
	Author          *string
	PublicationDate *time.Time

	FileName    string
	FileData    []byte
	ContentType string
}

// UpdateResource applies a partial metadata update and optionally replaces
// the stored file. A replacement binary is uploaded before the metadata is
// rewritten and the previous binary is only removed afterwards, so a failure
// at any point leaves the old consistent state in place.
func (s *ResourceService) UpdateResource(ctx context.Context, p auth.Principal, id string, in UpdateResourceInput) (*models.Resource, error) {
	if p.IsAnonymous() {
		return nil, common.ErrUnauthorized
	}

	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	r, err := s.store().GetByID(tctx, id)
	if err != nil {
		return nil, err
	}
	oldKey := storage.ObjectKey(r.ID, r.FileName)

	if in.Title != nil {
		if !filled(*in.Title) {
			return nil, common.NewValidationError("title", "must not be empty")
		}
		r.Title = *in.Title
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Type != nil {
		r.Type = *in.Type
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
	if in.AccessLevel != nil {
		r.AccessLevel = *in.AccessLevel
	}
	if in.Tags != nil {
		r.Tags = *in.Tags
	}
	if in.Keywords != nil {
		r.Keywords = *in.Keywords
	}
	if in.Author != nil {
		r.Author = *in.Author
	}
	if in.PublicationDate != nil {
		r.PublicationDate = in.PublicationDate
	}

	newKey := ""
	if len(in.FileData) > 0 {
		name := in.FileName
		if name == "" {
			name = r.FileName
		}
		newKey = storage.ObjectKey(r.ID, name)
		locator, err := s.objects.Put(tctx, newKey, in.FileData, in.ContentType)
		if err != nil {
			return nil, fmt.Errorf("uploading replacement file: %w", err)
		}
		r.FileName = name
		r.FileURL = locator
		r.FileSize = int64(len(in.FileData))
		r.FileFormat = fileFormat(name)
	}
	r.LastModified = time.Now()

	if err := s.store().Update(tctx, r); err != nil {
		if newKey != "" && newKey != oldKey {
			if delErr := s.objects.Delete(ctx, newKey); delErr != nil {
				s.logger.Error(ctx, "orphaned binary cleanup failed", "key", newKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("storing resource metadata: %w", err)
	}

	if newKey != "" && newKey != oldKey {
		// The old binary is unreferenced now; losing this delete only leaks
		// storage, it cannot corrupt the catalogue.
		if err := s.objects.Delete(ctx, oldKey); err != nil {
			s.logger.Warn(ctx, "stale binary removal failed", "key", oldKey, "error", err)
		}
	}
	return r, nil
}

// DeleteResource removes the metadata record first and the binary second.
// If the binary removal fails the catalogue is already consistent; the error
// is still surfaced so the caller knows storage was leaked.
func (s *ResourceService) DeleteResource(ctx context.Context, p auth.Principal, id string) error {
	if p.IsAnonymous() {
		return common.ErrUnauthorized
	}

	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	r, err := s.store().GetByID(tctx, id)
	if err != nil {
		return err
	}
	if err := s.store().Delete(tctx, id); err != nil {
		return err
	}

	key := storage.ObjectKey(r.ID, r.FileName)
	if err := s.objects.Delete(ctx, key); err != nil {
		s.logger.Error(ctx, "binary removal failed after metadata delete", "key", key, "error", err)
		return fmt.Errorf("resource %s deleted but binary removal failed: %w", id, err)
	}
	return nil
}

// IncrementView bumps the view counter. Open to anonymous callers.
func (s *ResourceService) IncrementView(ctx context.Context, id string) error {
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.store().IncrementView(tctx, id)
}

// IncrementDownload bumps the download counter. Open to anonymous callers.
func (s *ResourceService) IncrementDownload(ctx context.Context, id string) error {
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.store().IncrementDownload(tctx, id)
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (s *ResourceService) ToggleFavorite(ctx context.Context, p auth.Principal, id string) (bool, error) {
	if p.IsAnonymous() {
		return false, common.ErrUnauthorized
	}
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.store().ToggleFavorite(tctx, id)
}

// RateResource records a 1..5 rating.
func (s *ResourceService) RateResource(ctx context.Context, p auth.Principal, id string, rating int) error {
	if p.IsAnonymous() {
		return common.ErrUnauthorized
	}
	if rating < 1 || rating > 5 {
		return common.NewValidationError("rating", "must be between 1 and 5")
	}
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.store().Rate(tctx, id, rating)
}

// GetResourceStats aggregates catalogue-wide counts, degrading to the
// in-memory dataset when the store is unreachable.
func (s *ResourceService) GetResourceStats(ctx context.Context) (*models.ResourceStats, error) {
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	stats, err := s.store().Stats(tctx)
	if errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Warn(ctx, "store unavailable, serving stats from memory", "error", err)
		return s.fallback.Stats(ctx)
	}
	return stats, err
}

func fileFormat(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}
