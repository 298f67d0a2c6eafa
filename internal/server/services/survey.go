package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/dbx"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/logging"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/auth"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/repomanager"
)

// surveyVersion is stamped on every submission.
const surveyVersion = "1.0"

// SurveyService handles survey submission and the per-principal draft
// lifecycle. Submitting atomically clears the submitter's draft.
type SurveyService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	logger       logging.Logger
	storeTimeout time.Duration
}

// NewSurveyService constructs a SurveyService using repositories and server
// config.
func NewSurveyService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, cfg *config.Config) *SurveyService {
	return &SurveyService{
		db:           db,
		repomanager:  m,
		logger:       logger.With("service", "surveys"),
		storeTimeout: cfg.StoreTimeout,
	}
}

func (s *SurveyService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func validateSubmission(content models.SurveyContent) error {
	switch {
	case content.OrganisationInfo == nil || !filled(content.OrganisationInfo.OrganisationName):
		return common.NewValidationError("organisationInfo.organisationName", "is required")
	case !filled(content.OrganisationInfo.Region):
		return common.NewValidationError("organisationInfo.region", "is required")
	case content.ProjectInfo == nil || !filled(content.ProjectInfo.ProjectName):
		return common.NewValidationError("projectInfo.projectName", "is required")
	}
	return nil
}

// SubmitSurvey stores a completed survey and deletes the principal's draft
// in the same transaction, so a submission can never coexist with a stale
// draft of itself. The stored record carries immutable provenance.
func (s *SurveyService) SubmitSurvey(ctx context.Context, p auth.Principal, content models.SurveyContent) (*models.Survey, error) {
	if p.IsAnonymous() {
		return nil, common.ErrUnauthorized
	}
	if err := validateSubmission(content); err != nil {
		return nil, err
	}

	now := time.Now()
	survey := &models.Survey{
		ID:      uuid.New().String(),
		Content: content,
		CreatedBy: models.CreatedBy{
			PrincipalID: p.ID,
			Email:       p.Email,
			Name:        p.Name,
			Timestamp:   now,
		},
		SubmissionDate: now,
		LastUpdated:    now,
		Status:         "submitted",
		Version:        surveyVersion,
	}

	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := dbx.WithTx(tctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Surveys(tx).Insert(ctx, survey); err != nil {
			return fmt.Errorf("inserting survey: %w", err)
		}
		if err := s.repomanager.Drafts(tx).Delete(ctx, p.ID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("clearing draft: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "survey submitted", "id", survey.ID, "principal", p.ID)
	return survey, nil
}

// GetSurvey resolves one submitted survey by id.
func (s *SurveyService) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.repomanager.Surveys(s.db).GetByID(tctx, id)
}

// ListSurveys returns the principal's submissions, newest first.
func (s *SurveyService) ListSurveys(ctx context.Context, p auth.Principal) ([]models.Survey, error) {
	if p.IsAnonymous() {
		return nil, common.ErrUnauthorized
	}
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.repomanager.Surveys(s.db).List(tctx, p.ID)
}

// UpdateSurvey replaces the content of an existing submission. Only the
// creator may update it; provenance and submission date stay untouched.
func (s *SurveyService) UpdateSurvey(ctx context.Context, p auth.Principal, id string, content models.SurveyContent) error {
	if p.IsAnonymous() {
		return common.ErrUnauthorized
	}
	if err := validateSubmission(content); err != nil {
		return err
	}

	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	repo := s.repomanager.Surveys(s.db)
	existing, err := repo.GetByID(tctx, id)
	if err != nil {
		return err
	}
	if existing.CreatedBy.PrincipalID != p.ID {
		return common.ErrUnauthorized
	}
	return repo.UpdateContent(tctx, id, content)
}

// SaveDraft upserts the principal's single draft, recomputing its progress
// percentage from the content.
func (s *SurveyService) SaveDraft(ctx context.Context, p auth.Principal, content models.SurveyContent, currentStep string) (*models.Draft, error) {
	if p.IsAnonymous() {
		return nil, common.ErrUnauthorized
	}

	draft := &models.Draft{
		PrincipalID: p.ID,
		Content:     content,
		CurrentStep: currentStep,
		Progress:    CalculateFormProgress(content),
		LastSaved:   time.Now(),
	}

	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repomanager.Drafts(s.db).Upsert(tctx, draft); err != nil {
		return nil, fmt.Errorf("saving draft: %w", err)
	}
	return draft, nil
}

// GetDraft returns the principal's in-flight draft or common.ErrNotFound.
func (s *SurveyService) GetDraft(ctx context.Context, p auth.Principal) (*models.Draft, error) {
	if p.IsAnonymous() {
		return nil, common.ErrUnauthorized
	}
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.repomanager.Drafts(s.db).Get(tctx, p.ID)
}

// DeleteDraft discards the principal's draft. Deleting a missing draft is
// not an error.
func (s *SurveyService) DeleteDraft(ctx context.Context, p auth.Principal) error {
	if p.IsAnonymous() {
		return common.ErrUnauthorized
	}
	tctx, cancel := s.storeCtx(ctx)
	defer cancel()

	err := s.repomanager.Drafts(s.db).Delete(tctx, p.ID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}
