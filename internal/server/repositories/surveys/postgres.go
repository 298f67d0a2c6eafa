// Package surveys provides PostgreSQL-backed and in-memory repositories for
// submitted programme surveys.
package surveys

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/dbx"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// PostgresRepository implements survey storage over a dbx.DBTX
// (*sql.DB or *sql.Tx), so services can run it inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, s *models.Survey) error {
	content, err := json.Marshal(s.Content)
	if err != nil {
		return fmt.Errorf("encode survey content: %w", err)
	}
	query := `
		INSERT INTO surveys (id, content, principal_id, principal_email, principal_name,
			created_at, submission_date, last_updated, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, content, s.CreatedBy.PrincipalID, s.CreatedBy.Email, s.CreatedBy.Name,
		s.CreatedBy.Timestamp, s.SubmissionDate, s.LastUpdated, s.Status, s.Version)
	if err != nil {
		return dbx.WrapStoreErr("insert survey", err)
	}
	return nil
}

const surveyColumns = `id, content, principal_id, principal_email, principal_name,
	created_at, submission_date, last_updated, status, version`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Survey, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = $1`, id)
	s, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, dbx.WrapStoreErr("get survey", err)
	}
	return s, nil
}

func (r *PostgresRepository) List(ctx context.Context, principalID string) ([]models.Survey, error) {
	query := `SELECT ` + surveyColumns + ` FROM surveys`
	args := []any{}
	if principalID != "" {
		query += ` WHERE principal_id = $1`
		args = append(args, principalID)
	}
	query += ` ORDER BY submission_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapStoreErr("list surveys", err)
	}
	defer rows.Close()

	out := []models.Survey{}
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapStoreErr("list surveys", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id string, content models.SurveyContent) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode survey content: %w", err)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE surveys SET content = $2, last_updated = $3 WHERE id = $1`,
		id, raw, time.Now())
	if err != nil {
		return dbx.WrapStoreErr("update survey", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row rowScanner) (*models.Survey, error) {
	var s models.Survey
	var content []byte
	err := row.Scan(
		&s.ID, &content, &s.CreatedBy.PrincipalID, &s.CreatedBy.Email, &s.CreatedBy.Name,
		&s.CreatedBy.Timestamp, &s.SubmissionDate, &s.LastUpdated, &s.Status, &s.Version)
	if err != nil {
		return nil, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &s.Content); err != nil {
			return nil, fmt.Errorf("decode survey content: %w", err)
		}
	}
	return &s, nil
}
