// Package drafts provides PostgreSQL-backed and in-memory repositories for
// in-flight survey drafts, one per principal.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/dbx"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

// PostgresRepository implements draft storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert creates or overwrites the principal's draft. The conflict target
// is the principal id, which is what keeps the draft a singleton.
func (r *PostgresRepository) Upsert(ctx context.Context, d *models.Draft) error {
	content, err := json.Marshal(d.Content)
	if err != nil {
		return fmt.Errorf("encode draft content: %w", err)
	}
	query := `
		INSERT INTO drafts (principal_id, content, current_step, progress, last_saved)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (principal_id)
		DO UPDATE SET
			content = EXCLUDED.content,
			current_step = EXCLUDED.current_step,
			progress = EXCLUDED.progress,
			last_saved = EXCLUDED.last_saved
	`
	_, err = r.db.ExecContext(ctx, query,
		d.PrincipalID, content, d.CurrentStep, d.Progress, d.LastSaved)
	if err != nil {
		return dbx.WrapStoreErr("upsert draft", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, principalID string) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT principal_id, content, current_step, progress, last_saved FROM drafts WHERE principal_id = $1`,
		principalID)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, dbx.WrapStoreErr("get draft", err)
	}
	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, principalID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE principal_id = $1`, principalID)
	if err != nil {
		return dbx.WrapStoreErr("delete draft", err)
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

func (r *PostgresRepository) List(ctx context.Context, principalID string) ([]models.Draft, error) {
	query := `SELECT principal_id, content, current_step, progress, last_saved FROM drafts`
	args := []any{}
	if principalID != "" {
		query += ` WHERE principal_id = $1`
		args = append(args, principalID)
	}
	query += ` ORDER BY last_saved DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapStoreErr("list drafts", err)
	}
	defer rows.Close()

	out := []models.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapStoreErr("list drafts", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*models.Draft, error) {
	var d models.Draft
	var content []byte
	if err := row.Scan(&d.PrincipalID, &content, &d.CurrentStep, &d.Progress, &d.LastSaved); err != nil {
		return nil, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &d.Content); err != nil {
			return nil, fmt.Errorf("decode draft content: %w", err)
		}
	}
	return &d, nil
}
