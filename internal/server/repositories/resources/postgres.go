// Package resources provides the resource catalogue data sources: a
// PostgreSQL-backed repository that translates filter criteria into native
// SQL, and an in-memory repository running the same pipeline locally.
package resources

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/dbx"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/models"
)

const resourceColumns = `id, title, description, type, status, access_level,
	file_format, file_size, file_name, file_url, thumbnail_url,
	upload_date, publication_date, last_modified,
	partner_id, partner_name, project_id, project_name,
	tags, keywords, author,
	download_count, view_count, is_favorited, rating`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Query translates the filter criteria into a native WHERE clause, the sort
// key into ORDER BY, and pagination into LIMIT/OFFSET. Relevance sort
// degrades to date-descending on this path: cross-field text ranking is not
// assumed available in the store.
func (r *PostgresRepository) Query(ctx context.Context, filters models.ResourceFilters, page, pageSize int) (*models.ResourcePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	where, args := buildWhere(&filters)

	var total int
	countQuery := `SELECT COUNT(*) FROM resources` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, dbx.WrapStoreErr("count resources", err)
	}

	query := `SELECT ` + resourceColumns + ` FROM resources` + where +
		orderBy(filters.SortBy, filters.SortOrder) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.WrapStoreErr("select resources", err)
	}
	defer rows.Close()

	items := []models.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		items = append(items, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapStoreErr("select resources", err)
	}

	return &models.ResourcePage{
		Resources:  items,
		Pagination: NewPagination(page, pageSize, total),
		Filters:    filters,
	}, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, dbx.WrapStoreErr("get resource", err)
	}
	return res, nil
}

func (r *PostgresRepository) All(ctx context.Context) ([]models.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+resourceColumns+` FROM resources ORDER BY upload_date DESC, id`)
	if err != nil {
		return nil, dbx.WrapStoreErr("select all resources", err)
	}
	defer rows.Close()

	items := []models.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		items = append(items, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapStoreErr("select all resources", err)
	}
	return items, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, res *models.Resource) error {
	tags, keywords, err := marshalLists(res)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO resources (` + resourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`
	_, err = r.db.ExecContext(ctx, query,
		res.ID, res.Title, res.Description, res.Type, res.Status, res.AccessLevel,
		res.FileFormat, res.FileSize, res.FileName, res.FileURL, nullString(res.ThumbnailURL),
		res.UploadDate, nullTime(res.PublicationDate), res.LastModified,
		res.PartnerID, res.Partner.Name, nullString(res.ProjectID), nullString(projectName(res)),
		tags, keywords, res.Author,
		res.DownloadCount, res.ViewCount, res.IsFavorited, res.Rating,
	)
	if err != nil {
		return dbx.WrapStoreErr("insert resource", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, res *models.Resource) error {
	tags, keywords, err := marshalLists(res)
	if err != nil {
		return err
	}
	query := `
		UPDATE resources SET
			title = $2, description = $3, type = $4, status = $5, access_level = $6,
			file_format = $7, file_size = $8, file_name = $9, file_url = $10, thumbnail_url = $11,
			publication_date = $12, last_modified = $13,
			partner_id = $14, partner_name = $15, project_id = $16, project_name = $17,
			tags = $18, keywords = $19, author = $20, rating = $21
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		res.ID, res.Title, res.Description, res.Type, res.Status, res.AccessLevel,
		res.FileFormat, res.FileSize, res.FileName, res.FileURL, nullString(res.ThumbnailURL),
		nullTime(res.PublicationDate), res.LastModified,
		res.PartnerID, res.Partner.Name, nullString(res.ProjectID), nullString(projectName(res)),
		tags, keywords, res.Author, res.Rating,
	)
	if err != nil {
		return dbx.WrapStoreErr("update resource", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapStoreErr("delete resource", err)
	}
	return requireRow(result)
}

// IncrementView bumps the view counter atomically at the store level so
// concurrent callers never lose updates.
func (r *PostgresRepository) IncrementView(ctx context.Context, id string) error {
	return r.bump(ctx, `UPDATE resources SET view_count = view_count + 1, last_modified = $2 WHERE id = $1`, id)
}

func (r *PostgresRepository) IncrementDownload(ctx context.Context, id string) error {
	return r.bump(ctx, `UPDATE resources SET download_count = download_count + 1, last_modified = $2 WHERE id = $1`, id)
}

func (r *PostgresRepository) bump(ctx context.Context, query, id string) error {
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return dbx.WrapStoreErr("increment counter", err)
	}
	return requireRow(result)
}

func (r *PostgresRepository) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var state bool
	err := r.db.QueryRowContext(ctx,
		`UPDATE resources SET is_favorited = NOT is_favorited, last_modified = $2 WHERE id = $1 RETURNING is_favorited`,
		id, time.Now()).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return false, common.ErrNotFound
	}
	if err != nil {
		return false, dbx.WrapStoreErr("toggle favorite", err)
	}
	return state, nil
}

func (r *PostgresRepository) Rate(ctx context.Context, id string, rating int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE resources SET rating = $2, last_modified = $3 WHERE id = $1`, id, rating, time.Now())
	if err != nil {
		return dbx.WrapStoreErr("rate resource", err)
	}
	return requireRow(result)
}

// Stats aggregates catalogue totals with native GROUP BY and SUM.
func (r *PostgresRepository) Stats(ctx context.Context) (*models.ResourceStats, error) {
	stats := &models.ResourceStats{
		ByType:   map[string]int{},
		ByStatus: map[string]int{},
	}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(download_count), 0), COALESCE(SUM(view_count), 0) FROM resources`).
		Scan(&stats.TotalResources, &stats.TotalDownloads, &stats.TotalViews)
	if err != nil {
		return nil, dbx.WrapStoreErr("resource totals", err)
	}

	if err := r.groupCount(ctx, `SELECT type, COUNT(*) FROM resources GROUP BY type`, stats.ByType); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM resources GROUP BY status`, stats.ByStatus); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY download_count DESC, id LIMIT 1`)
	top, err := scanResource(row)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, dbx.WrapStoreErr("most downloaded", err)
	}
	if err == nil {
		stats.MostDownloaded = top
	}
	return stats, nil
}

func (r *PostgresRepository) groupCount(ctx context.Context, query string, into map[string]int) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return dbx.WrapStoreErr("group count", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan group count: %w", err)
		}
		into[key] = n
	}
	return rows.Err()
}

// buildWhere translates active filter criteria into SQL conditions with the
// same semantics as the in-memory predicates: criteria AND-combined, values
// inside one criterion OR-combined, substring matches case-insensitive.
func buildWhere(f *models.ResourceFilters) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf(`(title ILIKE %[1]s
			OR description ILIKE %[1]s
			OR partner_name ILIKE %[1]s
			OR project_name ILIKE %[1]s
			OR author ILIKE %[1]s
			OR EXISTS (SELECT 1 FROM jsonb_array_elements(tags) tag WHERE tag->>'name' ILIKE %[1]s)
			OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(keywords) kw WHERE kw ILIKE %[1]s))`, p))
	}

	membership := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		ph := make([]string, len(values))
		for i, v := range values {
			ph[i] = arg(v)
		}
		conds = append(conds, fmt.Sprintf("%s IN (%s)", column, strings.Join(ph, ", ")))
	}
	membership("type", f.Types)
	membership("partner_id", f.PartnerIDs)
	membership("project_id", f.ProjectIDs)
	membership("status", f.Statuses)
	membership("access_level", f.AccessLevels)
	membership("file_format", f.FileFormats)

	if len(f.Tags) > 0 {
		ph := make([]string, len(f.Tags))
		for i, v := range f.Tags {
			ph[i] = arg(v)
		}
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(tags) tag WHERE tag->>'name' IN (%s))`,
			strings.Join(ph, ", ")))
	}

	if !f.DateRange.IsZero() {
		column := "upload_date"
		if f.DateRange.Field == "publicationDate" {
			column = "COALESCE(publication_date, upload_date)"
		}
		if !f.DateRange.From.IsZero() {
			conds = append(conds, column+" >= "+arg(f.DateRange.From))
		}
		if !f.DateRange.To.IsZero() {
			conds = append(conds, column+" <= "+arg(f.DateRange.To))
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(sortBy, sortOrder string) string {
	dir := "DESC"
	if sortOrder == OrderAsc {
		dir = "ASC"
	}
	switch sortBy {
	case SortByTitle:
		return " ORDER BY LOWER(title) " + dir + ", upload_date DESC, id"
	case SortBySize:
		return " ORDER BY file_size " + dir + ", upload_date DESC, id"
	case SortByDownloads:
		return " ORDER BY download_count " + dir + ", upload_date DESC, id"
	case SortByRelevance:
		// Title-boost ranking is an in-memory feature only.
		return " ORDER BY upload_date DESC, id"
	default:
		return " ORDER BY upload_date " + dir + ", id"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*models.Resource, error) {
	var res models.Resource
	var description, thumbnail, projectID, projectNameVal, author sql.NullString
	var publicationDate sql.NullTime
	var tagsRaw, keywordsRaw []byte

	err := row.Scan(
		&res.ID, &res.Title, &description, &res.Type, &res.Status, &res.AccessLevel,
		&res.FileFormat, &res.FileSize, &res.FileName, &res.FileURL, &thumbnail,
		&res.UploadDate, &publicationDate, &res.LastModified,
		&res.PartnerID, &res.Partner.Name, &projectID, &projectNameVal,
		&tagsRaw, &keywordsRaw, &author,
		&res.DownloadCount, &res.ViewCount, &res.IsFavorited, &res.Rating,
	)
	if err != nil {
		return nil, err
	}

	res.Description = description.String
	res.ThumbnailURL = thumbnail.String
	res.Author = author.String
	res.Partner.ID = res.PartnerID
	if publicationDate.Valid {
		t := publicationDate.Time
		res.PublicationDate = &t
	}
	if projectID.Valid && projectID.String != "" {
		res.ProjectID = projectID.String
		res.Project = &models.Project{ID: projectID.String, Name: projectNameVal.String}
	}
	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &res.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if len(keywordsRaw) > 0 {
		if err := json.Unmarshal(keywordsRaw, &res.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords: %w", err)
		}
	}
	return &res, nil
}

func marshalLists(res *models.Resource) ([]byte, []byte, error) {
	tags := res.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	keywords := res.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	tagsRaw, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, fmt.Errorf("encode tags: %w", err)
	}
	keywordsRaw, err := json.Marshal(keywords)
	if err != nil {
		return nil, nil, fmt.Errorf("encode keywords: %w", err)
	}
	return tagsRaw, keywordsRaw, nil
}

func projectName(res *models.Resource) string {
	if res.Project != nil {
		return res.Project.Name
	}
	return ""
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
