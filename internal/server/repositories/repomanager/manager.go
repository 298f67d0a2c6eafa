package repomanager

import (
	"context"
	"database/sql"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/dbx"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/drafts"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/resources"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/repositories/surveys"
)

// RepositoryManager vends store-backed repositories bound to a DBTX, so
// services can run several repositories inside one transaction.
type RepositoryManager interface {
	Resources(db dbx.DBTX) resources.Repository
	Surveys(db dbx.DBTX) surveys.Repository
	Drafts(db dbx.DBTX) drafts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
