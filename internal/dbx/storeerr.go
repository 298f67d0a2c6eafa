package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
)

// WrapStoreErr tags connectivity-class failures with
// common.ErrStoreUnavailable so read paths can degrade to their in-memory
// fallback. Everything else keeps its original chain.
func WrapStoreErr(op string, err error) error {
	if IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", op, common.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsUnavailable reports whether err means the store could not be reached.
// database/sql retries driver.ErrBadConn internally and never returns it
// raw, so the check matches what actually escapes the pool: a closed pool
// connection, a pgx connect failure, an expired deadline or a network
// error.
func IsUnavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
