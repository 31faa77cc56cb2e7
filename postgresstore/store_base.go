package postgresstore

import (
	"context"
	"errors"
	"time"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/postgresstore/internal/adapters"
)

const (
	defaultBooksTableName   = "books"
	defaultMembersTableName = "members"

	dialectPostgres = "postgres"

	colBookID           = "book_id"
	colTitle            = "title"
	colLoanedTo         = "loaned_to"
	colDueDate          = "due_date"
	colReservationQueue = "reservation_queue"
	colMemberID         = "member_id"
	colMemberName       = "name"
	colVersion          = "version"

	castJsonb = "?::jsonb"
)

// Type aliases for descriptive signatures of internal methods.
type sqlQueryString = string
type rowsAffectedInt64 = int64
type queryDuration = time.Duration

// storeBase carries the adapter, the table name, and the observability
// dependencies shared by BookStore and MemberStore. Each store sets
// emptyTableNameError to its own sentinel so WithTableName("") reports
// which store was misconfigured.
type storeBase struct {
	db                  adapters.DBAdapter
	tableName           string
	emptyTableNameError error
	logger              lending.Logger
	metricsCollector    lending.MetricsCollector
	tracingCollector    lending.TracingCollector
	contextualLogger    lending.ContextualLogger
}

// executeQuery executes the SQL query and returns rows with timing information.
func (sb storeBase) executeQuery(ctx context.Context, sqlQuery sqlQueryString, operation string) (
	adapters.DBRows,
	queryDuration,
	error,
) {

	start := time.Now()
	rows, queryErr := sb.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	sb.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if queryErr != nil {
		sb.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		sb.recordErrorMetricsContext(ctx, operation, errorTypeDBQuery)

		return nil, duration, errors.Join(lending.ErrQueryingStoreFailed, queryErr)
	}

	return rows, duration, nil
}

// executeStatement executes the SQL statement and returns rows affected and duration.
// Statement failures are wrapped in the supplied sentinel so callers keep their
// operation-specific error identity.
func (sb storeBase) executeStatement(
	ctx context.Context,
	sqlQuery sqlQueryString,
	operation string,
	failure error,
) (rowsAffectedInt64, queryDuration, error) {

	start := time.Now()
	result, execErr := sb.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	sb.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		sb.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		sb.recordErrorMetricsContext(ctx, operation, errorTypeDBExec)

		return 0, duration, errors.Join(failure, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		sb.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		sb.recordErrorMetricsContext(ctx, operation, errorTypeRowsAffected)

		return 0, duration, errors.Join(lending.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (sb storeBase) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if sb.contextualLogger != nil {
			sb.contextualLogger.WarnContext(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		} else if sb.logger != nil {
			sb.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}
