package postgresstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/librarykit/lending-policy-go/lending"
)

// Metric names exposed through the MetricsCollector interface.
const (
	metricOperationDuration    = "lendingstore_operation_duration_seconds"
	metricDatabaseErrors       = "lendingstore_database_errors_total"
	metricConcurrencyConflicts = "lendingstore_concurrency_conflicts_total"
	metricRowsReturned         = "lendingstore_rows_returned"
)

// Span names and attribute keys exposed through the TracingCollector interface.
const (
	spanNameQuery = "lendingstore.query"
	spanNameExec  = "lendingstore.exec"

	spanAttrOperation    = "operation"
	spanAttrTableName    = "table_name"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"
	spanAttrRowsAffected = "rows_affected"
	spanAttrRowCount     = "row_count"
	spanAttrConflictType = "conflict_type"
)

// Status label values shared by metrics and spans.
const (
	statusSuccess  = "success"
	statusError    = "error"
	statusConflict = "conflict"
)

// Error type label values for the database error metric and span attributes.
const (
	errorTypeBuildQuery   = "build_query"
	errorTypeDBQuery      = "db_query"
	errorTypeDBExec       = "db_exec"
	errorTypeScanRow      = "scan_row"
	errorTypeRowsAffected = "rows_affected"
	errorTypeMarshal      = "marshal_queue"
	errorTypeUnmarshal    = "unmarshal_queue"

	conflictTypeConcurrency = "concurrency"
)

// Operation label values, one per store operation.
const (
	operationFindBookByID   = "find_book_by_id"
	operationFindAllBooks   = "find_all_books"
	operationSaveBook       = "save_book"
	operationDeleteBook     = "delete_book"
	operationBookExists     = "book_exists"
	operationCountLoans     = "count_loans_by_member"
	operationFindMemberByID = "find_member_by_id"
	operationFindAllMembers = "find_all_members"
	operationSaveMember     = "save_member"
	operationDeleteMember   = "delete_member"
	operationMemberExists   = "member_exists"
)

// Log messages and attribute keys.
const (
	logMsgSQLExecuted          = "sql executed"
	logMsgDBQueryFailed        = "executing sql query failed"
	logMsgDBExecFailed         = "executing sql statement failed"
	logMsgBuildQueryFailed     = "building sql query failed"
	logMsgScanRowFailed        = "scanning database row failed"
	logMsgRowsAffectedFailed   = "getting rows affected failed"
	logMsgCloseRowsFailed      = "closing database rows failed"
	logMsgMarshalQueueFailed   = "marshaling reservation queue failed"
	logMsgUnmarshalQueueFailed = "unmarshaling reservation queue failed"
	logMsgConcurrencyConflict  = "concurrency conflict detected"
	logMsgQueryCompleted       = "query completed"
	logMsgBookSaved            = "book saved"
	logMsgBookDeleted          = "book deleted"
	logMsgMemberSaved          = "member saved"
	logMsgMemberDeleted        = "member deleted"

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrOperation    = "operation"
	logAttrDurationMS   = "duration_ms"
	logAttrRowsAffected = "rows_affected"
	logAttrRowCount     = "row_count"
	logAttrBookID       = "book_id"
	logAttrMemberID     = "member_id"
	logAttrVersion      = "version"
)

// spanErrorTypeForRead maps a failure from the row-scanning phase to its span error type.
func spanErrorTypeForRead(err error) string {
	if errors.Is(err, lending.ErrUnmarshalingQueueFailed) {
		return errorTypeUnmarshal
	}

	return errorTypeScanRow
}

// spanErrorTypeForWrite maps a failure from the statement-execution phase to its span error type.
func spanErrorTypeForWrite(err error) string {
	if errors.Is(err, lending.ErrGettingRowsAffectedFailed) {
		return errorTypeRowsAffected
	}

	return errorTypeDBExec
}

// logQueryWithDuration logs SQL queries with execution time at debug level.
// The contextual logger wins when both loggers are configured, so trace
// correlation is preserved without duplicating log lines.
func (sb storeBase) logQueryWithDuration(
	ctx context.Context,
	sqlQuery sqlQueryString,
	operation string,
	duration queryDuration,
) {

	if sb.contextualLogger != nil {
		sb.contextualLogger.DebugContext(ctx, logMsgSQLExecuted,
			logAttrOperation, operation, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	} else if sb.logger != nil {
		sb.logger.Debug(logMsgSQLExecuted,
			logAttrOperation, operation, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level.
func (sb storeBase) logOperation(ctx context.Context, msg string, args ...any) {
	if sb.contextualLogger != nil {
		sb.contextualLogger.InfoContext(ctx, msg, args...)
	} else if sb.logger != nil {
		sb.logger.Info(msg, args...)
	}
}

// logError logs error information at the error level.
func (sb storeBase) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if sb.contextualLogger != nil {
		sb.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	} else if sb.logger != nil {
		sb.logger.Error(msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetricsContext records operation duration with context if the collector supports it.
func (sb storeBase) recordDurationMetricsContext(
	ctx context.Context,
	duration queryDuration,
	operation, status string,
) {

	if sb.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		if contextualCollector, ok := sb.metricsCollector.(lending.ContextualMetricsCollector); ok {
			contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		} else {
			sb.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
		}
	}
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (sb storeBase) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if sb.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}

		if contextualCollector, ok := sb.metricsCollector.(lending.ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		} else {
			sb.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
		}
	}
}

// recordRowsReturnedMetricsContext records how many rows a read operation produced.
func (sb storeBase) recordRowsReturnedMetricsContext(ctx context.Context, operation string, rowCount int) {
	if sb.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusSuccess,
		}

		if contextualCollector, ok := sb.metricsCollector.(lending.ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, metricRowsReturned, float64(rowCount), labels)
		} else {
			sb.metricsCollector.RecordValue(metricRowsReturned, float64(rowCount), labels)
		}
	}
}

// recordConcurrencyConflictMetrics records concurrency conflict metrics if the collector is configured.
func (sb storeBase) recordConcurrencyConflictMetrics(ctx context.Context, operation string) {
	if sb.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation:    operation,
			spanAttrConflictType: conflictTypeConcurrency,
		}

		if contextualCollector, ok := sb.metricsCollector.(lending.ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricConcurrencyConflicts, labels)
		} else {
			sb.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
		}
	}
}

// startQuerySpan starts a tracing span for read operations.
func (sb storeBase) startQuerySpan(ctx context.Context, operation string) (context.Context, lending.SpanContext) {
	return sb.startTraceSpan(ctx, spanNameQuery, operation)
}

// startExecSpan starts a tracing span for write operations.
func (sb storeBase) startExecSpan(ctx context.Context, operation string) (context.Context, lending.SpanContext) {
	return sb.startTraceSpan(ctx, spanNameExec, operation)
}

func (sb storeBase) startTraceSpan(ctx context.Context, spanName, operation string) (context.Context, lending.SpanContext) {
	if sb.tracingCollector != nil {
		spanAttrs := map[string]string{
			spanAttrOperation: operation,
			spanAttrTableName: sb.tableName,
		}

		return sb.tracingCollector.StartSpan(ctx, spanName, spanAttrs)
	}

	return ctx, nil
}

// finishSpanSuccess finishes a span with success status and the given attributes.
func (sb storeBase) finishSpanSuccess(span lending.SpanContext, duration queryDuration, attrs map[string]string) {
	if sb.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	for key, value := range attrs {
		span.AddAttribute(key, value)
	}

	sb.tracingCollector.FinishSpan(span, statusSuccess, attrs)
}

// finishSpanError finishes a span with error details.
func (sb storeBase) finishSpanError(span lending.SpanContext, errorType string, duration queryDuration) {
	if sb.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)
	span.AddAttribute(spanAttrErrorType, errorType)
	if duration > 0 {
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
	}

	sb.tracingCollector.FinishSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// finishSpanConflict finishes a span for a write that lost the optimistic concurrency race.
func (sb storeBase) finishSpanConflict(span lending.SpanContext, duration queryDuration) {
	if sb.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusConflict)
	span.AddAttribute(spanAttrConflictType, conflictTypeConcurrency)
	span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))

	sb.tracingCollector.FinishSpan(span, statusConflict, map[string]string{spanAttrConflictType: conflictTypeConcurrency})
}
