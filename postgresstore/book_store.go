package postgresstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect for goqu
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/postgresstore/internal/adapters"
)

// BookStore is a PostgreSQL-backed implementation of lending.BookStore.
// Books live in a single table keyed by book id, with the reservation queue
// stored as a jsonb array and a version column guarding concurrent writes.
type BookStore struct {
	base storeBase
}

var _ lending.BookStore = BookStore{}

// bookRow carries the raw column values of one books row.
type bookRow struct {
	bookID    string
	title     string
	loanedTo  string
	dueDate   sql.NullTime
	queueJSON []byte
	version   int64
}

// NewBookStoreFromPGXPool creates a new BookStore using a pgxpool.Pool with optional configuration.
func NewBookStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, lending.ErrNilDatabaseConnection
	}

	s := BookStore{
		base: storeBase{
			db:                  adapters.NewPGXAdapter(db),
			tableName:           defaultBooksTableName,
			emptyTableNameError: lending.ErrEmptyBooksTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return BookStore{}, err
		}
	}

	return s, nil
}

// NewBookStoreFromPGXPoolWithReplica creates a new BookStore with primary/replica routing.
// Writes and strongly consistent reads use the primary pool; reads running under
// lending.WithEventualConsistency are routed to the replica pool.
func NewBookStoreFromPGXPoolWithReplica(primary, replica *pgxpool.Pool, options ...Option) (BookStore, error) {
	if primary == nil || replica == nil {
		return BookStore{}, lending.ErrNilDatabaseConnection
	}

	s := BookStore{
		base: storeBase{
			db:                  adapters.NewPGXAdapterWithReplica(primary, replica),
			tableName:           defaultBooksTableName,
			emptyTableNameError: lending.ErrEmptyBooksTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return BookStore{}, err
		}
	}

	return s, nil
}

// NewBookStoreFromSQLDB creates a new BookStore using a sql.DB with optional configuration.
func NewBookStoreFromSQLDB(db *sql.DB, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, lending.ErrNilDatabaseConnection
	}

	s := BookStore{
		base: storeBase{
			db:                  adapters.NewSQLAdapter(db),
			tableName:           defaultBooksTableName,
			emptyTableNameError: lending.ErrEmptyBooksTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return BookStore{}, err
		}
	}

	return s, nil
}

// NewBookStoreFromSQLX creates a new BookStore using a sqlx.DB with optional configuration.
func NewBookStoreFromSQLX(db *sqlx.DB, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, lending.ErrNilDatabaseConnection
	}

	s := BookStore{
		base: storeBase{
			db:                  adapters.NewSQLXAdapter(db),
			tableName:           defaultBooksTableName,
			emptyTableNameError: lending.ErrEmptyBooksTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return BookStore{}, err
		}
	}

	return s, nil
}

// FindByID loads a single book and returns lending.ErrBookNotFound when no
// row exists for the given id.
func (s BookStore) FindByID(ctx context.Context, id lending.BookIDString) (lending.Book, error) {
	ctx, span := s.base.startQuerySpan(ctx, operationFindBookByID)

	sqlQuery, buildErr := s.buildSelectQuery(goqu.Ex{colBookID: id})
	if buildErr != nil {
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrBookID, id)
		s.base.recordErrorMetricsContext(ctx, operationFindBookByID, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return lending.Book{}, buildErr
	}

	rows, duration, queryErr := s.base.executeQuery(ctx, sqlQuery, operationFindBookByID)
	if queryErr != nil {
		s.base.finishSpanError(span, errorTypeDBQuery, duration)

		return lending.Book{}, queryErr
	}
	defer s.base.closeRows(ctx, rows)

	if !rows.Next() {
		s.base.recordDurationMetricsContext(ctx, duration, operationFindBookByID, statusSuccess)
		s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: "0"})

		return lending.Book{}, lending.ErrBookNotFound
	}

	book, scanErr := s.scanBookRow(ctx, rows, operationFindBookByID)
	if scanErr != nil {
		s.base.finishSpanError(span, spanErrorTypeForRead(scanErr), duration)

		return lending.Book{}, scanErr
	}

	s.base.recordDurationMetricsContext(ctx, duration, operationFindBookByID, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: "1"})

	return book, nil
}

// FindAll returns all books ordered by book id.
func (s BookStore) FindAll(ctx context.Context) ([]lending.Book, error) {
	ctx, span := s.base.startQuerySpan(ctx, operationFindAllBooks)

	sqlQuery, buildErr := s.buildSelectQuery(nil)
	if buildErr != nil {
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr)
		s.base.recordErrorMetricsContext(ctx, operationFindAllBooks, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return nil, buildErr
	}

	rows, duration, queryErr := s.base.executeQuery(ctx, sqlQuery, operationFindAllBooks)
	if queryErr != nil {
		s.base.finishSpanError(span, errorTypeDBQuery, duration)

		return nil, queryErr
	}
	defer s.base.closeRows(ctx, rows)

	books := make([]lending.Book, 0)

	for rows.Next() {
		book, scanErr := s.scanBookRow(ctx, rows, operationFindAllBooks)
		if scanErr != nil {
			s.base.finishSpanError(span, spanErrorTypeForRead(scanErr), duration)

			return nil, scanErr
		}

		books = append(books, book)
	}

	s.base.logOperation(ctx, logMsgQueryCompleted,
		logAttrOperation, operationFindAllBooks,
		logAttrRowCount, len(books),
		logAttrDurationMS, toMilliseconds(duration))
	s.base.recordDurationMetricsContext(ctx, duration, operationFindAllBooks, statusSuccess)
	s.base.recordRowsReturnedMetricsContext(ctx, operationFindAllBooks, len(books))
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: fmt.Sprintf("%d", len(books))})

	return books, nil
}

// Save persists the book with compare-and-swap semantics. A book with
// version zero is inserted; any other version updates the row only while the
// stored version still matches. The returned copy carries the incremented
// version. Losing the race yields lending.ErrConcurrencyConflict.
func (s BookStore) Save(ctx context.Context, book lending.Book) (lending.Book, error) {
	ctx, span := s.base.startExecSpan(ctx, operationSaveBook)

	queueJSON, marshalErr := marshalQueue(book.ReservationQueue)
	if marshalErr != nil {
		s.base.logError(ctx, logMsgMarshalQueueFailed, marshalErr, logAttrBookID, book.ID)
		s.base.recordErrorMetricsContext(ctx, operationSaveBook, errorTypeMarshal)
		s.base.finishSpanError(span, errorTypeMarshal, 0)

		return lending.Book{}, errors.Join(lending.ErrMarshalingQueueFailed, marshalErr)
	}

	sqlQuery, buildErr := s.buildSaveQuery(book, queueJSON)
	if buildErr != nil {
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrBookID, book.ID)
		s.base.recordErrorMetricsContext(ctx, operationSaveBook, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return lending.Book{}, buildErr
	}

	rowsAffected, duration, execErr := s.base.executeStatement(ctx, sqlQuery, operationSaveBook, lending.ErrSavingBookFailed)
	if execErr != nil {
		s.base.finishSpanError(span, spanErrorTypeForWrite(execErr), duration)

		return lending.Book{}, execErr
	}

	if rowsAffected == 0 {
		s.base.logOperation(ctx, logMsgConcurrencyConflict,
			logAttrBookID, book.ID,
			logAttrVersion, book.Version)
		s.base.recordConcurrencyConflictMetrics(ctx, operationSaveBook)
		s.base.recordDurationMetricsContext(ctx, duration, operationSaveBook, statusConflict)
		s.base.finishSpanConflict(span, duration)

		return lending.Book{}, lending.ErrConcurrencyConflict
	}

	s.base.logOperation(ctx, logMsgBookSaved,
		logAttrBookID, book.ID,
		logAttrVersion, book.Version+1,
		logAttrDurationMS, toMilliseconds(duration))
	s.base.recordDurationMetricsContext(ctx, duration, operationSaveBook, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected)})

	saved := book
	saved.Version = book.Version + 1

	return saved, nil
}

// Delete removes the book row. Deleting a book that is not stored is a no-op.
func (s BookStore) Delete(ctx context.Context, book lending.Book) error {
	ctx, span := s.base.startExecSpan(ctx, operationDeleteBook)

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(s.base.tableName).
		Where(goqu.Ex{colBookID: book.ID})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		buildErr := errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrBookID, book.ID)
		s.base.recordErrorMetricsContext(ctx, operationDeleteBook, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return buildErr
	}

	rowsAffected, duration, execErr := s.base.executeStatement(ctx, sqlQuery, operationDeleteBook, lending.ErrDeletingBookFailed)
	if execErr != nil {
		s.base.finishSpanError(span, spanErrorTypeForWrite(execErr), duration)

		return execErr
	}

	s.base.logOperation(ctx, logMsgBookDeleted,
		logAttrBookID, book.ID,
		logAttrRowsAffected, rowsAffected)
	s.base.recordDurationMetricsContext(ctx, duration, operationDeleteBook, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected)})

	return nil
}

// ExistsByID reports whether a book row exists without loading it.
func (s BookStore) ExistsByID(ctx context.Context, id lending.BookIDString) (bool, error) {
	ctx, span := s.base.startQuerySpan(ctx, operationBookExists)

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.base.tableName).
		Select(goqu.V(1)).
		Where(goqu.Ex{colBookID: id}).
		Limit(1)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		buildErr := errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrBookID, id)
		s.base.recordErrorMetricsContext(ctx, operationBookExists, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return false, buildErr
	}

	rows, duration, queryErr := s.base.executeQuery(ctx, sqlQuery, operationBookExists)
	if queryErr != nil {
		s.base.finishSpanError(span, errorTypeDBQuery, duration)

		return false, queryErr
	}
	defer s.base.closeRows(ctx, rows)

	exists := rows.Next()

	rowCount := "0"
	if exists {
		rowCount = "1"
	}

	s.base.recordDurationMetricsContext(ctx, duration, operationBookExists, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: rowCount})

	return exists, nil
}

// CountByLoanedTo counts the books currently on loan to the given member.
// An empty member id never holds loans; the empty string marks available books.
func (s BookStore) CountByLoanedTo(ctx context.Context, memberID lending.MemberIDString) (int, error) {
	if memberID == "" {
		return 0, nil
	}

	ctx, span := s.base.startQuerySpan(ctx, operationCountLoans)

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.base.tableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.Ex{colLoanedTo: memberID})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		buildErr := errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrMemberID, memberID)
		s.base.recordErrorMetricsContext(ctx, operationCountLoans, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return 0, buildErr
	}

	rows, duration, queryErr := s.base.executeQuery(ctx, sqlQuery, operationCountLoans)
	if queryErr != nil {
		s.base.finishSpanError(span, errorTypeDBQuery, duration)

		return 0, queryErr
	}
	defer s.base.closeRows(ctx, rows)

	count := 0

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			s.base.logError(ctx, logMsgScanRowFailed, scanErr, logAttrMemberID, memberID)
			s.base.recordErrorMetricsContext(ctx, operationCountLoans, errorTypeScanRow)
			s.base.finishSpanError(span, errorTypeScanRow, duration)

			return 0, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
		}
	}

	s.base.recordDurationMetricsContext(ctx, duration, operationCountLoans, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: fmt.Sprintf("%d", count)})

	return count, nil
}

// buildSelectQuery assembles the select for book rows, optionally filtered.
// A nil filter selects every row, ordered by book id for stable results.
func (s BookStore) buildSelectQuery(where goqu.Ex) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.base.tableName).
		Select(colBookID, colTitle, colLoanedTo, colDueDate, colReservationQueue, colVersion).
		Order(goqu.I(colBookID).Asc())

	if where != nil {
		selectStmt = selectStmt.Where(where)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildSaveQuery picks the insert or the compare-and-swap update depending on
// whether the book has been persisted before.
func (s BookStore) buildSaveQuery(book lending.Book, queueJSON []byte) (sqlQueryString, error) {
	if book.Version == 0 {
		return s.buildInsertQuery(book, queueJSON)
	}

	return s.buildUpdateQuery(book, queueJSON)
}

// buildInsertQuery inserts a fresh book at version one. ON CONFLICT DO NOTHING
// turns a duplicate insert into zero affected rows, which Save reports as a
// concurrency conflict.
func (s BookStore) buildInsertQuery(book lending.Book, queueJSON []byte) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.base.tableName).
		Rows(goqu.Record{
			colBookID:           book.ID,
			colTitle:            book.Title,
			colLoanedTo:         book.LoanedTo,
			colDueDate:          dueDateValue(book),
			colReservationQueue: goqu.L(castJsonb, string(queueJSON)),
			colVersion:          1,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildUpdateQuery updates the row only while the stored version still equals
// the version the caller read. A lost race affects zero rows.
func (s BookStore) buildUpdateQuery(book lending.Book, queueJSON []byte) (sqlQueryString, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.base.tableName).
		Set(goqu.Record{
			colTitle:            book.Title,
			colLoanedTo:         book.LoanedTo,
			colDueDate:          dueDateValue(book),
			colReservationQueue: goqu.L(castJsonb, string(queueJSON)),
			colVersion:          book.Version + 1,
		}).
		Where(goqu.Ex{
			colBookID:  book.ID,
			colVersion: book.Version,
		})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// scanBookRow scans the current row and rebuilds the domain book, including
// the reservation queue from its jsonb column.
func (s BookStore) scanBookRow(ctx context.Context, rows adapters.DBRows, operation string) (lending.Book, error) {
	row := bookRow{}

	scanErr := rows.Scan(&row.bookID, &row.title, &row.loanedTo, &row.dueDate, &row.queueJSON, &row.version)
	if scanErr != nil {
		s.base.logError(ctx, logMsgScanRowFailed, scanErr)
		s.base.recordErrorMetricsContext(ctx, operation, errorTypeScanRow)

		return lending.Book{}, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
	}

	var queue []lending.MemberIDString

	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(row.queueJSON, &queue); unmarshalErr != nil {
		s.base.logError(ctx, logMsgUnmarshalQueueFailed, unmarshalErr, logAttrBookID, row.bookID)
		s.base.recordErrorMetricsContext(ctx, operation, errorTypeUnmarshal)

		return lending.Book{}, errors.Join(lending.ErrUnmarshalingQueueFailed, unmarshalErr)
	}

	if len(queue) == 0 {
		queue = nil
	}

	book := lending.Book{
		ID:               row.bookID,
		Title:            row.title,
		LoanedTo:         row.loanedTo,
		ReservationQueue: queue,
		Version:          uint(row.version),
	}

	if row.dueDate.Valid {
		book.DueDate = lending.ToLibraryDate(row.dueDate.Time)
	}

	return book, nil
}

// marshalQueue serializes the reservation queue, normalizing a nil queue to
// an empty JSON array so the jsonb column never stores null.
func marshalQueue(queue []lending.MemberIDString) ([]byte, error) {
	if queue == nil {
		queue = []lending.MemberIDString{}
	}

	return json.Marshal(queue)
}

// dueDateValue maps the zero time to SQL NULL so available books carry no due date.
func dueDateValue(book lending.Book) any {
	if book.DueDate.IsZero() {
		return nil
	}

	return book.DueDate
}
