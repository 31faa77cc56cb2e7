package postgresstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/postgresstore/internal/adapters"
)

// MemberStore is a PostgreSQL-backed implementation of lending.MemberStore,
// with the same compare-and-swap write semantics as BookStore.
type MemberStore struct {
	base storeBase
}

var _ lending.MemberStore = MemberStore{}

// memberRow carries the raw column values of one members row.
type memberRow struct {
	memberID string
	name     string
	version  int64
}

// NewMemberStoreFromPGXPool creates a new MemberStore using a pgxpool.Pool with optional configuration.
func NewMemberStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (MemberStore, error) {
	if db == nil {
		return MemberStore{}, lending.ErrNilDatabaseConnection
	}

	s := MemberStore{
		base: storeBase{
			db:                  adapters.NewPGXAdapter(db),
			tableName:           defaultMembersTableName,
			emptyTableNameError: lending.ErrEmptyMembersTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return MemberStore{}, err
		}
	}

	return s, nil
}

// NewMemberStoreFromPGXPoolWithReplica creates a new MemberStore with primary/replica routing.
// Writes and strongly consistent reads use the primary pool; reads running under
// lending.WithEventualConsistency are routed to the replica pool.
func NewMemberStoreFromPGXPoolWithReplica(primary, replica *pgxpool.Pool, options ...Option) (MemberStore, error) {
	if primary == nil || replica == nil {
		return MemberStore{}, lending.ErrNilDatabaseConnection
	}

	s := MemberStore{
		base: storeBase{
			db:                  adapters.NewPGXAdapterWithReplica(primary, replica),
			tableName:           defaultMembersTableName,
			emptyTableNameError: lending.ErrEmptyMembersTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return MemberStore{}, err
		}
	}

	return s, nil
}

// NewMemberStoreFromSQLDB creates a new MemberStore using a sql.DB with optional configuration.
func NewMemberStoreFromSQLDB(db *sql.DB, options ...Option) (MemberStore, error) {
	if db == nil {
		return MemberStore{}, lending.ErrNilDatabaseConnection
	}

	s := MemberStore{
		base: storeBase{
			db:                  adapters.NewSQLAdapter(db),
			tableName:           defaultMembersTableName,
			emptyTableNameError: lending.ErrEmptyMembersTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return MemberStore{}, err
		}
	}

	return s, nil
}

// NewMemberStoreFromSQLX creates a new MemberStore using a sqlx.DB with optional configuration.
func NewMemberStoreFromSQLX(db *sqlx.DB, options ...Option) (MemberStore, error) {
	if db == nil {
		return MemberStore{}, lending.ErrNilDatabaseConnection
	}

	s := MemberStore{
		base: storeBase{
			db:                  adapters.NewSQLXAdapter(db),
			tableName:           defaultMembersTableName,
			emptyTableNameError: lending.ErrEmptyMembersTableName,
		},
	}

	for _, option := range options {
		if err := option(&s.base); err != nil {
			return MemberStore{}, err
		}
	}

	return s, nil
}

// FindByID loads a single member and returns lending.ErrMemberNotFound when
// no row exists for the given id.
func (s MemberStore) FindByID(ctx context.Context, id lending.MemberIDString) (lending.Member, error) {
	ctx, span := s.base.startQuerySpan(ctx, operationFindMemberByID)

	sqlQuery, buildErr := s.buildSelectQuery(goqu.Ex{colMemberID: id})
	if buildErr != nil {
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrMemberID, id)
		s.base.recordErrorMetricsContext(ctx, operationFindMemberByID, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return lending.Member{}, buildErr
	}

	rows, duration, queryErr := s.base.executeQuery(ctx, sqlQuery, operationFindMemberByID)
	if queryErr != nil {
		s.base.finishSpanError(span, errorTypeDBQuery, duration)

		return lending.Member{}, queryErr
	}
	defer s.base.closeRows(ctx, rows)

	if !rows.Next() {
		s.base.recordDurationMetricsContext(ctx, duration, operationFindMemberByID, statusSuccess)
		s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: "0"})

		return lending.Member{}, lending.ErrMemberNotFound
	}

	member, scanErr := s.scanMemberRow(ctx, rows, operationFindMemberByID)
	if scanErr != nil {
		s.base.finishSpanError(span, errorTypeScanRow, duration)

		return lending.Member{}, scanErr
	}

	s.base.recordDurationMetricsContext(ctx, duration, operationFindMemberByID, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: "1"})

	return member, nil
}

// FindAll returns all members ordered by member id.
func (s MemberStore) FindAll(ctx context.Context) ([]lending.Member, error) {
	ctx, span := s.base.startQuerySpan(ctx, operationFindAllMembers)

	sqlQuery, buildErr := s.buildSelectQuery(nil)
	if buildErr != nil {
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr)
		s.base.recordErrorMetricsContext(ctx, operationFindAllMembers, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return nil, buildErr
	}

	rows, duration, queryErr := s.base.executeQuery(ctx, sqlQuery, operationFindAllMembers)
	if queryErr != nil {
		s.base.finishSpanError(span, errorTypeDBQuery, duration)

		return nil, queryErr
	}
	defer s.base.closeRows(ctx, rows)

	members := make([]lending.Member, 0)

	for rows.Next() {
		member, scanErr := s.scanMemberRow(ctx, rows, operationFindAllMembers)
		if scanErr != nil {
			s.base.finishSpanError(span, errorTypeScanRow, duration)

			return nil, scanErr
		}

		members = append(members, member)
	}

	s.base.logOperation(ctx, logMsgQueryCompleted,
		logAttrOperation, operationFindAllMembers,
		logAttrRowCount, len(members),
		logAttrDurationMS, toMilliseconds(duration))
	s.base.recordDurationMetricsContext(ctx, duration, operationFindAllMembers, statusSuccess)
	s.base.recordRowsReturnedMetricsContext(ctx, operationFindAllMembers, len(members))
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: fmt.Sprintf("%d", len(members))})

	return members, nil
}

// Save persists the member with compare-and-swap semantics, mirroring
// BookStore.Save. The returned copy carries the incremented version.
func (s MemberStore) Save(ctx context.Context, member lending.Member) (lending.Member, error) {
	ctx, span := s.base.startExecSpan(ctx, operationSaveMember)

	sqlQuery, buildErr := s.buildSaveQuery(member)
	if buildErr != nil {
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrMemberID, member.ID)
		s.base.recordErrorMetricsContext(ctx, operationSaveMember, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return lending.Member{}, buildErr
	}

	rowsAffected, duration, execErr := s.base.executeStatement(ctx, sqlQuery, operationSaveMember, lending.ErrSavingMemberFailed)
	if execErr != nil {
		s.base.finishSpanError(span, spanErrorTypeForWrite(execErr), duration)

		return lending.Member{}, execErr
	}

	if rowsAffected == 0 {
		s.base.logOperation(ctx, logMsgConcurrencyConflict,
			logAttrMemberID, member.ID,
			logAttrVersion, member.Version)
		s.base.recordConcurrencyConflictMetrics(ctx, operationSaveMember)
		s.base.recordDurationMetricsContext(ctx, duration, operationSaveMember, statusConflict)
		s.base.finishSpanConflict(span, duration)

		return lending.Member{}, lending.ErrConcurrencyConflict
	}

	s.base.logOperation(ctx, logMsgMemberSaved,
		logAttrMemberID, member.ID,
		logAttrVersion, member.Version+1,
		logAttrDurationMS, toMilliseconds(duration))
	s.base.recordDurationMetricsContext(ctx, duration, operationSaveMember, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected)})

	saved := member
	saved.Version = member.Version + 1

	return saved, nil
}

// Delete removes the member row. Deleting a member that is not stored is a no-op.
func (s MemberStore) Delete(ctx context.Context, member lending.Member) error {
	ctx, span := s.base.startExecSpan(ctx, operationDeleteMember)

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(s.base.tableName).
		Where(goqu.Ex{colMemberID: member.ID})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		buildErr := errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrMemberID, member.ID)
		s.base.recordErrorMetricsContext(ctx, operationDeleteMember, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return buildErr
	}

	rowsAffected, duration, execErr := s.base.executeStatement(ctx, sqlQuery, operationDeleteMember, lending.ErrDeletingMemberFailed)
	if execErr != nil {
		s.base.finishSpanError(span, spanErrorTypeForWrite(execErr), duration)

		return execErr
	}

	s.base.logOperation(ctx, logMsgMemberDeleted,
		logAttrMemberID, member.ID,
		logAttrRowsAffected, rowsAffected)
	s.base.recordDurationMetricsContext(ctx, duration, operationDeleteMember, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected)})

	return nil
}

// ExistsByID reports whether a member row exists without loading it.
func (s MemberStore) ExistsByID(ctx context.Context, id lending.MemberIDString) (bool, error) {
	ctx, span := s.base.startQuerySpan(ctx, operationMemberExists)

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.base.tableName).
		Select(goqu.V(1)).
		Where(goqu.Ex{colMemberID: id}).
		Limit(1)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		buildErr := errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
		s.base.logError(ctx, logMsgBuildQueryFailed, buildErr, logAttrMemberID, id)
		s.base.recordErrorMetricsContext(ctx, operationMemberExists, errorTypeBuildQuery)
		s.base.finishSpanError(span, errorTypeBuildQuery, 0)

		return false, buildErr
	}

	rows, duration, queryErr := s.base.executeQuery(ctx, sqlQuery, operationMemberExists)
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

	s.base.recordDurationMetricsContext(ctx, duration, operationMemberExists, statusSuccess)
	s.base.finishSpanSuccess(span, duration, map[string]string{spanAttrRowCount: rowCount})

	return exists, nil
}

// buildSelectQuery assembles the select for member rows, optionally filtered.
func (s MemberStore) buildSelectQuery(where goqu.Ex) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.base.tableName).
		Select(colMemberID, colMemberName, colVersion).
		Order(goqu.I(colMemberID).Asc())

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
// whether the member has been persisted before.
func (s MemberStore) buildSaveQuery(member lending.Member) (sqlQueryString, error) {
	if member.Version == 0 {
		return s.buildInsertQuery(member)
	}

	return s.buildUpdateQuery(member)
}

func (s MemberStore) buildInsertQuery(member lending.Member) (sqlQueryString, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.base.tableName).
		Rows(goqu.Record{
			colMemberID:   member.ID,
			colMemberName: member.Name,
			colVersion:    1,
		}).
		OnConflict(goqu.DoNothing())

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s MemberStore) buildUpdateQuery(member lending.Member) (sqlQueryString, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.base.tableName).
		Set(goqu.Record{
			colMemberName: member.Name,
			colVersion:    member.Version + 1,
		}).
		Where(goqu.Ex{
			colMemberID: member.ID,
			colVersion:  member.Version,
		})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(lending.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// scanMemberRow scans the current row and rebuilds the domain member.
func (s MemberStore) scanMemberRow(ctx context.Context, rows adapters.DBRows, operation string) (lending.Member, error) {
	row := memberRow{}

	scanErr := rows.Scan(&row.memberID, &row.name, &row.version)
	if scanErr != nil {
		s.base.logError(ctx, logMsgScanRowFailed, scanErr)
		s.base.recordErrorMetricsContext(ctx, operation, errorTypeScanRow)

		return lending.Member{}, errors.Join(lending.ErrScanningDBRowFailed, scanErr)
	}

	return lending.Member{
		ID:      row.memberID,
		Name:    row.name,
		Version: uint(row.version),
	}, nil
}
