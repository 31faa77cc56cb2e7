package lending

import (
	"errors"
)

var ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

var (
	// ErrBookNotFound is returned by FindByID when no book with the given id is stored.
	ErrBookNotFound = errors.New("book not found")

	// ErrMemberNotFound is returned by FindByID when no member with the given id is stored.
	ErrMemberNotFound = errors.New("member not found")
)

var (
	// ErrNilDatabaseConnection is returned when a store factory receives a nil database handle.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyBooksTableName is returned when a books store is configured with an empty table name.
	ErrEmptyBooksTableName = errors.New("empty booksTableName supplied")

	// ErrEmptyMembersTableName is returned when a members store is configured with an empty table name.
	ErrEmptyMembersTableName = errors.New("empty membersTableName supplied")

	// ErrBuildingQueryFailed is returned when assembling a SQL statement fails.
	ErrBuildingQueryFailed = errors.New("building the query failed")

	// ErrQueryingStoreFailed is returned when executing a read against the store fails.
	ErrQueryingStoreFailed = errors.New("querying the store failed")

	// ErrScanningDBRowFailed is returned when a result row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning the db row failed")

	// ErrGettingRowsAffectedFailed is returned when the affected row count cannot be read.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrSavingBookFailed is returned when persisting a book fails for reasons other than a concurrency conflict.
	ErrSavingBookFailed = errors.New("saving the book failed")

	// ErrSavingMemberFailed is returned when persisting a member fails for reasons other than a concurrency conflict.
	ErrSavingMemberFailed = errors.New("saving the member failed")

	// ErrDeletingBookFailed is returned when deleting a book fails.
	ErrDeletingBookFailed = errors.New("deleting the book failed")

	// ErrDeletingMemberFailed is returned when deleting a member fails.
	ErrDeletingMemberFailed = errors.New("deleting the member failed")

	// ErrMarshalingQueueFailed is returned when a reservation queue cannot be serialized.
	ErrMarshalingQueueFailed = errors.New("marshaling the reservation queue failed")

	// ErrUnmarshalingQueueFailed is returned when a stored reservation queue cannot be deserialized.
	ErrUnmarshalingQueueFailed = errors.New("unmarshaling the reservation queue failed")
)
