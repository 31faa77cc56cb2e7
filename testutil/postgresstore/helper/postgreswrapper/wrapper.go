package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/librarykit/lending-policy-go/postgresstore"
	"github.com/librarykit/lending-policy-go/testutil/postgresstore/config"
)

// Adapter type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS books (
    book_id           TEXT PRIMARY KEY,
    title             TEXT NOT NULL,
    loaned_to         TEXT NULL,
    due_date          DATE NULL,
    reservation_queue JSONB NOT NULL DEFAULT '[]'::JSONB,
    version           BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_books_loaned_to ON books (loaned_to) WHERE loaned_to IS NOT NULL;

CREATE TABLE IF NOT EXISTS members (
    member_id TEXT PRIMARY KEY,
    name      TEXT NOT NULL,
    version   BIGINT NOT NULL
);`

// Wrapper interface to abstract over different adapter types
type Wrapper interface {
	GetBookStore() postgresstore.BookStore
	GetMemberStore() postgresstore.MemberStore
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool        *pgxpool.Pool
	bookStore   postgresstore.BookStore
	memberStore postgresstore.MemberStore
}

func (w *PGXPoolWrapper) GetBookStore() postgresstore.BookStore {
	return w.bookStore
}

func (w *PGXPoolWrapper) GetMemberStore() postgresstore.MemberStore {
	return w.memberStore
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db          *sql.DB
	bookStore   postgresstore.BookStore
	memberStore postgresstore.MemberStore
}

func (w *SQLDBWrapper) GetBookStore() postgresstore.BookStore {
	return w.bookStore
}

func (w *SQLDBWrapper) GetMemberStore() postgresstore.MemberStore {
	return w.memberStore
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db          *sqlx.DB
	bookStore   postgresstore.BookStore
	memberStore postgresstore.MemberStore
}

func (w *SQLXWrapper) GetBookStore() postgresstore.BookStore {
	return w.bookStore
}

func (w *SQLXWrapper) GetMemberStore() postgresstore.MemberStore {
	return w.memberStore
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the
// ADAPTER_TYPE environment variable and provisions the books and members
// tables when they do not exist yet.
func CreateWrapperWithTestConfig(t testing.TB) Wrapper {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolSingleConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")

		_, err = connPool.Exec(context.Background(), createTablesSQL)
		assert.NoError(t, err, "error provisioning tables in test setup")

		bookStore, err := postgresstore.NewBookStoreFromPGXPool(connPool)
		assert.NoError(t, err, "error creating book store")

		memberStore, err := postgresstore.NewMemberStoreFromPGXPool(connPool)
		assert.NoError(t, err, "error creating member store")

		return &PGXPoolWrapper{pool: connPool, bookStore: bookStore, memberStore: memberStore}

	case typeSQLDB:
		db := config.PostgresSQLDBSingleConfig()

		_, err := db.Exec(createTablesSQL)
		assert.NoError(t, err, "error provisioning tables in test setup")

		bookStore, err := postgresstore.NewBookStoreFromSQLDB(db)
		assert.NoError(t, err, "error creating book store")

		memberStore, err := postgresstore.NewMemberStoreFromSQLDB(db)
		assert.NoError(t, err, "error creating member store")

		return &SQLDBWrapper{db: db, bookStore: bookStore, memberStore: memberStore}

	case typeSQLXDB:
		db := config.PostgresSQLXSingleConfig()

		_, err := db.Exec(createTablesSQL)
		assert.NoError(t, err, "error provisioning tables in test setup")

		bookStore, err := postgresstore.NewBookStoreFromSQLX(db)
		assert.NoError(t, err, "error creating book store")

		memberStore, err := postgresstore.NewMemberStoreFromSQLX(db)
		assert.NoError(t, err, "error creating member store")

		return &SQLXWrapper{db: db, bookStore: bookStore, memberStore: memberStore}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// TryCreateBookStoreWithTableName tries to create a book store with the given
// table name and returns the error (for testing error cases).
func TryCreateBookStoreWithTableName(t testing.TB, tableName string) error {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	var options []postgresstore.Option
	if tableName != "books" {
		options = append(options, postgresstore.WithTableName(tableName))
	}

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolSingleConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")
		defer connPool.Close()

		_, err = postgresstore.NewBookStoreFromPGXPool(connPool, options...)
		return err

	case typeSQLDB:
		db := config.PostgresSQLDBSingleConfig()
		defer func(db *sql.DB) {
			_ = db.Close() // makes no sense to handle this
		}(db)

		_, err := postgresstore.NewBookStoreFromSQLDB(db, options...)
		return err

	case typeSQLXDB:
		db := config.PostgresSQLXSingleConfig()
		defer func(db *sqlx.DB) {
			_ = db.Close() // makes no sense to handle this
		}(db)

		_, err := postgresstore.NewBookStoreFromSQLX(db, options...)
		return err

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterTypeFromEnv))
	}
}

// CleanUp truncates the books and members tables for the given wrapper.
func CleanUp(t testing.TB, wrapper Wrapper) {
	const truncateSQL = "TRUNCATE TABLE books, members"

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err := w.pool.Exec(context.Background(), truncateSQL)
		assert.NoError(t, err, "error cleaning up the lending tables")

	case *SQLDBWrapper:
		_, err := w.db.Exec(truncateSQL)
		assert.NoError(t, err, "error cleaning up the lending tables")

	case *SQLXWrapper:
		_, err := w.db.Exec(truncateSQL)
		assert.NoError(t, err, "error cleaning up the lending tables")

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}
}
