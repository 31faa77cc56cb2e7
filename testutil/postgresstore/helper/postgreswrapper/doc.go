// Package postgreswrapper provides database wrappers for testing the
// PostgreSQL lending stores across different adapters.
//
// The wrappers abstract over pgx.Pool, sql.DB, and sqlx.DB connections,
// selected via the ADAPTER_TYPE environment variable, so the same
// integration tests exercise every supported adapter. Creating a wrapper
// also provisions the books and members tables when they do not exist yet.
//
// This is testing infrastructure - not production domain code.
package postgreswrapper
