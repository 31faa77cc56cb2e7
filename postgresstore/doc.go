// Package postgresstore provides PostgreSQL implementations of the lending
// store interfaces.
//
// The package persists books and members in plain relational tables,
// supporting multiple database adapters (pgx, sql.DB, sqlx) with optimistic
// concurrency control: every row carries a version column, and Save only
// takes effect when the version it read is still current. A lost race
// surfaces as lending.ErrConcurrencyConflict so callers can reload and retry.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Compare-and-swap writes with concurrency conflict detection
//   - Optional primary/replica routing driven by the consistency level
//     carried in the context (see lending.WithEventualConsistency)
//   - Configurable table names and dual-logger support
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	books, _ := postgresstore.NewBookStoreFromPGXPool(db)
//
//	// With operational logging (production-safe)
//	books, _ := postgresstore.NewBookStoreFromPGXPool(
//		db,
//		postgresstore.WithTableName("books"),
//		postgresstore.WithLogger(logger),
//	)
//
//	book, _ := books.FindByID(ctx, bookID)
//	saved, err := books.Save(ctx, book.WithLoan(memberID, dueDate))
package postgresstore
