package lending

import (
	"context"
)

// BookStore is the storage port for books. FindByID reports a missing book
// with ErrBookNotFound. Save performs an optimistic-concurrency upsert: it
// persists the book when the stored version still equals book.Version,
// returns the stored value with its incremented version, and fails with
// ErrConcurrencyConflict when another writer got there first.
//
// Feature slices declare narrow consumer-side interfaces covering only the
// methods they use; this is the canonical interface the store
// implementations satisfy.
type BookStore interface {
	FindByID(ctx context.Context, id BookIDString) (Book, error)
	FindAll(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, book Book) (Book, error)
	Delete(ctx context.Context, book Book) error
	ExistsByID(ctx context.Context, id BookIDString) (bool, error)
	CountByLoanedTo(ctx context.Context, memberID MemberIDString) (int, error)
}

// MemberStore is the storage port for members, with the same FindByID and
// Save semantics as BookStore (ErrMemberNotFound, ErrConcurrencyConflict).
type MemberStore interface {
	FindByID(ctx context.Context, id MemberIDString) (Member, error)
	FindAll(ctx context.Context) ([]Member, error)
	Save(ctx context.Context, member Member) (Member, error)
	Delete(ctx context.Context, member Member) error
	ExistsByID(ctx context.Context, id MemberIDString) (bool, error)
}
