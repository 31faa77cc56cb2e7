package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarykit/lending-policy-go/lending"
)

const (
	fixtureBookTitle  = "Learning Domain-Driven Design"
	fixtureMemberName = "Vera Reader"
)

// GivenUniqueID generates a unique ID for testing.
func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id.String()
}

// FixtureBook creates an available book with a well-known title.
func FixtureBook(bookID lending.BookIDString) lending.Book {
	return lending.BuildBook(bookID, fixtureBookTitle)
}

// FixtureMember creates a member with a well-known name.
func FixtureMember(memberID lending.MemberIDString) lending.Member {
	return lending.BuildMember(memberID, fixtureMemberName)
}

// GivenBookInCirculation saves an available book and returns the stored state.
func GivenBookInCirculation(
	t testing.TB,
	ctx context.Context, //nolint:revive
	store lending.BookStore,
	bookID lending.BookIDString,
) lending.Book {

	saved, err := store.Save(ctx, FixtureBook(bookID))
	assert.NoError(t, err, "error in arranging test data")

	return saved
}

// GivenBookLoanedToMember saves a book that is on loan to the given member.
func GivenBookLoanedToMember(
	t testing.TB,
	ctx context.Context, //nolint:revive
	store lending.BookStore,
	bookID lending.BookIDString,
	memberID lending.MemberIDString,
	dueDate time.Time,
) lending.Book {

	saved, err := store.Save(ctx, FixtureBook(bookID).WithLoan(memberID, dueDate))
	assert.NoError(t, err, "error in arranging test data")

	return saved
}

// GivenBookWithReservationQueue saves a book carrying the given reservation queue.
// An empty loanedTo stores the book as available, so tests can arrange
// edge-case states where an available book still has queue entries.
func GivenBookWithReservationQueue(
	t testing.TB,
	ctx context.Context, //nolint:revive
	store lending.BookStore,
	bookID lending.BookIDString,
	loanedTo lending.MemberIDString,
	dueDate time.Time,
	queue ...lending.MemberIDString,
) lending.Book {

	book := FixtureBook(bookID)
	if loanedTo != "" {
		book = book.WithLoan(loanedTo, dueDate)
	}
	for _, memberID := range queue {
		book = book.WithQueueAppended(memberID)
	}

	saved, err := store.Save(ctx, book)
	assert.NoError(t, err, "error in arranging test data")

	return saved
}

// GivenRegisteredMember saves a member and returns the stored state.
func GivenRegisteredMember(
	t testing.TB,
	ctx context.Context, //nolint:revive
	store lending.MemberStore,
	memberID lending.MemberIDString,
) lending.Member {

	saved, err := store.Save(ctx, FixtureMember(memberID))
	assert.NoError(t, err, "error in arranging test data")

	return saved
}

// GivenActiveLoansForMember saves the given number of freshly created books,
// each on loan to the member. Useful for arranging loan-limit states.
func GivenActiveLoansForMember(
	t testing.TB,
	ctx context.Context, //nolint:revive
	store lending.BookStore,
	memberID lending.MemberIDString,
	count int,
	dueDate time.Time,
) []lending.Book {

	books := make([]lending.Book, 0, count)
	for i := 0; i < count; i++ {
		books = append(books, GivenBookLoanedToMember(t, ctx, store, GivenUniqueID(t), memberID, dueDate))
	}

	return books
}
