package memorystore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
)

func Test_BookStore_SaveAndFindByID_RoundTrip(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()
	book := fixtures.FixtureBook("b1").
		WithLoan("m1", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)).
		WithQueueAppended("m2")

	// act
	saved, err := store.Save(ctx, book)

	// assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), saved.Version)

	found, err := store.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func Test_BookStore_FindByID_ReportsAMissingBook(t *testing.T) {
	// act
	_, err := memorystore.NewBookStore().FindByID(context.Background(), "missing")

	// assert
	assert.ErrorIs(t, err, lending.ErrBookNotFound)
}

func Test_BookStore_Save_FailsWithConcurrencyConflict_WhenVersionIsStale(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()
	stored := fixtures.GivenBookInCirculation(t, ctx, store, "b1")

	// a second writer wins the race
	_, err := store.Save(ctx, stored.WithQueueAppended("m1"))
	require.NoError(t, err)

	// act: the first writer saves with the now stale version
	_, err = store.Save(ctx, stored.WithQueueAppended("m2"))

	// assert
	assert.ErrorIs(t, err, lending.ErrConcurrencyConflict)
}

func Test_BookStore_Save_FailsWithConcurrencyConflict_WhenInsertingAnExistingID(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()
	fixtures.GivenBookInCirculation(t, ctx, store, "b1")

	// act: version zero means "never persisted", but the id is taken
	_, err := store.Save(ctx, fixtures.FixtureBook("b1"))

	// assert
	assert.ErrorIs(t, err, lending.ErrConcurrencyConflict)
}

func Test_BookStore_Save_IncrementsTheVersionOnEveryWrite(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()

	// act
	first, err := store.Save(ctx, fixtures.FixtureBook("b1"))
	require.NoError(t, err)
	second, err := store.Save(ctx, first.WithQueueAppended("m1"))
	require.NoError(t, err)

	// assert
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, uint(2), second.Version)
}

func Test_BookStore_CountByLoanedTo_CountsOnlyTheMembersActiveLoans(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()
	dueDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	fixtures.GivenBookLoanedToMember(t, ctx, store, "b1", "m1", dueDate)
	fixtures.GivenBookLoanedToMember(t, ctx, store, "b2", "m1", dueDate)
	fixtures.GivenBookLoanedToMember(t, ctx, store, "b3", "m2", dueDate)
	fixtures.GivenBookInCirculation(t, ctx, store, "b4")

	// act
	count, err := store.CountByLoanedTo(ctx, "m1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_BookStore_Delete_RemovesTheBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()
	stored := fixtures.GivenBookInCirculation(t, ctx, store, "b1")

	// act
	err := store.Delete(ctx, stored)

	// assert
	require.NoError(t, err)
	exists, err := store.ExistsByID(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_BookStore_StoredStateIsIsolatedFromCallerMutations(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()
	book := fixtures.FixtureBook("b1").WithQueueAppended("m1")

	saved, err := store.Save(ctx, book)
	require.NoError(t, err)

	// act: mutate the slice the caller holds
	saved.ReservationQueue[0] = "changed"

	// assert
	found, err := store.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "m1", found.ReservationQueue[0])
}

func Test_BookStore_FindAll_ReturnsEveryStoredBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewBookStore()
	fixtures.GivenBookInCirculation(t, ctx, store, "b1")
	fixtures.GivenBookInCirculation(t, ctx, store, "b2")

	// act
	books, err := store.FindAll(ctx)

	// assert
	require.NoError(t, err)
	assert.Len(t, books, 2)
}
