package reservebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/features/command/reservebook"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
)

func Test_CommandHandler_Handle_LoansImmediately_WhenBookIsAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler := reservebook.NewCommandHandler(bookStore, reservebook.WithClock(clock))

	fixtures.GivenBookInCirculation(t, ctx, bookStore, "b2")

	// act
	result, handlerResult, err := handler.Handle(ctx, reservebook.BuildCommand("b2", "m1"))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Ok)
	assert.False(t, handlerResult.Rejected)

	book, err := bookStore.FindByID(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, book.IsLoanedTo("m1"))
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), book.DueDate)
	assert.Empty(t, book.ReservationQueue)
}

func Test_CommandHandler_Handle_Queues_WhenBookIsLoaned(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler := reservebook.NewCommandHandler(bookStore, reservebook.WithClock(clock))

	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b1", "m1", clock.Today())

	// act
	result, _, err := handler.Handle(ctx, reservebook.BuildCommand("b1", "m2"))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Ok)

	book, err := bookStore.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, book.IsLoanedTo("m1"), "the current loan must be untouched")
	assert.Equal(t, []lending.MemberIDString{"m2"}, book.ReservationQueue)
}

func Test_CommandHandler_Handle_RejectsDuplicateReservation(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler := reservebook.NewCommandHandler(bookStore, reservebook.WithClock(clock))

	stored := fixtures.GivenBookWithReservationQueue(t, ctx, bookStore, "b1", "m1", clock.Today(), "m2")

	// act
	result, handlerResult, err := handler.Handle(ctx, reservebook.BuildCommand("b1", "m2"))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Equal(t, lending.ReasonAlreadyReserved, result.Reason)
	assert.True(t, handlerResult.Rejected)

	book, err := bookStore.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, stored, book, "a rejected reservation must not change stored state")
}

func Test_CommandHandler_Handle_RejectsWithNotFound_WhenBookIsMissing(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler := reservebook.NewCommandHandler(memorystore.NewBookStore())

	// act
	result, _, err := handler.Handle(ctx, reservebook.BuildCommand("missing", "m1"))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Equal(t, lending.ReasonNotFound, result.Reason)
}
