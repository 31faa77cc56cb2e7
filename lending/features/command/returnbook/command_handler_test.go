package returnbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/features/command/returnbook"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
)

func Test_CommandHandler_Handle_MakesTheBookAvailable_WhenNobodyWaits(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	memberStore := memorystore.NewMemberStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler := returnbook.NewCommandHandler(bookStore, memberStore, returnbook.WithClock(clock))

	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b1", "m1", clock.Today())

	// act
	result, handlerResult, err := handler.Handle(ctx, returnbook.BuildCommand("b1", "m1"))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Ok)
	assert.Empty(t, result.NextMemberID)
	assert.False(t, handlerResult.Rejected)

	book, err := bookStore.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, book.IsLoaned())
	assert.True(t, book.DueDate.IsZero())
}

func Test_CommandHandler_Handle_HandsOffToTheEarliestEligibleMember(t *testing.T) {
	// arrange: queue [missing, m2, m3, m4], m2 at the loan limit
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	memberStore := memorystore.NewMemberStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler := returnbook.NewCommandHandler(bookStore, memberStore, returnbook.WithClock(clock))

	for _, memberID := range []lending.MemberIDString{"m1", "m2", "m3", "m4"} {
		fixtures.GivenRegisteredMember(t, ctx, memberStore, memberID)
	}

	fixtures.GivenBookWithReservationQueue(t, ctx, bookStore, "b1", "m1", clock.Today(),
		"missing", "m2", "m3", "m4")
	fixtures.GivenActiveLoansForMember(t, ctx, bookStore, "m2", lending.MaxLoansPerMember, clock.Today())

	// act
	result, _, err := handler.Handle(ctx, returnbook.BuildCommand("b1", "m1"))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Ok)
	assert.Equal(t, "m3", result.NextMemberID)

	book, err := bookStore.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, book.IsLoanedTo("m3"))
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), book.DueDate)
	assert.Equal(t, []lending.MemberIDString{"m4"}, book.ReservationQueue)
}

func Test_CommandHandler_Handle_RejectsReturnByNonBorrower_LeavingStateUnchanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	memberStore := memorystore.NewMemberStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler := returnbook.NewCommandHandler(bookStore, memberStore, returnbook.WithClock(clock))

	stored := fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b1", "m1", clock.Today())

	// act
	result, handlerResult, err := handler.Handle(ctx, returnbook.BuildCommand("b1", "m2"))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Equal(t, lending.ReasonNotBorrower, result.Reason)
	assert.Empty(t, result.NextMemberID)
	assert.True(t, handlerResult.Rejected)

	book, err := bookStore.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, stored, book)
}

func Test_CommandHandler_Handle_RejectsWithNotFound_WhenBookIsMissing(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler := returnbook.NewCommandHandler(memorystore.NewBookStore(), memorystore.NewMemberStore())

	// act
	result, _, err := handler.Handle(ctx, returnbook.BuildCommand("missing", "m1"))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Equal(t, lending.ReasonNotFound, result.Reason)
}

func Test_CommandHandler_Handle_ConsumesTheWholeQueue_WhenNobodyIsEligible(t *testing.T) {
	// arrange: both queued ids unknown to the member store
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	memberStore := memorystore.NewMemberStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler := returnbook.NewCommandHandler(bookStore, memberStore, returnbook.WithClock(clock))

	fixtures.GivenBookWithReservationQueue(t, ctx, bookStore, "b1", "m1", clock.Today(),
		"ghost-1", "ghost-2")

	// act
	result, _, err := handler.Handle(ctx, returnbook.BuildCommand("b1", "m1"))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Ok)
	assert.Empty(t, result.NextMemberID)

	book, err := bookStore.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, book.IsLoaned())
	assert.Empty(t, book.ReservationQueue)
}
