package overdueloans_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending/features/query/overdueloans"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
)

func Test_QueryHandler_Handle_ListsOnlyLoansDueBeforeToday(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	handler, err := overdueloans.NewQueryHandler(bookStore, overdueloans.WithClock(clock))
	require.NoError(t, err)

	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b1", "m1", clock.Today().AddDate(0, 0, -5))
	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b2", "m2", clock.Today().AddDate(0, 0, -1))
	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b3", "m1", clock.Today()) // due today, not overdue
	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b4", "m3", clock.Today().AddDate(0, 0, 7))
	fixtures.GivenBookInCirculation(t, ctx, bookStore, "b5")

	// act
	result, err := handler.Handle(ctx, overdueloans.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Equal(t, clock.Today(), result.AsOf)
	require.Len(t, result.Loans, 2)
	assert.Equal(t, "b1", result.Loans[0].BookID, "most overdue first")
	assert.Equal(t, "m1", result.Loans[0].MemberID)
	assert.Equal(t, "b2", result.Loans[1].BookID)
}

func Test_QueryHandler_Handle_ReturnsEmptyResult_WhenNothingIsOverdue(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	clock := fixtures.NewFixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	handler, err := overdueloans.NewQueryHandler(bookStore, overdueloans.WithClock(clock))
	require.NoError(t, err)

	fixtures.GivenBookLoanedToMember(t, ctx, bookStore, "b1", "m1", clock.Today().AddDate(0, 0, 14))

	// act
	result, err := handler.Handle(ctx, overdueloans.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Empty(t, result.Loans)
}
