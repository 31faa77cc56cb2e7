package reservationqueue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/lending/features/query/reservationqueue"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
)

func Test_QueryHandler_Handle_PresentsTheQueueInFIFOOrderWithNames(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	memberStore := memorystore.NewMemberStore()
	handler, err := reservationqueue.NewQueryHandler(bookStore, memberStore)
	require.NoError(t, err)

	fixtures.GivenRegisteredMember(t, ctx, memberStore, "m2")
	fixtures.GivenRegisteredMember(t, ctx, memberStore, "m3")

	dueDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	fixtures.GivenBookWithReservationQueue(t, ctx, bookStore, "b1", "m1", dueDate, "m2", "ghost", "m3")

	// act
	result, err := handler.Handle(ctx, reservationqueue.BuildQuery("b1"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "b1", result.BookID)
	require.Len(t, result.Entries, 3)

	assert.Equal(t, 1, result.Entries[0].Position)
	assert.Equal(t, "m2", result.Entries[0].MemberID)
	assert.NotEmpty(t, result.Entries[0].Name)

	assert.Equal(t, 2, result.Entries[1].Position)
	assert.Equal(t, "ghost", result.Entries[1].MemberID)
	assert.Empty(t, result.Entries[1].Name, "an unresolved member projects with an empty name")

	assert.Equal(t, 3, result.Entries[2].Position)
	assert.Equal(t, "m3", result.Entries[2].MemberID)
}

func Test_QueryHandler_Handle_ReturnsEmptyEntries_WhenNobodyWaits(t *testing.T) {
	// arrange
	ctx := context.Background()
	bookStore := memorystore.NewBookStore()
	handler, err := reservationqueue.NewQueryHandler(bookStore, memorystore.NewMemberStore())
	require.NoError(t, err)

	fixtures.GivenBookInCirculation(t, ctx, bookStore, "b1")

	// act
	result, err := handler.Handle(ctx, reservationqueue.BuildQuery("b1"))

	// assert
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}

func Test_QueryHandler_Handle_PropagatesNotFound_WhenBookIsMissing(t *testing.T) {
	// arrange
	ctx := context.Background()
	handler, err := reservationqueue.NewQueryHandler(memorystore.NewBookStore(), memorystore.NewMemberStore())
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, reservationqueue.BuildQuery("missing"))

	// assert
	assert.ErrorIs(t, err, lending.ErrBookNotFound)
}
