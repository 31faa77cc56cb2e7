package memorystore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/memorystore"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
)

func Test_MemberStore_SaveAndFindByID_RoundTrip(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewMemberStore()

	// act
	saved, err := store.Save(ctx, fixtures.FixtureMember("m1"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), saved.Version)

	found, err := store.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func Test_MemberStore_FindByID_ReportsAMissingMember(t *testing.T) {
	// act
	_, err := memorystore.NewMemberStore().FindByID(context.Background(), "missing")

	// assert
	assert.ErrorIs(t, err, lending.ErrMemberNotFound)
}

func Test_MemberStore_Save_FailsWithConcurrencyConflict_WhenVersionIsStale(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewMemberStore()
	stored := fixtures.GivenRegisteredMember(t, ctx, store, "m1")

	renamed := stored
	renamed.Name = "Renamed Reader"
	_, err := store.Save(ctx, renamed)
	require.NoError(t, err)

	// act
	_, err = store.Save(ctx, stored)

	// assert
	assert.ErrorIs(t, err, lending.ErrConcurrencyConflict)
}

func Test_MemberStore_ExistsByID_And_Delete(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewMemberStore()
	stored := fixtures.GivenRegisteredMember(t, ctx, store, "m1")

	exists, err := store.ExistsByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, exists)

	// act
	err = store.Delete(ctx, stored)

	// assert
	require.NoError(t, err)
	exists, err = store.ExistsByID(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_MemberStore_FindAll_ReturnsEveryStoredMember(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memorystore.NewMemberStore()
	fixtures.GivenRegisteredMember(t, ctx, store, "m1")
	fixtures.GivenRegisteredMember(t, ctx, store, "m2")

	// act
	members, err := store.FindAll(ctx)

	// assert
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
