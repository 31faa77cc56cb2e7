package postgresstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librarykit/lending-policy-go/lending"
	"github.com/librarykit/lending-policy-go/testutil/fixtures"
	"github.com/librarykit/lending-policy-go/testutil/postgresstore/helper/postgreswrapper"
)

func setupMemberStoreTest(t *testing.T) (context.Context, postgreswrapper.Wrapper, func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	postgreswrapper.CleanUp(t, wrapper)

	cleanup := func() {
		postgreswrapper.CleanUp(t, wrapper)
		wrapper.Close()
		cancel()
	}

	return ctx, wrapper, cleanup
}

func Test_MemberStore_SaveAndFindByID_RoundTrip(t *testing.T) {
	// setup
	ctx, wrapper, cleanup := setupMemberStoreTest(t)
	defer cleanup()
	store := wrapper.GetMemberStore()

	// arrange + act
	memberID := fixtures.GivenUniqueID(t)
	saved, err := store.Save(ctx, fixtures.FixtureMember(memberID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), saved.Version)

	found, err := store.FindByID(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func Test_MemberStore_FindByID_ReportsAMissingMember(t *testing.T) {
	// setup
	ctx, wrapper, cleanup := setupMemberStoreTest(t)
	defer cleanup()

	// act
	_, err := wrapper.GetMemberStore().FindByID(ctx, fixtures.GivenUniqueID(t))

	// assert
	assert.ErrorIs(t, err, lending.ErrMemberNotFound)
}

func Test_MemberStore_Save_FailsWithConcurrencyConflict_WhenVersionIsStale(t *testing.T) {
	// setup
	ctx, wrapper, cleanup := setupMemberStoreTest(t)
	defer cleanup()
	store := wrapper.GetMemberStore()

	// arrange
	memberID := fixtures.GivenUniqueID(t)
	stored := fixtures.GivenRegisteredMember(t, ctx, store, memberID)

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
	// setup
	ctx, wrapper, cleanup := setupMemberStoreTest(t)
	defer cleanup()
	store := wrapper.GetMemberStore()

	// arrange
	memberID := fixtures.GivenUniqueID(t)
	stored := fixtures.GivenRegisteredMember(t, ctx, store, memberID)

	exists, err := store.ExistsByID(ctx, memberID)
	require.NoError(t, err)
	assert.True(t, exists)

	// act
	err = store.Delete(ctx, stored)

	// assert
	require.NoError(t, err)
	exists, err = store.ExistsByID(ctx, memberID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_MemberStore_FindAll_ReturnsEveryStoredMember(t *testing.T) {
	// setup
	ctx, wrapper, cleanup := setupMemberStoreTest(t)
	defer cleanup()
	store := wrapper.GetMemberStore()

	// arrange
	fixtures.GivenRegisteredMember(t, ctx, store, fixtures.GivenUniqueID(t))
	fixtures.GivenRegisteredMember(t, ctx, store, fixtures.GivenUniqueID(t))

	// act
	members, err := store.FindAll(ctx)

	// assert
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
