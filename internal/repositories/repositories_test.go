package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xplore/internal/models/db_models"
	"xplore/internal/testutil"
)

func TestCollectibleUnlockIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "ana@example.com")
	place := testutil.SeedPlace(t, db, "Volcán Arenal", "volcano")
	items := testutil.SeedCollectibles(t, db, place.ID, "Lava", "Ceniza")

	repo := NewCollectibleRepository(db)

	created, err := repo.Unlock(ctx, user.ID, items[0].ID, nil, 100)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Unlock(ctx, user.ID, items[0].ID, nil, 200)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := repo.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	owned, err := repo.ListByUser(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Lava", owned[0].Collectible.Name)
	assert.Equal(t, int64(100), owned[0].UnlockedAt)

	byPlace, err := repo.ListByPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Len(t, byPlace, 2)
}

func TestPhotoInsertIfAbsent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "ana@example.com")
	place := testutil.SeedPlace(t, db, "Teatro Nacional", "culture")
	repo := NewPhotoRepository(db)

	first := &db_models.Photo{UserID: user.ID, PlaceID: place.ID, ContentHash: "abc", Status: db_models.PhotoPendingReview}
	created, err := repo.InsertIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	dup := &db_models.Photo{UserID: user.ID, PlaceID: place.ID, ContentHash: "abc", Status: db_models.PhotoPendingReview}
	created, err = repo.InsertIfAbsent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindByUserPlaceAndHash(ctx, user.ID, place.ID, "abc")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	missing, err := repo.FindByUserPlaceAndHash(ctx, user.ID, place.ID, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	other := testutil.SeedPlace(t, db, "Volcán Poás", "volcano")
	elsewhere := &db_models.Photo{UserID: user.ID, PlaceID: other.ID, ContentHash: "abc", Status: db_models.PhotoPendingReview}
	created, err = repo.InsertIfAbsent(ctx, elsewhere)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, elsewhere.ID)

	places, err := repo.CountPlacesByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), places)
}

func TestFollowLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	ana := testutil.SeedUser(t, db, "ana@example.com")
	ben := testutil.SeedUser(t, db, "ben@example.com")
	repo := NewFollowRepository(db)

	created, err := repo.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	assert.False(t, created)

	followers, err := repo.ListFollowers(ctx, ben.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, ana.ID, followers[0].ID)

	following, err := repo.ListFollowing(ctx, ana.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, ben.ID, following[0].ID)

	n, err := repo.CountFollowers(ctx, ben.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	removed, err := repo.Unfollow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	ok, err := repo.IsFollowing(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	created, err = repo.Follow(ctx, ana.ID, ben.ID)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestPlaceListAndLabels(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	arenal := testutil.SeedPlace(t, db, "Volcán Arenal", "volcano")
	testutil.SeedPlace(t, db, "Volcán Poás", "volcano")
	testutil.SeedPlace(t, db, "Teatro Nacional", "culture")
	repo := NewPlaceRepository(db)

	places, total, err := repo.List(ctx, "volcano", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, places, 1)
	assert.Equal(t, "Volcán Arenal", places[0].Name)

	_, total, err = repo.List(ctx, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	require.NoError(t, repo.UpsertLabel(ctx, "arenal", arenal.ID))
	require.NoError(t, repo.UpsertLabel(ctx, "arenal", arenal.ID))

	found, err := repo.FindByLabel(ctx, "arenal")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, arenal.ID, found.ID)

	none, err := repo.FindByLabel(ctx, "irazu")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	user := testutil.SeedUser(t, db, "ana@example.com")

	found, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.Update(ctx, user.ID, map[string]interface{}{"bio": "hola"}))
	require.NoError(t, repo.TouchLastSeen(ctx, user.ID, 42))

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hola", found.Bio)
	require.NotNil(t, found.LastSeenAt)
	assert.Equal(t, int64(42), *found.LastSeenAt)

	dup := &db_models.User{Email: "ana@example.com", Active: true}
	assert.Error(t, repo.Create(ctx, dup))
}

func TestDashboardQueries(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	ana := testutil.SeedUser(t, db, "ana@example.com")
	testutil.SeedUser(t, db, "ben@example.com")
	arenal := testutil.SeedPlace(t, db, "Volcán Arenal", "volcano")
	teatro := testutil.SeedPlace(t, db, "Teatro Nacional", "culture")

	photos := NewPhotoRepository(db)
	for i, placeID := range []uuid.UUID{arenal.ID, arenal.ID, teatro.ID} {
		_, err := photos.InsertIfAbsent(ctx, &db_models.Photo{
			UserID:      ana.ID,
			PlaceID:     placeID,
			ContentHash: fmt.Sprintf("hash-%d", i),
			Status:      db_models.PhotoPendingReview,
		})
		require.NoError(t, err)
	}

	repo := NewDashboardRepository(db)
	far := time.Now().Add(time.Hour).Unix()

	users, err := repo.CountNewUsers(ctx, 0, far)
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)

	top, err := repo.TopPlaces(ctx, 0, far, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, arenal.ID, top[0].PlaceID)
	assert.Equal(t, int64(2), top[0].Count)
	assert.Equal(t, "Teatro Nacional", top[1].Name)

	queue, total, err := repo.ListPhotosByStatus(ctx, db_models.PhotoPendingReview, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, queue, 2)

	reviewed, err := repo.SetPhotoStatus(ctx, queue[0].ID, db_models.PhotoApproved)
	require.NoError(t, err)
	require.NotNil(t, reviewed)
	assert.Equal(t, db_models.PhotoApproved, reviewed.Status)

	byStatus, err := repo.CountPhotosByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStatus[db_models.PhotoPendingReview])
	assert.Equal(t, int64(1), byStatus[db_models.PhotoApproved])

	missing, err := repo.SetPhotoStatus(ctx, uuid.New(), db_models.PhotoRejected)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
