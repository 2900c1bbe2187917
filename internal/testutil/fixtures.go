package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"xplore/internal/models/db_models"
)

func SeedUser(t *testing.T, db *gorm.DB, email string) *db_models.User {
	t.Helper()
	u := &db_models.User{
		DisplayName: "user " + email,
		Email:       email,
		Role:        db_models.RoleUser,
		Active:      true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func SeedPlace(t *testing.T, db *gorm.DB, name, category string) *db_models.Place {
	t.Helper()
	p := &db_models.Place{Name: name, Category: category, Location: "Costa Rica"}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedCollectibles(t *testing.T, db *gorm.DB, placeID uuid.UUID, names ...string) []db_models.Collectible {
	t.Helper()
	out := make([]db_models.Collectible, 0, len(names))
	for _, n := range names {
		c := db_models.Collectible{PlaceID: placeID, Name: n, Rarity: "common"}
		require.NoError(t, db.Create(&c).Error)
		out = append(out, c)
	}
	return out
}
