package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"xplore/internal/models/db_models"
	"xplore/pkg/utils"
)

type CollectibleRepository interface {
	WithTx(tx *gorm.DB) CollectibleRepository
	ListByPlace(ctx context.Context, placeID uuid.UUID) ([]db_models.Collectible, error)
	Unlock(ctx context.Context, userID, collectibleID uuid.UUID, photoID *uuid.UUID, at int64) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.UserCollectible, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type collectibleRepository struct {
	db *gorm.DB
}

func NewCollectibleRepository(db *gorm.DB) CollectibleRepository {
	return &collectibleRepository{db: db}
}

func (r *collectibleRepository) WithTx(tx *gorm.DB) CollectibleRepository {
	return &collectibleRepository{db: tx}
}

func (r *collectibleRepository) ListByPlace(ctx context.Context, placeID uuid.UUID) ([]db_models.Collectible, error) {
	var items []db_models.Collectible
	err := r.db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Unlock inserts the (user, collectible) row unless it already exists and
// reports whether this call created it.
func (r *collectibleRepository) Unlock(ctx context.Context, userID, collectibleID uuid.UUID, photoID *uuid.UUID, at int64) (bool, error) {
	row := db_models.UserCollectible{
		UserID:        userID,
		CollectibleID: collectibleID,
		PhotoID:       photoID,
		UnlockedAt:    at,
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *collectibleRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.UserCollectible, error) {
	var items []db_models.UserCollectible
	err := r.db.WithContext(ctx).
		Preload("Collectible").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Offset(utils.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *collectibleRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.UserCollectible{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
