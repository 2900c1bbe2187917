package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"xplore/internal/models/db_models"
	"xplore/pkg/utils"
)

type PhotoRepository interface {
	WithTx(tx *gorm.DB) PhotoRepository
	FindByUserPlaceAndHash(ctx context.Context, userID, placeID uuid.UUID, hash string) (*db_models.Photo, error)
	InsertIfAbsent(ctx context.Context, photo *db_models.Photo) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.Photo, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountPlacesByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type photoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) WithTx(tx *gorm.DB) PhotoRepository {
	return &photoRepository{db: tx}
}

func (r *photoRepository) FindByUserPlaceAndHash(ctx context.Context, userID, placeID uuid.UUID, hash string) (*db_models.Photo, error) {
	var photo db_models.Photo
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND place_id = ? AND content_hash = ?", userID, placeID, hash).
		First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

// InsertIfAbsent reports false when the user already stored the same bytes
// for the same place; the caller reloads it.
func (r *photoRepository) InsertIfAbsent(ctx context.Context, photo *db_models.Photo) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(photo)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *photoRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.Photo, error) {
	var photos []db_models.Photo
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(utils.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Photo{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *photoRepository) CountPlacesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Photo{}).
		Where("user_id = ?", userID).
		Distinct("place_id").
		Count(&n).Error
	return n, err
}
