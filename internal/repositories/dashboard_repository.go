package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "xplore/internal/models/db_models"
	"xplore/pkg/utils"
)

type DashboardRepository interface {
	// KPIs / counts
	CountActiveUsers(ctx context.Context) (int64, error)
	CountNewUsers(ctx context.Context, start, end int64) (int64, error)
	CountPhotosByStatus(ctx context.Context) (map[string]int64, error)
	CountUnlocks(ctx context.Context, start, end int64) (int64, error)

	TopPlaces(ctx context.Context, start, end int64, limit int) ([]PlaceCountRow, error)

	// Moderation
	ListPhotosByStatus(ctx context.Context, status string, page, pageSize int) ([]dbm.Photo, int64, error)
	SetPhotoStatus(ctx context.Context, id uuid.UUID, status string) (*dbm.Photo, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

type PlaceCountRow struct {
	PlaceID uuid.UUID `gorm:"column:place_id"`
	Name    string    `gorm:"column:name"`
	Count   int64     `gorm:"column:count"`
}

type statusCountRow struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

func (r *dashboardRepository) CountActiveUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.User{}).Where("active = ?", true).Count(&n).Error
	return n, err
}

// start and end are unix seconds, both inclusive.
func (r *dashboardRepository) CountNewUsers(ctx context.Context, start, end int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.User{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountPhotosByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Photo{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *dashboardRepository) CountUnlocks(ctx context.Context, start, end int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.UserCollectible{}).
		Where("unlocked_at >= ? AND unlocked_at <= ?", start, end).
		Count(&n).Error
	return n, err
}

// TopPlaces ranks places by photos uploaded in the window.
func (r *dashboardRepository) TopPlaces(ctx context.Context, start, end int64, limit int) ([]PlaceCountRow, error) {
	var rows []PlaceCountRow
	err := r.db.WithContext(ctx).
		Table("photos").
		Select("photos.place_id AS place_id, places.name AS name, COUNT(*) AS count").
		Joins("JOIN places ON places.id = photos.place_id").
		Where("photos.deleted_at IS NULL AND photos.created_at >= ? AND photos.created_at <= ?", start, end).
		Group("photos.place_id, places.name").
		Order("count DESC, places.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *dashboardRepository) ListPhotosByStatus(ctx context.Context, status string, page, pageSize int) ([]dbm.Photo, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&dbm.Photo{})
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var photos []dbm.Photo
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at ASC").
		Offset(utils.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&photos).Error
	if err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

// SetPhotoStatus returns nil, nil when the photo does not exist.
func (r *dashboardRepository) SetPhotoStatus(ctx context.Context, id uuid.UUID, status string) (*dbm.Photo, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Photo{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	var photo dbm.Photo
	if err := r.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}
