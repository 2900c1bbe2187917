package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"xplore/internal/models/db_models"
)

type AchievementRepository interface {
	WithTx(tx *gorm.DB) AchievementRepository
	ListAll(ctx context.Context) ([]db_models.Achievement, error)
	Grant(ctx context.Context, userID, achievementID uuid.UUID, at int64) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.UserAchievement, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) WithTx(tx *gorm.DB) AchievementRepository {
	return &achievementRepository{db: tx}
}

func (r *achievementRepository) ListAll(ctx context.Context) ([]db_models.Achievement, error) {
	var items []db_models.Achievement
	err := r.db.WithContext(ctx).Order("criteria_type ASC, criteria_value ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *achievementRepository) Grant(ctx context.Context, userID, achievementID uuid.UUID, at int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db_models.UserAchievement{UserID: userID, AchievementID: achievementID, UnlockedAt: at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *achievementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.UserAchievement, error) {
	var items []db_models.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *achievementRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.UserAchievement{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
