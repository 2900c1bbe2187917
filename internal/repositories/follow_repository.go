package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"xplore/internal/models/db_models"
	"xplore/pkg/utils"
)

type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow reports whether a new edge was created; following twice is a no-op.
func (r *followRepository) Follow(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db_models.Follow{FollowerID: followerID, FollowedID: followedID})
	return res.RowsAffected == 1, res.Error
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&db_models.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	return n > 0, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error) {
	return r.listUsers(ctx, "follows.follower_id", "follows.followed_id", userID, page, pageSize)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]db_models.User, error) {
	return r.listUsers(ctx, "follows.followed_id", "follows.follower_id", userID, page, pageSize)
}

func (r *followRepository) listUsers(ctx context.Context, joinCol, whereCol string, userID uuid.UUID, page, pageSize int) ([]db_models.User, error) {
	var users []db_models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.deleted_at IS NULL AND users.id = "+joinCol).
		Where(whereCol+" = ?", userID).
		Where("users.active = ?", true).
		Order("follows.created_at DESC").
		Offset(utils.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Follow{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}
