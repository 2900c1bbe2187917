package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"xplore/internal/models/response_models"
	"xplore/internal/repositories"
	"xplore/pkg/logger"
	"xplore/pkg/utils"
)

type FollowServiceInterface interface {
	Follow(ctx context.Context, followerID, userID uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, followerID, userID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]response_models.UserResponse, error)
	ListFollowing(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]response_models.UserResponse, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

type FollowService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	log        *logger.Logger
}

func NewFollowService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, log *logger.Logger) FollowServiceInterface {
	return &FollowService{
		userRepo:   userRepo,
		followRepo: followRepo,
		log:        log.With("service", "FollowService"),
	}
}

func (s *FollowService) requireActive(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil || !user.Active {
		return utils.ErrUserNotFound
	}
	return nil
}

// Follow reports whether a new follow was recorded.
func (s *FollowService) Follow(ctx context.Context, followerID, userID uuid.UUID) (bool, error) {
	if followerID == userID {
		return false, utils.ErrCannotFollowSelf
	}
	if err := s.requireActive(ctx, userID); err != nil {
		return false, err
	}
	created, err := s.followRepo.Follow(ctx, followerID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if created {
		s.log.Info("follow created", "follower_id", followerID, "followed_id", userID)
	}
	return created, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, userID uuid.UUID) (bool, error) {
	if followerID == userID {
		return false, utils.ErrCannotFollowSelf
	}
	removed, err := s.followRepo.Unfollow(ctx, followerID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return removed, nil
}

func (s *FollowService) ListFollowers(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]response_models.UserResponse, error) {
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowers(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toUserResponses(users), nil
}

func (s *FollowService) ListFollowing(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]response_models.UserResponse, error) {
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowing(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toUserResponses(users), nil
}

func (s *FollowService) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := s.requireActive(ctx, userID); err != nil {
		return 0, err
	}
	n, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return n, nil
}

func (s *FollowService) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	if err := s.requireActive(ctx, userID); err != nil {
		return 0, err
	}
	n, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return n, nil
}
