package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"xplore/internal/models/db_models"
	"xplore/internal/models/request_models"
	"xplore/internal/models/response_models"
	"xplore/internal/repositories"
	"xplore/pkg/logger"
	"xplore/pkg/utils"
)

type UserServiceInterface interface {
	GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*response_models.UserResponse, error)
	UpdateProfile(ctx context.Context, viewerID, userID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.UserResponse, error)
	Deactivate(ctx context.Context, viewerID, userID uuid.UUID) error
	ListCollectibles(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]response_models.UserCollectibleResponse, error)
	CountCollectibles(ctx context.Context, viewerID, userID uuid.UUID) (int64, error)
	ListPhotos(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]*response_models.PhotoResponse, error)
	ListAchievements(ctx context.Context, viewerID, userID uuid.UUID) ([]response_models.AchievementResponse, error)
	Summary(ctx context.Context, viewerID, userID uuid.UUID) (*response_models.UserSummaryResponse, error)
}

type UserService struct {
	userRepo        repositories.UserRepository
	collectibleRepo repositories.CollectibleRepository
	photoRepo       repositories.PhotoRepository
	achievementRepo repositories.AchievementRepository
	followRepo      repositories.FollowRepository
	log             *logger.Logger
}

func NewUserService(
	userRepo repositories.UserRepository,
	collectibleRepo repositories.CollectibleRepository,
	photoRepo repositories.PhotoRepository,
	achievementRepo repositories.AchievementRepository,
	followRepo repositories.FollowRepository,
	log *logger.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:        userRepo,
		collectibleRepo: collectibleRepo,
		photoRepo:       photoRepo,
		achievementRepo: achievementRepo,
		followRepo:      followRepo,
		log:             log.With("service", "UserService"),
	}
}

// loadVisibleUser returns an active user the viewer may see. Private
// profiles are visible to their owner only.
func loadVisibleUser(ctx context.Context, users repositories.UserRepository, viewerID, userID uuid.UUID) (*db_models.User, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil || !user.Active {
		return nil, utils.ErrUserNotFound
	}
	if user.IsPrivate && viewerID != userID {
		return nil, utils.ErrProfilePrivate
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*response_models.UserResponse, error) {
	user, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, viewerID == userID)
	return &resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, viewerID, userID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.UserResponse, error) {
	if viewerID != userID {
		return nil, utils.ErrForbidden
	}

	fields := map[string]interface{}{}
	if request.DisplayName != nil {
		name := strings.TrimSpace(*request.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display_name cannot be blank", utils.ErrInvalidInput)
		}
		fields["display_name"] = name
	}
	if request.Bio != nil {
		fields["bio"] = strings.TrimSpace(*request.Bio)
	}
	if request.IsPrivate != nil {
		fields["is_private"] = *request.IsPrivate
	}

	if len(fields) > 0 {
		if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
			return nil, err
		}
		if err := s.userRepo.Update(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
	}
	return s.GetProfile(ctx, viewerID, userID)
}

func (s *UserService) Deactivate(ctx context.Context, viewerID, userID uuid.UUID) error {
	if viewerID != userID {
		return utils.ErrForbidden
	}
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"active": false}); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	s.log.Info("user deactivated", "user_id", userID)
	return nil
}

func (s *UserService) ListCollectibles(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]response_models.UserCollectibleResponse, error) {
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return nil, err
	}
	items, err := s.collectibleRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]response_models.UserCollectibleResponse, 0, len(items))
	for i := range items {
		out = append(out, toUserCollectibleResponse(&items[i]))
	}
	return out, nil
}

func (s *UserService) CountCollectibles(ctx context.Context, viewerID, userID uuid.UUID) (int64, error) {
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return 0, err
	}
	n, err := s.collectibleRepo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return n, nil
}

func (s *UserService) ListPhotos(ctx context.Context, viewerID, userID uuid.UUID, page, pageSize int) ([]*response_models.PhotoResponse, error) {
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]*response_models.PhotoResponse, 0, len(photos))
	for i := range photos {
		out = append(out, toPhotoResponse(&photos[i]))
	}
	return out, nil
}

func (s *UserService) ListAchievements(ctx context.Context, viewerID, userID uuid.UUID) ([]response_models.AchievementResponse, error) {
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return nil, err
	}
	items, err := s.achievementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]response_models.AchievementResponse, 0, len(items))
	for i := range items {
		out = append(out, toAchievementResponse(&items[i].Achievement, items[i].UnlockedAt))
	}
	return out, nil
}

// Summary gathers the profile counters concurrently.
func (s *UserService) Summary(ctx context.Context, viewerID, userID uuid.UUID) (*response_models.UserSummaryResponse, error) {
	if _, err := loadVisibleUser(ctx, s.userRepo, viewerID, userID); err != nil {
		return nil, err
	}

	var out response_models.UserSummaryResponse
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context, uuid.UUID) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx, userID)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&out.Collectibles, s.collectibleRepo.CountByUser)
	count(&out.Places, s.photoRepo.CountPlacesByUser)
	count(&out.Photos, s.photoRepo.CountByUser)
	count(&out.Achievements, s.achievementRepo.CountByUser)
	count(&out.Followers, s.followRepo.CountFollowers)
	count(&out.Following, s.followRepo.CountFollowing)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return &out, nil
}
