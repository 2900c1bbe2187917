package user_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"xplore/internal/repositories"
	"xplore/internal/services"
	"xplore/pkg/logger"
)

var Module = fx.Provide(
	provideFollowRepo,
	provideUserService,
	provideFollowService)

func provideFollowRepo(db *gorm.DB) repositories.FollowRepository {
	return repositories.NewFollowRepository(db)
}

func provideUserService(
	userRepo repositories.UserRepository,
	collectibleRepo repositories.CollectibleRepository,
	photoRepo repositories.PhotoRepository,
	achievementRepo repositories.AchievementRepository,
	followRepo repositories.FollowRepository,
	log *logger.Logger,
) services.UserServiceInterface {
	return services.NewUserService(userRepo, collectibleRepo, photoRepo, achievementRepo, followRepo, log)
}

func provideFollowService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, log *logger.Logger) services.FollowServiceInterface {
	return services.NewFollowService(userRepo, followRepo, log)
}
