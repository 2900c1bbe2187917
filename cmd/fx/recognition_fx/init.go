package recognition_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"xplore/internal/classifier"
	"xplore/internal/config"
	"xplore/internal/placeimage"
	"xplore/internal/repositories"
	"xplore/internal/services"
	"xplore/internal/storage"
	"xplore/pkg/logger"
)

var Module = fx.Provide(
	providePhotoRepo,
	provideAchievementRepo,
	provideCollectionService,
	provideRecognitionService)

func providePhotoRepo(db *gorm.DB) repositories.PhotoRepository {
	return repositories.NewPhotoRepository(db)
}

func provideAchievementRepo(db *gorm.DB) repositories.AchievementRepository {
	return repositories.NewAchievementRepository(db)
}

func provideCollectionService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	placeRepo repositories.PlaceRepository,
	photoRepo repositories.PhotoRepository,
	collectibleRepo repositories.CollectibleRepository,
	achievementRepo repositories.AchievementRepository,
	store storage.PhotoStore,
	log *logger.Logger,
) services.CollectionServiceInterface {
	return services.NewCollectionService(db, userRepo, placeRepo, photoRepo, collectibleRepo, achievementRepo, store, log)
}

func provideRecognitionService(
	c classifier.Classifier,
	resolver services.PlaceResolverInterface,
	collection services.CollectionServiceInterface,
	images *placeimage.Resolver,
	cfg *config.Config,
	log *logger.Logger,
) services.RecognitionServiceInterface {
	return services.NewRecognitionService(c, resolver, collection, images, cfg.Confidence, log)
}
