package place_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"xplore/internal/config"
	"xplore/internal/placeimage"
	"xplore/internal/repositories"
	"xplore/internal/services"
)

var Module = fx.Provide(
	providePlaceRepo,
	provideCollectibleRepo,
	providePlaceImages,
	services.NewPlaceResolver,
	services.NewPlaceService)

func providePlaceRepo(db *gorm.DB) repositories.PlaceRepository {
	return repositories.NewPlaceRepository(db)
}

func provideCollectibleRepo(db *gorm.DB) repositories.CollectibleRepository {
	return repositories.NewCollectibleRepository(db)
}

func providePlaceImages(cfg *config.Config) (*placeimage.Resolver, error) {
	return placeimage.New(cfg.AssetBaseURL)
}
