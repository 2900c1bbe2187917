package storage_fx

import (
	"context"

	"go.uber.org/fx"
	"xplore/internal/config"
	"xplore/internal/storage"
	"xplore/pkg/logger"
)

var Module = fx.Provide(providePhotoStore)

func providePhotoStore(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (storage.PhotoStore, error) {
	if cfg.StorageProvider != config.StorageGCS {
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL, log)
		if err != nil {
			return nil, err
		}
		return local, nil
	}

	store, err := storage.NewGCSStore(context.Background(), cfg.GCSBucket, cfg.GCSCDNDomain, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
