package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"xplore/internal/config"
	"xplore/internal/infra"
	"xplore/internal/seed"
	"xplore/pkg/logger"
)

var Module = fx.Options(
	fx.Provide(provideDB),
	fx.Invoke(seedCatalog))

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}

func seedCatalog(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *logger.Logger) {
	if !cfg.DBSeed {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			catalog, err := seed.Bundled()
			if err != nil {
				return err
			}
			return seed.Apply(ctx, db, catalog, log)
		},
	})
}
