package config_fx

import (
	"context"

	"go.uber.org/fx"
	"xplore/internal/config"
	"xplore/pkg/logger"
)

var Module = fx.Provide(
	config.Load,
	provideLogger)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			log.Sync()
			return nil
		},
	})
	return log, nil
}
