package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"xplore/internal/config"
	"xplore/pkg/logger"
	mem "xplore/pkg/memcache"
)

var Module = fx.Provide(provideTokenStore)

// provideTokenStore uses Redis when REDIS_ADDR is set so revocations are
// shared across instances, and an in-process store otherwise.
func provideTokenStore(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (mem.TokenStore, error) {
	if cfg.RedisAddr == "" {
		log.Info("using in-process revoked token store")
		return mem.NewRevokedTokens(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := mem.NewRedisTokenStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	log.Info("using redis revoked token store", "addr", cfg.RedisAddr)
	return store, nil
}
