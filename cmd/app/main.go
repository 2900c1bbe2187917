package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"xplore/cmd/fx/account_fx"
	"xplore/cmd/fx/classifier_fx"
	"xplore/cmd/fx/config_fx"
	"xplore/cmd/fx/controllers_fx"
	"xplore/cmd/fx/dashboard_fx"
	"xplore/cmd/fx/db_fx"
	"xplore/cmd/fx/memcache_fx"
	"xplore/cmd/fx/place_fx"
	"xplore/cmd/fx/recognition_fx"
	"xplore/cmd/fx/storage_fx"
	"xplore/cmd/fx/user_fx"
	"xplore/internal/api"
	"xplore/internal/config"
	"xplore/pkg/logger"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		storage_fx.Module,
		classifier_fx.Module,
		account_fx.Module,
		user_fx.Module,
		place_fx.Module,
		recognition_fx.Module,
		dashboard_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Zap()}
		}),
		fx.Provide(api.NewRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *logger.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting HTTP server", "addr", srv.Addr, "env", cfg.AppEnv)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
