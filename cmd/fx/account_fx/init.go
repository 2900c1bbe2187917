package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"xplore/internal/config"
	"xplore/internal/repositories"
	"xplore/internal/services"
	"xplore/pkg/logger"
	mem "xplore/pkg/memcache"
	"xplore/pkg/middleware"
	"xplore/pkg/utils"
)

var Module = fx.Provide(
	provideUserRepo,
	provideTokenIssuer,
	middleware.NewAuthenticator,
	provideAccountService)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideTokenIssuer(cfg *config.Config) (*utils.TokenIssuer, error) {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
}

func provideAccountService(userRepo repositories.UserRepository, tokens *utils.TokenIssuer, revoked mem.TokenStore, log *logger.Logger) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, tokens, revoked, log)
}
