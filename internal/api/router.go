// Package api assembles the gin engine and its routes.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"xplore/internal/api/controllers"
	"xplore/internal/config"
	"xplore/internal/infra"
	"xplore/internal/models/db_models"
	"xplore/internal/storage"
	"xplore/pkg/logger"
	"xplore/pkg/middleware"
	"xplore/pkg/utils"
)

type RouterParams struct {
	fx.In

	Config *config.Config
	Log    *logger.Logger
	DB     *gorm.DB
	Auth   *middleware.Authenticator
	Store  storage.PhotoStore

	AuthController  *controllers.AuthController
	UserController  *controllers.UserController
	PlaceController *controllers.PlaceController
	IAController    *controllers.IAController

	DashboardController *controllers.DashboardController
}

func NewRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log))
	r.Use(middleware.CORSMiddleware(p.Config.CORSOrigins))

	RegisterRoutes(r, p)
	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	requireAuth := p.Auth.JWTAuthMiddleware()

	r.GET("/health", func(c *gin.Context) {
		if err := infra.Ping(c.Request.Context(), p.DB); err != nil {
			_ = c.Error(err)
			utils.RespondError(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		utils.RespondSuccess(c, gin.H{"database": "ok"}, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if local, ok := p.Store.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Root())
	}

	auth := r.Group("/auth")
	auth.POST("/register_user", p.AuthController.Register)
	auth.POST("/login", p.AuthController.Login)
	auth.POST("/logout", requireAuth, p.AuthController.Logout)

	ia := r.Group("/ia")
	ia.POST("/recognize", p.Auth.OptionalJWTMiddleware(), p.IAController.Recognize)
	ia.POST("/save-collection", requireAuth, p.IAController.SaveCollection)
	ia.GET("/policy", p.IAController.GetPolicy)

	users := r.Group("/users", requireAuth)
	users.GET("/:id", p.UserController.GetProfile)
	users.PUT("/:id", p.UserController.UpdateProfile)
	users.DELETE("/:id", p.UserController.Deactivate)
	users.PUT("/:id/password", p.UserController.ChangePassword)
	users.GET("/:id/collectibles", p.UserController.ListCollectibles)
	users.GET("/:id/collectibles/count", p.UserController.CountCollectibles)
	users.GET("/:id/photos", p.UserController.ListPhotos)
	users.GET("/:id/achievements", p.UserController.ListAchievements)
	users.GET("/:id/summary", p.UserController.Summary)
	users.GET("/:id/followers", p.UserController.ListFollowers)
	users.GET("/:id/followers/count", p.UserController.CountFollowers)
	users.GET("/:id/following", p.UserController.ListFollowing)
	users.GET("/:id/following/count", p.UserController.CountFollowing)
	users.POST("/:id/follow", p.UserController.Follow)
	users.DELETE("/:id/follow", p.UserController.Unfollow)

	places := r.Group("/places")
	places.GET("", p.PlaceController.ListPlaces)
	places.GET("/:id", p.PlaceController.GetPlace)
	places.GET("/:id/history", p.PlaceController.GetHistory)
	places.GET("/:id/collectibles", p.PlaceController.GetCollectibles)

	admin := r.Group("/admin", requireAuth, middleware.RoleMiddleware(db_models.RoleAdmin))
	admin.GET("/dashboard", p.DashboardController.GetDashboard)
	admin.GET("/photos", p.DashboardController.ListPhotos)
	admin.PUT("/photos/:id/status", p.DashboardController.ReviewPhoto)
}
