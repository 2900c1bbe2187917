package controllers_fx

import (
	"go.uber.org/fx"
	"xplore/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewUserController),
	fx.Provide(controllers.NewPlaceController),
	fx.Provide(controllers.NewIAController),
	fx.Provide(controllers.NewDashboardController))
