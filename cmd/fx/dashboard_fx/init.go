package dashboard_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"xplore/internal/repositories"
	"xplore/internal/services"
	"xplore/pkg/logger"
)

var Module = fx.Provide(
	provideDashboardRepo, provideDashboardService,
)

func provideDashboardRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}

func provideDashboardService(dashboardRepo repositories.DashboardRepository, log *logger.Logger) services.DashboardService {
	return services.NewDashboardService(dashboardRepo, log)
}
