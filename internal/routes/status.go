package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/controllers"
	"request-board/internal/repositories"
	"request-board/internal/services"
)

func runStatusRouter(
	group *echo.Group,
	statusService *services.StatusService,
	catalogRepo repositories.CatalogRepositoryInterface,
	logger *zap.Logger,
) {
	statusController := controllers.NewStatusController(statusService, logger)
	catalogController := controllers.NewCatalogController(catalogRepo, logger)

	group.GET("/statuses", statusController.List)
	group.GET("/statuses/:id", statusController.Find)
	group.POST("/statuses", statusController.Create)
	group.PUT("/statuses/:id", statusController.Update)
	group.DELETE("/statuses/:id", statusController.Delete)

	group.GET("/request-types", catalogController.ListTypes)
	group.GET("/priorities", catalogController.ListPriorities)
}
