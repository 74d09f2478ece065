package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/controllers"
	"request-board/internal/services"
)

func runMetricsRouter(group *echo.Group, metricsService *services.MetricsService, logger *zap.Logger) {
	metricsController := controllers.NewMetricsController(metricsService, logger)

	group.GET("/metrics/overview", metricsController.Overview)
	group.GET("/metrics/backlog", metricsController.Backlog)
	group.GET("/metrics/throughput", metricsController.Throughput)
	group.GET("/metrics/time-stats", metricsController.TimeStats)
	group.GET("/metrics/status-time", metricsController.StatusTime)
	group.GET("/metrics/workload", metricsController.Workload)
	group.GET("/metrics/distribution", metricsController.Distribution)
	group.GET("/metrics/distribution/export", metricsController.ExportDistribution)
	group.GET("/metrics/process-time", metricsController.ProcessTime)
	group.GET("/metrics/request-times", metricsController.RequestTimes)
}
