package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/services"
	apperrors "request-board/pkg/errors"
	"request-board/pkg/utils"
)

// MetricsController - отчёты. Все маршруты доступны только ADMIN.
type MetricsController struct {
	metricsService *services.MetricsService
	logger         *zap.Logger
}

func NewMetricsController(metricsService *services.MetricsService, logger *zap.Logger) *MetricsController {
	return &MetricsController{metricsService: metricsService, logger: logger}
}

func (c *MetricsController) requireAdmin(ctx echo.Context) (dto.Actor, error) {
	actor, err := actorFromContext(ctx.Request().Context())
	if err != nil {
		return dto.Actor{}, err
	}
	if !actor.IsAdmin() {
		return dto.Actor{}, fmt.Errorf("отчёты доступны только администратору: %w", apperrors.ErrForbidden)
	}
	return actor, nil
}

func (c *MetricsController) Overview(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var filter dto.MetricsFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.Overview(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Сводный отчёт получен", http.StatusOK)
}

func (c *MetricsController) Backlog(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var filter dto.MetricsFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.BacklogByStatus(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Бэклог по статусам получен", http.StatusOK)
}

func (c *MetricsController) Throughput(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var query dto.ThroughputQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.Throughput(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт по пропускной способности получен", http.StatusOK)
}

func (c *MetricsController) TimeStats(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var filter dto.MetricsFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.TimeStats(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт по срокам получен", http.StatusOK)
}

func (c *MetricsController) StatusTime(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var filter dto.MetricsFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.StatusTime(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт по времени в статусах получен", http.StatusOK)
}

func (c *MetricsController) Workload(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var filter dto.MetricsFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.Workload(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт по нагрузке получен", http.StatusOK)
}

func (c *MetricsController) Distribution(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var filter dto.MetricsFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.Distribution(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт по распределению получен", http.StatusOK)
}

// ExportDistribution отдаёт отчёт распределения файлом .xlsx.
func (c *MetricsController) ExportDistribution(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var filter dto.MetricsFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	buf, err := c.metricsService.ExportDistribution(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("distribution_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (c *MetricsController) ProcessTime(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var query dto.ProcessTimeQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.ProcessTime(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт по этапам обработки получен", http.StatusOK)
}

func (c *MetricsController) RequestTimes(ctx echo.Context) error {
	if _, err := c.requireAdmin(ctx); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var query dto.RequestTimesQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.metricsService.RequestTimes(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Срез времени по заявкам получен", http.StatusOK)
}
