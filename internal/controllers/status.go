package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/services"
	apperrors "request-board/pkg/errors"
	"request-board/pkg/utils"
)

type StatusController struct {
	statusService *services.StatusService
	logger        *zap.Logger
}

func NewStatusController(statusService *services.StatusService, logger *zap.Logger) *StatusController {
	return &StatusController{statusService: statusService, logger: logger}
}

func parseStatusID(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewHttpError(http.StatusBadRequest, "Неверный ID статуса", err)
	}
	return id, nil
}

func (c *StatusController) List(ctx echo.Context) error {
	statuses, err := c.statusService.List(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, statuses, "Список статусов получен", http.StatusOK)
}

func (c *StatusController) Find(ctx echo.Context) error {
	id, err := parseStatusID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	status, err := c.statusService.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, status, "Статус найден", http.StatusOK)
}

func (c *StatusController) Create(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	status, err := c.statusService.Create(reqCtx, payload, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, status, "Статус создан", http.StatusCreated)
}

func (c *StatusController) Update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseStatusID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	status, err := c.statusService.Update(reqCtx, id, payload, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, status, "Статус обновлён", http.StatusOK)
}

func (c *StatusController) Delete(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseStatusID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.statusService.SoftDelete(reqCtx, id, actor); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Статус удалён", http.StatusOK)
}
