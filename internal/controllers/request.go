package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/services"
	"request-board/pkg/utils"
)

type RequestController struct {
	requestService *services.RequestService
	logger         *zap.Logger
}

func NewRequestController(requestService *services.RequestService, logger *zap.Logger) *RequestController {
	return &RequestController{requestService: requestService, logger: logger}
}

func (c *RequestController) Create(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.requestService.Create(reqCtx, payload, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Заявка создана", http.StatusCreated)
}

func (c *RequestController) List(ctx echo.Context) error {
	var filter dto.RequestFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	items, total, err := c.requestService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{
		"items": items,
		"total": total,
	}, "Список заявок получен", http.StatusOK)
}

func (c *RequestController) Find(ctx echo.Context) error {
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	details, err := c.requestService.FindByID(ctx.Request().Context(), requestID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, details, "Заявка найдена", http.StatusOK)
}

func (c *RequestController) Update(ctx echo.Context) error {
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.requestService.Update(ctx.Request().Context(), requestID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Заявка обновлена", http.StatusOK)
}

func (c *RequestController) Delete(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.requestService.SoftDelete(reqCtx, requestID, actor); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Заявка удалена", http.StatusOK)
}

func (c *RequestController) ListAssignments(ctx echo.Context) error {
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	items, err := c.requestService.ListAssignments(ctx.Request().Context(), requestID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Журнал назначений получен", http.StatusOK)
}

func (c *RequestController) ListHistory(ctx echo.Context) error {
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	items, err := c.requestService.ListHistory(ctx.Request().Context(), requestID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "История статусов получена", http.StatusOK)
}

func (c *RequestController) ListComments(ctx echo.Context) error {
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	items, err := c.requestService.ListComments(ctx.Request().Context(), requestID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Комментарии получены", http.StatusOK)
}

func (c *RequestController) ListAttachments(ctx echo.Context) error {
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	items, err := c.requestService.ListAttachments(ctx.Request().Context(), requestID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Вложения получены", http.StatusOK)
}
