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

// WorkflowController - операции движка: назначение, смена статуса,
// комментарии и вложения.
type WorkflowController struct {
	workflowService *services.WorkflowService
	logger          *zap.Logger
}

func NewWorkflowController(workflowService *services.WorkflowService, logger *zap.Logger) *WorkflowController {
	return &WorkflowController{workflowService: workflowService, logger: logger}
}

func parseRequestID(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewHttpError(http.StatusBadRequest, "Неверный ID заявки", err)
	}
	return id, nil
}

func (c *WorkflowController) Assign(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	assignment, err := c.workflowService.Assign(reqCtx, requestID, payload, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignment, "Исполнитель назначен", http.StatusOK)
}

func (c *WorkflowController) ChangeStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ChangeStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	request, err := c.workflowService.ChangeStatus(reqCtx, requestID, payload, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Статус заявки изменён", http.StatusOK)
}

func (c *WorkflowController) AddComment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AddCommentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	comment, err := c.workflowService.AddComment(reqCtx, requestID, payload, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, comment, "Комментарий добавлен", http.StatusCreated)
}

func (c *WorkflowController) AddAttachment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	actor, err := actorFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requestID, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AddAttachmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	attachment, err := c.workflowService.AddAttachment(reqCtx, requestID, payload, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, attachment, "Вложение добавлено", http.StatusCreated)
}
