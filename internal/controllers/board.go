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

type BoardController struct {
	boardService *services.BoardService
	logger       *zap.Logger
}

func NewBoardController(boardService *services.BoardService, logger *zap.Logger) *BoardController {
	return &BoardController{boardService: boardService, logger: logger}
}

// parseOptionalRequestID читает request_id из query, если он передан.
func parseOptionalRequestID(ctx echo.Context) (uuid.NullUUID, error) {
	raw := ctx.QueryParam("request_id")
	if raw == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.NullUUID{}, apperrors.NewHttpError(http.StatusBadRequest, "Неверный request_id", err)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func (c *BoardController) ListBoard(ctx echo.Context) error {
	var filter dto.BoardFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	items, total, err := c.boardService.ListBoard(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{
		"items": items,
		"total": total,
	}, "Доска получена", http.StatusOK)
}

func (c *BoardController) GetChanges(ctx echo.Context) error {
	var query dto.ChangesQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if query.SinceID < 0 {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "since_id не может быть отрицательным", apperrors.ErrBadRequest),
			c.logger)
	}
	requestID, err := parseOptionalRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	query.RequestID = requestID

	res, err := c.boardService.GetChanges(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Изменения получены", http.StatusOK)
}

func (c *BoardController) ListEvents(ctx echo.Context) error {
	var query dto.BoardEventsQueryDTO
	if err := ctx.Bind(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	requestID, err := parseOptionalRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	query.RequestID = requestID

	events, total, err := c.boardService.ListBoardEvents(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{
		"items": events,
		"total": total,
	}, "События доски получены", http.StatusOK)
}
