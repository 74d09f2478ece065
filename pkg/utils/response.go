package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "request-board/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{
			Status:  false,
			Message: "Ошибка валидации: " + strings.Join(msgs, "; "),
		})
	}

	httpErr := apperrors.ToHttpError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		logger.Error("внутренняя ошибка", zap.Error(err))
	}
	return c.JSON(httpErr.Code, &HTTPResponse{Status: false, Message: httpErr.Message})
}
