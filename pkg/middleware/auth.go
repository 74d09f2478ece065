package middleware

import (
	"context"
	"strings"

	"request-board/pkg/contextkeys"
	apperrors "request-board/pkg/errors"
	"request-board/pkg/service"
	"request-board/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth извлекает Bearer-токен, валидирует его и кладёт личность актора
// (id + код роли) в контекст запроса. Дальше ядро доверяет этим данным.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.ActorIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.RoleCodeKey, claims.RoleCode)
		ctx = context.WithValue(ctx, contextkeys.UsernameKey, claims.Username)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
