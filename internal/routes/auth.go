package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/controllers"
	"request-board/internal/services"
)

func runAuthRouter(group *echo.Group, authService *services.AuthService, logger *zap.Logger) {
	authController := controllers.NewAuthController(authService, logger)

	group.POST("/auth/login", authController.Login)
}
