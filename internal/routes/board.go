package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/controllers"
	"request-board/internal/services"
)

func runBoardRouter(group *echo.Group, boardService *services.BoardService, logger *zap.Logger) {
	boardController := controllers.NewBoardController(boardService, logger)

	group.GET("/board", boardController.ListBoard)
	group.GET("/board/changes", boardController.GetChanges)
	group.GET("/board/events", boardController.ListEvents)
}
