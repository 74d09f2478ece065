package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/controllers"
	"request-board/internal/services"
)

func runRequestRouter(
	group *echo.Group,
	requestService *services.RequestService,
	workflowService *services.WorkflowService,
	logger *zap.Logger,
) {
	requestController := controllers.NewRequestController(requestService, logger)
	workflowController := controllers.NewWorkflowController(workflowService, logger)

	group.POST("/requests", requestController.Create)
	group.GET("/requests", requestController.List)
	group.GET("/requests/:id", requestController.Find)
	group.PUT("/requests/:id", requestController.Update)
	group.DELETE("/requests/:id", requestController.Delete)

	group.GET("/requests/:id/assignments", requestController.ListAssignments)
	group.GET("/requests/:id/history", requestController.ListHistory)
	group.GET("/requests/:id/comments", requestController.ListComments)
	group.GET("/requests/:id/attachments", requestController.ListAttachments)

	group.POST("/requests/:id/assign", workflowController.Assign)
	group.POST("/requests/:id/status", workflowController.ChangeStatus)
	group.POST("/requests/:id/comments", workflowController.AddComment)
	group.POST("/requests/:id/attachments", workflowController.AddAttachment)
}
