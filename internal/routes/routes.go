package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/repositories"
	"request-board/internal/services"
	"request-board/pkg/middleware"
	"request-board/pkg/service"
)

// InitRouter собирает весь граф зависимостей: репозитории, сервисы,
// контроллеры и маршруты. Всё, кроме /api/auth/login, закрыто auth-middleware.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	userRepo := repositories.NewUserRepository(dbConn)
	statusRepo := repositories.NewStatusRepository(dbConn, cacheRepo)
	catalogRepo := repositories.NewCatalogRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn)
	assignmentRepo := repositories.NewAssignmentRepository(dbConn)
	historyRepo := repositories.NewStatusHistoryRepository(dbConn)
	eventRepo := repositories.NewBoardEventRepository(dbConn)
	commentRepo := repositories.NewCommentRepository(dbConn)
	attachmentRepo := repositories.NewAttachmentRepository(dbConn)
	metricsRepo := repositories.NewMetricsRepository(dbConn)

	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	workflowService := services.NewWorkflowService(
		dbConn, requestRepo, assignmentRepo, statusRepo, historyRepo,
		eventRepo, commentRepo, attachmentRepo, logger,
	)
	requestService := services.NewRequestService(
		dbConn, requestRepo, statusRepo, historyRepo, assignmentRepo,
		commentRepo, attachmentRepo, catalogRepo, logger,
	)
	boardService := services.NewBoardService(requestRepo, eventRepo, logger)
	metricsService := services.NewMetricsService(metricsRepo, logger)
	statusService := services.NewStatusService(statusRepo, logger)

	runAuthRouter(api, authService, logger)

	secured := api.Group("", authMW.Auth)
	runRequestRouter(secured, requestService, workflowService, logger)
	runBoardRouter(secured, boardService, logger)
	runMetricsRouter(secured, metricsService, logger)
	runStatusRouter(secured, statusService, catalogRepo, logger)
}
