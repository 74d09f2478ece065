package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"request-board/internal/repositories"
	"request-board/pkg/utils"
)

// CatalogController - чтение справочников типов и приоритетов.
type CatalogController struct {
	catalogRepo repositories.CatalogRepositoryInterface
	logger      *zap.Logger
}

func NewCatalogController(catalogRepo repositories.CatalogRepositoryInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalogRepo: catalogRepo, logger: logger}
}

func (c *CatalogController) ListTypes(ctx echo.Context) error {
	types, err := c.catalogRepo.ListTypes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, types, "Типы заявок получены", http.StatusOK)
}

func (c *CatalogController) ListPriorities(ctx echo.Context) error {
	priorities, err := c.catalogRepo.ListPriorities(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, priorities, "Приоритеты получены", http.StatusOK)
}
