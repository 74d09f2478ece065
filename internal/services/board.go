package services

import (
	"context"

	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/entities"
	"request-board/internal/repositories"
)

// BoardService - read-only лента доски: карточки, события и поллинг.
type BoardService struct {
	requestRepo repositories.RequestRepositoryInterface
	eventRepo   repositories.BoardEventRepositoryInterface
	logger      *zap.Logger
}

func NewBoardService(
	requestRepo repositories.RequestRepositoryInterface,
	eventRepo repositories.BoardEventRepositoryInterface,
	logger *zap.Logger,
) *BoardService {
	return &BoardService{requestRepo: requestRepo, eventRepo: eventRepo, logger: logger}
}

func (s *BoardService) ListBoard(ctx context.Context, filter dto.BoardFilterDTO) ([]entities.RequestDetails, uint64, error) {
	return s.requestRepo.List(ctx, dto.RequestFilterDTO{
		StatusCode:   filter.StatusCode,
		TypeCode:     filter.TypeCode,
		PriorityCode: filter.PriorityCode,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
	})
}

// GetChanges - ответ на поллинг клиента: есть ли события после курсора.
// Повторный вызов с тем же курсором даёт тот же ответ, пока не появятся
// новые события.
func (s *BoardService) GetChanges(ctx context.Context, query dto.ChangesQueryDTO) (dto.ChangesResponseDTO, error) {
	return s.eventRepo.GetChanges(ctx, query.SinceID, query.RequestID)
}

func (s *BoardService) ListBoardEvents(ctx context.Context, query dto.BoardEventsQueryDTO) ([]entities.BoardEvent, uint64, error) {
	return s.eventRepo.List(ctx, query)
}
