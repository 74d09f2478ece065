package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/entities"
	"request-board/internal/repositories"
	apperrors "request-board/pkg/errors"
)

// StatusService - администрирование каталога статусов. Граф переходов
// задаётся данными каталога, поэтому правка каталога — операция ADMIN.
type StatusService struct {
	statusRepo repositories.StatusRepositoryInterface
	logger     *zap.Logger
}

func NewStatusService(statusRepo repositories.StatusRepositoryInterface, logger *zap.Logger) *StatusService {
	return &StatusService{statusRepo: statusRepo, logger: logger}
}

func (s *StatusService) List(ctx context.Context) ([]entities.Status, error) {
	return s.statusRepo.List(ctx)
}

func (s *StatusService) FindByID(ctx context.Context, id uuid.UUID) (*entities.Status, error) {
	return s.statusRepo.FindByID(ctx, id)
}

func (s *StatusService) Create(ctx context.Context, payload dto.CreateStatusDTO, actor dto.Actor) (*entities.Status, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("править каталог статусов может только администратор: %w", apperrors.ErrForbidden)
	}
	status, err := s.statusRepo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("добавлен статус", zap.String("code", status.Code))
	return status, nil
}

func (s *StatusService) Update(ctx context.Context, id uuid.UUID, payload dto.UpdateStatusDTO, actor dto.Actor) (*entities.Status, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("править каталог статусов может только администратор: %w", apperrors.ErrForbidden)
	}
	return s.statusRepo.Update(ctx, id, payload)
}

func (s *StatusService) SoftDelete(ctx context.Context, id uuid.UUID, actor dto.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("править каталог статусов может только администратор: %w", apperrors.ErrForbidden)
	}
	return s.statusRepo.SoftDelete(ctx, id)
}
