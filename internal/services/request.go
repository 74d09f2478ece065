package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"request-board/internal/dto"
	"request-board/internal/entities"
	"request-board/internal/repositories"
	"request-board/pkg/constants"
	apperrors "request-board/pkg/errors"
)

// RequestService - CRUD заявок. Создание пишет стартовую строку истории
// (from = null), чтобы расчёт времени в статусах видел весь жизненный цикл.
type RequestService struct {
	storage        *pgxpool.Pool
	requestRepo    repositories.RequestRepositoryInterface
	statusRepo     repositories.StatusRepositoryInterface
	historyRepo    repositories.StatusHistoryRepositoryInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	commentRepo    repositories.CommentRepositoryInterface
	attachmentRepo repositories.AttachmentRepositoryInterface
	catalogRepo    repositories.CatalogRepositoryInterface
	logger         *zap.Logger
}

func NewRequestService(
	storage *pgxpool.Pool,
	requestRepo repositories.RequestRepositoryInterface,
	statusRepo repositories.StatusRepositoryInterface,
	historyRepo repositories.StatusHistoryRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	commentRepo repositories.CommentRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	catalogRepo repositories.CatalogRepositoryInterface,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		storage:        storage,
		requestRepo:    requestRepo,
		statusRepo:     statusRepo,
		historyRepo:    historyRepo,
		assignmentRepo: assignmentRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
		catalogRepo:    catalogRepo,
		logger:         logger,
	}
}

// Create заводит заявку в статусе UNASSIGNED и пишет стартовую историю.
func (s *RequestService) Create(ctx context.Context, payload dto.CreateRequestDTO, actor dto.Actor) (*entities.Request, error) {
	initial, err := s.statusRepo.FindByCode(ctx, constants.StatusUnassigned)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("в каталоге нет статуса %s: %w", constants.StatusUnassigned, apperrors.ErrConflict)
		}
		return nil, err
	}
	reqType, err := s.catalogRepo.FindTypeByCode(ctx, payload.TypeCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("неизвестный тип заявки %q: %w", payload.TypeCode, apperrors.ErrBadRequest)
		}
		return nil, err
	}
	priority, err := s.catalogRepo.FindPriorityByCode(ctx, payload.PriorityCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("неизвестный приоритет %q: %w", payload.PriorityCode, apperrors.ErrBadRequest)
		}
		return nil, err
	}

	var created *entities.Request
	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		var err error
		created, err = s.requestRepo.Create(ctx, tx, &entities.Request{
			Title:         payload.Title,
			Description:   null.StringFromPtr(payload.Description),
			StatusID:      initial.ID,
			RequestTypeID: reqType.ID,
			PriorityID:    priority.ID,
			CreatedBy:     actor.ID,
		})
		if err != nil {
			return err
		}
		_, err = s.historyRepo.Insert(ctx, tx, &entities.StatusHistoryEntry{
			RequestID:  created.ID,
			ToStatusID: initial.ID,
			ChangedBy:  actor.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("создана заявка",
		zap.String("request_id", created.ID.String()),
		zap.String("created_by", actor.ID.String()))
	return created, nil
}

func (s *RequestService) FindByID(ctx context.Context, id uuid.UUID) (*entities.RequestDetails, error) {
	return s.requestRepo.FindDetailsByID(ctx, id)
}

func (s *RequestService) List(ctx context.Context, filter dto.RequestFilterDTO) ([]entities.RequestDetails, uint64, error) {
	return s.requestRepo.List(ctx, filter)
}

func (s *RequestService) Update(ctx context.Context, id uuid.UUID, payload dto.UpdateRequestDTO) (*entities.Request, error) {
	var priorityID *uuid.UUID
	if payload.PriorityCode != nil {
		priority, err := s.catalogRepo.FindPriorityByCode(ctx, *payload.PriorityCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("неизвестный приоритет %q: %w", *payload.PriorityCode, apperrors.ErrBadRequest)
			}
			return nil, err
		}
		priorityID = &priority.ID
	}
	return s.requestRepo.Update(ctx, id, payload, priorityID)
}

func (s *RequestService) SoftDelete(ctx context.Context, id uuid.UUID, actor dto.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("удалять заявки может только администратор: %w", apperrors.ErrForbidden)
	}
	return s.requestRepo.SoftDelete(ctx, id)
}

func (s *RequestService) ListAssignments(ctx context.Context, requestID uuid.UUID) ([]entities.Assignment, error) {
	if _, err := s.requestRepo.FindByID(ctx, nil, requestID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListByRequest(ctx, requestID)
}

func (s *RequestService) ListHistory(ctx context.Context, requestID uuid.UUID) ([]repositories.StatusHistoryItem, error) {
	if _, err := s.requestRepo.FindByID(ctx, nil, requestID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByRequest(ctx, requestID)
}

func (s *RequestService) ListComments(ctx context.Context, requestID uuid.UUID) ([]repositories.CommentItem, error) {
	if _, err := s.requestRepo.FindByID(ctx, nil, requestID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByRequest(ctx, requestID)
}

func (s *RequestService) ListAttachments(ctx context.Context, requestID uuid.UUID) ([]entities.Attachment, error) {
	if _, err := s.requestRepo.FindByID(ctx, nil, requestID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByRequest(ctx, requestID)
}
