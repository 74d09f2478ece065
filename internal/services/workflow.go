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

// WorkflowService - движок переходов заявки. Каждая операция выполняется в
// одной транзакции: строка заявки блокируется FOR UPDATE, затем атомарно
// меняются заявка, журнал назначений, история статусов и лента событий.
type WorkflowService struct {
	storage        *pgxpool.Pool
	requestRepo    repositories.RequestRepositoryInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	statusRepo     repositories.StatusRepositoryInterface
	historyRepo    repositories.StatusHistoryRepositoryInterface
	eventRepo      repositories.BoardEventRepositoryInterface
	commentRepo    repositories.CommentRepositoryInterface
	attachmentRepo repositories.AttachmentRepositoryInterface
	logger         *zap.Logger
}

func NewWorkflowService(
	storage *pgxpool.Pool,
	requestRepo repositories.RequestRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	statusRepo repositories.StatusRepositoryInterface,
	historyRepo repositories.StatusHistoryRepositoryInterface,
	eventRepo repositories.BoardEventRepositoryInterface,
	commentRepo repositories.CommentRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		storage:        storage,
		requestRepo:    requestRepo,
		assignmentRepo: assignmentRepo,
		statusRepo:     statusRepo,
		historyRepo:    historyRepo,
		eventRepo:      eventRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
		logger:         logger,
	}
}

// validateSource запрещает любые статусные операции над заявкой в
// терминальном статусе. Терминальный статус — конец маршрута; вернуть
// заявку в работу может только новое назначение администратором, и оно
// тоже проходит эту проверку после FOR UPDATE.
func validateSource(current entities.StatusRef) error {
	if current.IsTerminal {
		return fmt.Errorf("заявка уже в терминальном статусе %s: %w", current.Code, apperrors.ErrConflict)
	}
	return nil
}

// authorizeTransition - чистое правило доступа к смене статуса.
// Администратору можно всё (источник уже проверен validateSource).
// Остальным: без активного назначения перевод невозможен, чужое
// назначение не даёт прав, а целевой статус UNASSIGNED недоступен.
func authorizeTransition(actor dto.Actor, holder uuid.NullUUID, target entities.StatusRef) error {
	if actor.IsAdmin() {
		return nil
	}
	if !holder.Valid {
		return fmt.Errorf("заявка никому не назначена: %w", apperrors.ErrConflict)
	}
	if holder.UUID != actor.ID {
		return fmt.Errorf("заявка назначена другому исполнителю: %w", apperrors.ErrForbidden)
	}
	if target.Code == constants.StatusUnassigned {
		return fmt.Errorf("снять назначение может только администратор: %w", apperrors.ErrForbidden)
	}
	return nil
}

// Assign назначает исполнителя. Только администратор; предыдущее активное
// назначение закрывается, статус становится ASSIGNED, first_assigned_at
// проставляется при первом назначении.
func (s *WorkflowService) Assign(ctx context.Context, requestID uuid.UUID, payload dto.AssignDTO, actor dto.Actor) (*entities.Assignment, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("назначать исполнителя может только администратор: %w", apperrors.ErrForbidden)
	}

	target, err := s.statusRepo.FindByCode(ctx, constants.StatusAssigned)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("в каталоге нет статуса %s: %w", constants.StatusAssigned, apperrors.ErrConflict)
		}
		return nil, err
	}

	var assignment *entities.Assignment
	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		current, err := s.statusRepo.FindByID(ctx, request.StatusID)
		if err != nil {
			return fmt.Errorf("статус заявки отсутствует в каталоге: %w", err)
		}
		if err := validateSource(current.Ref()); err != nil {
			return err
		}

		if err := s.assignmentRepo.CloseActive(ctx, tx, requestID); err != nil {
			return err
		}
		assignment, err = s.assignmentRepo.Create(ctx, tx, requestID, payload.AssignedTo, actor.ID, null.StringFromPtr(payload.Note))
		if err != nil {
			return err
		}
		if _, err := s.requestRepo.MarkAssigned(ctx, tx, requestID, target.ID); err != nil {
			return err
		}
		if _, err := s.historyRepo.Insert(ctx, tx, &entities.StatusHistoryEntry{
			RequestID:    requestID,
			FromStatusID: uuid.NullUUID{UUID: current.ID, Valid: true},
			ToStatusID:   target.ID,
			ChangedBy:    actor.ID,
			Note:         null.StringFromPtr(payload.Note),
		}); err != nil {
			return err
		}
		_, err = s.eventRepo.Insert(ctx, tx, &entities.BoardEvent{
			EventType: constants.EventAssigned,
			RequestID: uuid.NullUUID{UUID: requestID, Valid: true},
			ActorID:   uuid.NullUUID{UUID: actor.ID, Valid: true},
			Payload: map[string]interface{}{
				"assigned_to":   payload.AssignedTo.String(),
				"assignment_id": assignment.ID.String(),
				"to_status":     target.Code,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("заявка назначена",
		zap.String("request_id", requestID.String()),
		zap.String("assigned_to", payload.AssignedTo.String()),
		zap.String("assigned_by", actor.ID.String()))
	return assignment, nil
}

// resolveTarget принимает ровно один из способов задать целевой статус.
func (s *WorkflowService) resolveTarget(ctx context.Context, payload dto.ChangeStatusDTO) (*entities.Status, error) {
	switch {
	case payload.StatusID != nil && payload.StatusCode != nil:
		return nil, fmt.Errorf("status_id и status_code заданы одновременно: %w", apperrors.ErrBadRequest)
	case payload.StatusID != nil:
		return s.statusRepo.FindByID(ctx, *payload.StatusID)
	case payload.StatusCode != nil:
		return s.statusRepo.FindByCode(ctx, *payload.StatusCode)
	default:
		return nil, fmt.Errorf("не задан целевой статус: %w", apperrors.ErrBadRequest)
	}
}

// ChangeStatus переводит заявку в новый статус с записью истории и события.
func (s *WorkflowService) ChangeStatus(ctx context.Context, requestID uuid.UUID, payload dto.ChangeStatusDTO, actor dto.Actor) (*entities.Request, error) {
	target, err := s.resolveTarget(ctx, payload)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("целевой статус не найден: %w", apperrors.ErrBadRequest)
		}
		return nil, err
	}

	var updated *entities.Request
	err = repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}
		current, err := s.statusRepo.FindByID(ctx, request.StatusID)
		if err != nil {
			return fmt.Errorf("статус заявки отсутствует в каталоге: %w", err)
		}
		if err := validateSource(current.Ref()); err != nil {
			return err
		}

		holder := uuid.NullUUID{}
		if !actor.IsAdmin() {
			active, err := s.assignmentRepo.GetActive(ctx, tx, requestID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			if active != nil {
				holder = uuid.NullUUID{UUID: active.AssignedTo, Valid: true}
			}
		}
		if err := authorizeTransition(actor, holder, target.Ref()); err != nil {
			return err
		}

		updated, err = s.requestRepo.UpdateStatus(ctx, tx, requestID, target.ID, target.IsTerminal)
		if err != nil {
			return err
		}
		if _, err := s.historyRepo.Insert(ctx, tx, &entities.StatusHistoryEntry{
			RequestID:    requestID,
			FromStatusID: uuid.NullUUID{UUID: current.ID, Valid: true},
			ToStatusID:   target.ID,
			ChangedBy:    actor.ID,
			Note:         null.StringFromPtr(payload.Note),
		}); err != nil {
			return err
		}
		_, err = s.eventRepo.Insert(ctx, tx, &entities.BoardEvent{
			EventType: constants.EventStatusChanged,
			RequestID: uuid.NullUUID{UUID: requestID, Valid: true},
			ActorID:   uuid.NullUUID{UUID: actor.ID, Valid: true},
			Payload: map[string]interface{}{
				"from_status_id": current.ID.String(),
				"to_status_id":   target.ID.String(),
				"to_status_code": target.Code,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("статус заявки изменён",
		zap.String("request_id", requestID.String()),
		zap.String("to_status", target.Code),
		zap.String("changed_by", actor.ID.String()))
	return updated, nil
}

// AddComment добавляет комментарий и событие доски. Статус не меняется,
// комментировать можно и терминальные заявки.
func (s *WorkflowService) AddComment(ctx context.Context, requestID uuid.UUID, payload dto.AddCommentDTO, actor dto.Actor) (*entities.Comment, error) {
	if _, err := s.requestRepo.FindByID(ctx, nil, requestID); err != nil {
		return nil, err
	}

	var comment *entities.Comment
	err := repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		var err error
		comment, err = s.commentRepo.Insert(ctx, tx, requestID, actor.ID, payload.Comment)
		if err != nil {
			return err
		}
		_, err = s.eventRepo.Insert(ctx, tx, &entities.BoardEvent{
			EventType: constants.EventCommentAdded,
			RequestID: uuid.NullUUID{UUID: requestID, Valid: true},
			ActorID:   uuid.NullUUID{UUID: actor.ID, Valid: true},
			Payload:   map[string]interface{}{"comment_id": comment.ID.String()},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// AddAttachment добавляет вложение и событие доски.
func (s *WorkflowService) AddAttachment(ctx context.Context, requestID uuid.UUID, payload dto.AddAttachmentDTO, actor dto.Actor) (*entities.Attachment, error) {
	if _, err := s.requestRepo.FindByID(ctx, nil, requestID); err != nil {
		return nil, err
	}

	var attachment *entities.Attachment
	err := repositories.WithTx(ctx, s.storage, func(tx pgx.Tx) error {
		var err error
		attachment, err = s.attachmentRepo.Insert(ctx, tx, &entities.Attachment{
			RequestID:  requestID,
			UploadedBy: actor.ID,
			FileName:   payload.FileName,
			FileURL:    payload.FileURL,
			MimeType:   null.NewString(payload.MimeType, payload.MimeType != ""),
			SizeBytes:  null.NewInt64(payload.SizeBytes, payload.SizeBytes > 0),
		})
		if err != nil {
			return err
		}
		_, err = s.eventRepo.Insert(ctx, tx, &entities.BoardEvent{
			EventType: constants.EventAttachmentAdded,
			RequestID: uuid.NullUUID{UUID: requestID, Valid: true},
			ActorID:   uuid.NullUUID{UUID: actor.ID, Valid: true},
			Payload:   map[string]interface{}{"attachment_id": attachment.ID.String(), "file_name": attachment.FileName},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return attachment, nil
}
