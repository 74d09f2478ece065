package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/entities"
	apperrors "request-board/pkg/errors"
)

const assignmentFields = `id, request_id, assigned_to, assigned_by, assigned_at,
	unassigned_at, note, is_active, created_at, updated_at`

type AssignmentRepositoryInterface interface {
	GetActive(ctx context.Context, q Querier, requestID uuid.UUID) (*entities.Assignment, error)
	CloseActive(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) error
	Create(ctx context.Context, tx pgx.Tx, requestID, assignedTo, assignedBy uuid.UUID, note null.String) (*entities.Assignment, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]entities.Assignment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type assignmentRepository struct {
	storage *pgxpool.Pool
}

func NewAssignmentRepository(storage *pgxpool.Pool) AssignmentRepositoryInterface {
	return &assignmentRepository{storage: storage}
}

// GetActive возвращает текущее назначение заявки. Отсутствие активного
// назначения — штатная ситуация, наружу уходит ErrNotFound.
func (r *assignmentRepository) GetActive(ctx context.Context, q Querier, requestID uuid.UUID) (*entities.Assignment, error) {
	if q == nil {
		q = r.storage
	}
	query := fmt.Sprintf(`
		SELECT %s FROM request_assignments
		WHERE request_id = $1 AND is_active = true AND unassigned_at IS NULL
		ORDER BY assigned_at DESC
		LIMIT 1`, assignmentFields)
	return r.scanAssignment(q.QueryRow(ctx, query, requestID))
}

// CloseActive закрывает текущее назначение, если оно есть. Ноль затронутых
// строк — не ошибка: заявка могла быть вообще не назначена. Строка остаётся
// в журнале, признаком закрытия служит unassigned_at, а не is_active.
func (r *assignmentRepository) CloseActive(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE request_assignments
		SET unassigned_at = now(), updated_at = now()
		WHERE request_id = $1 AND is_active = true AND unassigned_at IS NULL`, requestID)
	return err
}

func (r *assignmentRepository) Create(ctx context.Context, tx pgx.Tx, requestID, assignedTo, assignedBy uuid.UUID, note null.String) (*entities.Assignment, error) {
	query := fmt.Sprintf(`
		INSERT INTO request_assignments (request_id, assigned_to, assigned_by, note)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, assignmentFields)
	return r.scanAssignment(tx.QueryRow(ctx, query, requestID, assignedTo, assignedBy, note))
}

func (r *assignmentRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]entities.Assignment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM request_assignments
		WHERE request_id = $1 AND is_active = true
		ORDER BY assigned_at DESC`, assignmentFields)
	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.Assignment])
}

func (r *assignmentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE request_assignments SET is_active = false, updated_at = now() WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) scanAssignment(row pgx.Row) (*entities.Assignment, error) {
	var a entities.Assignment
	err := row.Scan(&a.ID, &a.RequestID, &a.AssignedTo, &a.AssignedBy, &a.AssignedAt,
		&a.UnassignedAt, &a.Note, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
