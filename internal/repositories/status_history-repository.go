package repositories

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/entities"
	apperrors "request-board/pkg/errors"
)

// StatusHistoryItem - строка истории, обогащённая кодами статусов и именем
// автора для отдачи наружу без дополнительных запросов.
type StatusHistoryItem struct {
	entities.StatusHistoryEntry
	FromStatusCode null.String `db:"from_status_code"`
	ToStatusCode   string      `db:"to_status_code"`
	ChangedByName  null.String `db:"changed_by_name"`
}

type StatusHistoryRepositoryInterface interface {
	Insert(ctx context.Context, tx pgx.Tx, entry *entities.StatusHistoryEntry) (*entities.StatusHistoryEntry, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]StatusHistoryItem, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type statusHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewStatusHistoryRepository(storage *pgxpool.Pool) StatusHistoryRepositoryInterface {
	return &statusHistoryRepository{storage: storage}
}

func (r *statusHistoryRepository) Insert(ctx context.Context, tx pgx.Tx, entry *entities.StatusHistoryEntry) (*entities.StatusHistoryEntry, error) {
	query := `
		INSERT INTO request_status_history (request_id, from_status_id, to_status_id, changed_by, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, request_id, from_status_id, to_status_id, changed_by, changed_at, note, is_active`
	var out entities.StatusHistoryEntry
	err := tx.QueryRow(ctx, query,
		entry.RequestID, entry.FromStatusID, entry.ToStatusID, entry.ChangedBy, entry.Note).
		Scan(&out.ID, &out.RequestID, &out.FromStatusID, &out.ToStatusID,
			&out.ChangedBy, &out.ChangedAt, &out.Note, &out.IsActive)
	if err != nil {
		return nil, fmt.Errorf("не удалось записать историю статуса: %w", err)
	}
	return &out, nil
}

func (r *statusHistoryRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]StatusHistoryItem, error) {
	query := `
		SELECT h.id, h.request_id, h.from_status_id, h.to_status_id, h.changed_by, h.changed_at,
		       h.note, h.is_active,
		       fs.code AS from_status_code,
		       ts.code AS to_status_code,
		       u.full_name AS changed_by_name
		FROM request_status_history h
		LEFT JOIN request_status fs ON fs.id = h.from_status_id
		JOIN request_status ts ON ts.id = h.to_status_id
		LEFT JOIN users u ON u.id = h.changed_by
		WHERE h.request_id = $1 AND h.is_active = true
		ORDER BY h.changed_at DESC`
	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[StatusHistoryItem])
}

func (r *statusHistoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE request_status_history SET is_active = false WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
