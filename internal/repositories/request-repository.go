package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/dto"
	"request-board/internal/entities"
	apperrors "request-board/pkg/errors"
)

const requestFields = `id, title, description, status_id, request_type_id, priority_id,
	is_active, created_by, created_at, updated_at, first_assigned_at, closed_at`

type RequestRepositoryInterface interface {
	FindByID(ctx context.Context, q Querier, id uuid.UUID) (*entities.Request, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Request, error)
	FindDetailsByID(ctx context.Context, id uuid.UUID) (*entities.RequestDetails, error)
	Create(ctx context.Context, tx pgx.Tx, req *entities.Request) (*entities.Request, error)
	Update(ctx context.Context, id uuid.UUID, payload dto.UpdateRequestDTO, priorityID *uuid.UUID) (*entities.Request, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, statusID uuid.UUID, terminal bool) (*entities.Request, error)
	MarkAssigned(ctx context.Context, tx pgx.Tx, id uuid.UUID, statusID uuid.UUID) (*entities.Request, error)
	List(ctx context.Context, filter dto.RequestFilterDTO) ([]entities.RequestDetails, uint64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type requestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &requestRepository{storage: storage}
}

func (r *requestRepository) FindByID(ctx context.Context, q Querier, id uuid.UUID) (*entities.Request, error) {
	if q == nil {
		q = r.storage
	}
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1 AND is_active = true`, requestFields)
	return r.scanRequest(q.QueryRow(ctx, query, id))
}

// FindByIDForUpdate блокирует строку заявки на время транзакции. Все
// решения воркфлоу (кто назначен, какой статус) принимаются только после
// этой блокировки, иначе два параллельных назначения могут разойтись.
func (r *requestRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1 AND is_active = true FOR UPDATE`, requestFields)
	return r.scanRequest(tx.QueryRow(ctx, query, id))
}

func (r *requestRepository) FindDetailsByID(ctx context.Context, id uuid.UUID) (*entities.RequestDetails, error) {
	query := detailsSelect + ` WHERE r.id = $1 AND r.is_active = true`
	rows, err := r.storage.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	details, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.RequestDetails])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &details, nil
}

func (r *requestRepository) Create(ctx context.Context, tx pgx.Tx, req *entities.Request) (*entities.Request, error) {
	query := fmt.Sprintf(`
		INSERT INTO requests (title, description, status_id, request_type_id, priority_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, requestFields)
	return r.scanRequest(tx.QueryRow(ctx, query,
		req.Title, req.Description, req.StatusID, req.RequestTypeID, req.PriorityID, req.CreatedBy))
}

func (r *requestRepository) Update(ctx context.Context, id uuid.UUID, payload dto.UpdateRequestDTO, priorityID *uuid.UUID) (*entities.Request, error) {
	builder := sq.Update("requests").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "is_active": true}).
		Suffix("RETURNING " + requestFields).
		PlaceholderFormat(sq.Dollar)

	if payload.Title != nil {
		builder = builder.Set("title", *payload.Title)
	}
	if payload.Description != nil {
		builder = builder.Set("description", *payload.Description)
	}
	if priorityID != nil {
		builder = builder.Set("priority_id", *priorityID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("не удалось собрать запрос обновления заявки: %w", err)
	}
	return r.scanRequest(r.storage.QueryRow(ctx, query, args...))
}

// UpdateStatus переводит заявку в новый статус. closed_at проставляется
// один раз при входе в терминальный статус и сбрасывается при возврате в
// нетерминальный, так что closed_at заполнен ⇔ статус терминальный.
func (r *requestRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, statusID uuid.UUID, terminal bool) (*entities.Request, error) {
	query := fmt.Sprintf(`
		UPDATE requests
		SET status_id = $2,
		    updated_at = now(),
		    closed_at = CASE WHEN $3 THEN COALESCE(closed_at, now()) ELSE NULL END
		WHERE id = $1 AND is_active = true
		RETURNING %s`, requestFields)
	return r.scanRequest(tx.QueryRow(ctx, query, id, statusID, terminal))
}

// MarkAssigned — статусная часть назначения: first_assigned_at выставляется
// только при первом назначении. closed_at здесь не трогаем: назначение
// возможно только из нетерминального статуса, где он и так пуст.
func (r *requestRepository) MarkAssigned(ctx context.Context, tx pgx.Tx, id uuid.UUID, statusID uuid.UUID) (*entities.Request, error) {
	query := fmt.Sprintf(`
		UPDATE requests
		SET status_id = $2,
		    first_assigned_at = COALESCE(first_assigned_at, now()),
		    updated_at = now()
		WHERE id = $1 AND is_active = true
		RETURNING %s`, requestFields)
	return r.scanRequest(tx.QueryRow(ctx, query, id, statusID))
}

const detailsSelect = `
	SELECT r.id, r.title, r.description, r.status_id,
	       s.code AS status_code, s.name AS status_name, s.is_terminal,
	       t.code AS type_code, t.name AS type_name,
	       p.code AS priority_code, p.name AS priority_name,
	       a.assigned_to, u.full_name AS assignee_name,
	       r.created_by, r.created_at, r.updated_at, r.first_assigned_at, r.closed_at
	FROM requests r
	JOIN request_status s ON s.id = r.status_id
	JOIN request_types t ON t.id = r.request_type_id
	JOIN request_priorities p ON p.id = r.priority_id
	LEFT JOIN LATERAL (
		SELECT assigned_to FROM request_assignments
		WHERE request_id = r.id AND is_active = true AND unassigned_at IS NULL
		ORDER BY assigned_at DESC
		LIMIT 1
	) a ON true
	LEFT JOIN users u ON u.id = a.assigned_to`

func (r *requestRepository) List(ctx context.Context, filter dto.RequestFilterDTO) ([]entities.RequestDetails, uint64, error) {
	where := sq.And{sq.Eq{"r.is_active": true}}
	if filter.StatusCode != "" {
		where = append(where, sq.Eq{"s.code": filter.StatusCode})
	}
	if filter.TypeCode != "" {
		where = append(where, sq.Eq{"t.code": filter.TypeCode})
	}
	if filter.PriorityCode != "" {
		where = append(where, sq.Eq{"p.code": filter.PriorityCode})
	}
	if filter.AssignedTo.Valid {
		where = append(where, sq.Eq{"a.assigned_to": filter.AssignedTo.UUID})
	}
	if filter.Search != "" {
		where = append(where, sq.Or{
			sq.ILike{"r.title": "%" + filter.Search + "%"},
			sq.ILike{"r.description": "%" + filter.Search + "%"},
		})
	}
	if !filter.IncludeClosed {
		where = append(where, sq.Eq{"s.is_terminal": false})
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 50
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").
		From("requests r").
		Join("request_status s ON s.id = r.status_id").
		Join("request_types t ON t.id = r.request_type_id").
		Join("request_priorities p ON p.id = r.priority_id").
		JoinClause(`LEFT JOIN LATERAL (
			SELECT assigned_to FROM request_assignments
			WHERE request_id = r.id AND is_active = true AND unassigned_at IS NULL
			ORDER BY assigned_at DESC
			LIMIT 1
		) a ON true`).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось собрать счётный запрос списка заявок: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.RequestDetails{}, 0, nil
	}

	whereSQL, args, err := sq.And(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось собрать фильтр списка заявок: %w", err)
	}
	query, err := sq.Dollar.ReplacePlaceholders(
		detailsSelect + " WHERE " + whereSQL +
			fmt.Sprintf(" ORDER BY p.sort_order, r.created_at DESC OFFSET %d LIMIT %d", (page-1)*pageSize, pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось собрать запрос списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.RequestDetails])
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *requestRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE requests SET is_active = false, updated_at = now() WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *requestRepository) scanRequest(row pgx.Row) (*entities.Request, error) {
	var req entities.Request
	err := row.Scan(&req.ID, &req.Title, &req.Description, &req.StatusID, &req.RequestTypeID,
		&req.PriorityID, &req.IsActive, &req.CreatedBy, &req.CreatedAt, &req.UpdatedAt,
		&req.FirstAssignedAt, &req.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}
