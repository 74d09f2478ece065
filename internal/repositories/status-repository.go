package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/dto"
	"request-board/internal/entities"
	apperrors "request-board/pkg/errors"
)

const (
	statusFields   = "id, code, name, sort_order, is_terminal, is_active"
	statusCacheTTL = 10 * time.Minute
)

func statusCacheKey(code string) string { return "status:code:" + code }

type StatusRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Status, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Status, error)
	FindByCode(ctx context.Context, code string) (*entities.Status, error)
	Create(ctx context.Context, payload dto.CreateStatusDTO) (*entities.Status, error)
	Update(ctx context.Context, id uuid.UUID, payload dto.UpdateStatusDTO) (*entities.Status, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type statusRepository struct {
	storage *pgxpool.Pool
	cache   CacheRepositoryInterface
}

func NewStatusRepository(storage *pgxpool.Pool, cache CacheRepositoryInterface) StatusRepositoryInterface {
	return &statusRepository{storage: storage, cache: cache}
}

func (r *statusRepository) List(ctx context.Context) ([]entities.Status, error) {
	query := fmt.Sprintf(`SELECT %s FROM request_status WHERE is_active = true ORDER BY sort_order, code`, statusFields)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.Status])
}

func (r *statusRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Status, error) {
	query := fmt.Sprintf(`SELECT %s FROM request_status WHERE id = $1 AND is_active = true`, statusFields)
	return r.scanStatus(r.storage.QueryRow(ctx, query, id))
}

// FindByCode сперва смотрит в кеш: коды статусов читаются на каждой операции
// воркфлоу, а меняются почти никогда. Ошибки кеша не фатальны, идём в базу.
func (r *statusRepository) FindByCode(ctx context.Context, code string) (*entities.Status, error) {
	if cached, err := r.cache.Get(ctx, statusCacheKey(code)); err == nil {
		var status entities.Status
		if err := json.Unmarshal([]byte(cached), &status); err == nil {
			return &status, nil
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM request_status WHERE code = $1 AND is_active = true LIMIT 1`, statusFields)
	status, err := r.scanStatus(r.storage.QueryRow(ctx, query, code))
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(status); err == nil {
		_ = r.cache.Set(ctx, statusCacheKey(code), raw, statusCacheTTL)
	}
	return status, nil
}

func (r *statusRepository) Create(ctx context.Context, payload dto.CreateStatusDTO) (*entities.Status, error) {
	query := fmt.Sprintf(`
		INSERT INTO request_status (code, name, sort_order, is_terminal)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, statusFields)
	status, err := r.scanStatus(r.storage.QueryRow(ctx, query,
		payload.Code, payload.Name, payload.SortOrder, payload.IsTerminal))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("статус с кодом %q уже существует: %w", payload.Code, apperrors.ErrConflict)
		}
		return nil, err
	}
	return status, nil
}

func (r *statusRepository) Update(ctx context.Context, id uuid.UUID, payload dto.UpdateStatusDTO) (*entities.Status, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	sortOrder := current.SortOrder
	isTerminal := current.IsTerminal
	if payload.Name != nil {
		name = *payload.Name
	}
	if payload.SortOrder != nil {
		sortOrder = *payload.SortOrder
	}
	if payload.IsTerminal != nil {
		isTerminal = *payload.IsTerminal
	}

	query := fmt.Sprintf(`
		UPDATE request_status
		SET name = $2, sort_order = $3, is_terminal = $4
		WHERE id = $1 AND is_active = true
		RETURNING %s`, statusFields)
	status, err := r.scanStatus(r.storage.QueryRow(ctx, query, id, name, sortOrder, isTerminal))
	if err != nil {
		return nil, err
	}
	_ = r.cache.Del(ctx, statusCacheKey(status.Code))
	return status, nil
}

func (r *statusRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	status, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx,
		`UPDATE request_status SET is_active = false WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.cache.Del(ctx, statusCacheKey(status.Code))
}

func (r *statusRepository) scanStatus(row pgx.Row) (*entities.Status, error) {
	var status entities.Status
	err := row.Scan(&status.ID, &status.Code, &status.Name, &status.SortOrder, &status.IsTerminal, &status.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}
