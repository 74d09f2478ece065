package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/entities"
	apperrors "request-board/pkg/errors"
)

// CatalogRepositoryInterface - справочники типов и приоритетов заявок.
type CatalogRepositoryInterface interface {
	FindTypeByCode(ctx context.Context, code string) (*entities.RequestType, error)
	FindPriorityByCode(ctx context.Context, code string) (*entities.RequestPriority, error)
	ListTypes(ctx context.Context) ([]entities.RequestType, error)
	ListPriorities(ctx context.Context) ([]entities.RequestPriority, error)
}

type catalogRepository struct {
	storage *pgxpool.Pool
}

func NewCatalogRepository(storage *pgxpool.Pool) CatalogRepositoryInterface {
	return &catalogRepository{storage: storage}
}

func (r *catalogRepository) FindTypeByCode(ctx context.Context, code string) (*entities.RequestType, error) {
	var t entities.RequestType
	err := r.storage.QueryRow(ctx,
		`SELECT id, code, name, is_active FROM request_types WHERE code = $1 AND is_active = true LIMIT 1`, code).
		Scan(&t.ID, &t.Code, &t.Name, &t.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *catalogRepository) FindPriorityByCode(ctx context.Context, code string) (*entities.RequestPriority, error) {
	var p entities.RequestPriority
	err := r.storage.QueryRow(ctx,
		`SELECT id, code, name, sort_order, is_active FROM request_priorities WHERE code = $1 AND is_active = true LIMIT 1`, code).
		Scan(&p.ID, &p.Code, &p.Name, &p.SortOrder, &p.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ListTypes(ctx context.Context) ([]entities.RequestType, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, code, name, is_active FROM request_types WHERE is_active = true ORDER BY code`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.RequestType])
}

func (r *catalogRepository) ListPriorities(ctx context.Context) ([]entities.RequestPriority, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, code, name, sort_order, is_active FROM request_priorities WHERE is_active = true ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.RequestPriority])
}
