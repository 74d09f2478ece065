package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/entities"
	apperrors "request-board/pkg/errors"
)

const userFields = "id, username, full_name, email, password_hash, role_code, is_active, created_at"

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
}

type userRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND is_active = true`, userFields)
	return r.scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 AND is_active = true LIMIT 1`, userFields)
	return r.scanUser(r.storage.QueryRow(ctx, query, username))
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (username, full_name, email, password_hash, role_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, userFields)
	created, err := r.scanUser(r.storage.QueryRow(ctx, query,
		user.Username, user.FullName, user.Email, user.PasswordHash, user.RoleCode))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("пользователь %q уже существует: %w", user.Username, apperrors.ErrConflict)
		}
		return nil, err
	}
	return created, nil
}

func (r *userRepository) List(ctx context.Context) ([]entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE is_active = true ORDER BY username`, userFields)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.User])
}

func (r *userRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash,
		&u.RoleCode, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
