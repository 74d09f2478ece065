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

const commentFields = "id, request_id, author_id, comment, is_active, created_at, updated_at"

// CommentItem - комментарий вместе с именем автора.
type CommentItem struct {
	entities.Comment
	AuthorName null.String `db:"author_name"`
}

type CommentRepositoryInterface interface {
	Insert(ctx context.Context, tx pgx.Tx, requestID, authorID uuid.UUID, comment string) (*entities.Comment, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]CommentItem, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	storage *pgxpool.Pool
}

func NewCommentRepository(storage *pgxpool.Pool) CommentRepositoryInterface {
	return &commentRepository{storage: storage}
}

func (r *commentRepository) Insert(ctx context.Context, tx pgx.Tx, requestID, authorID uuid.UUID, comment string) (*entities.Comment, error) {
	query := fmt.Sprintf(`
		INSERT INTO request_comments (request_id, author_id, comment)
		VALUES ($1, $2, $3)
		RETURNING %s`, commentFields)
	var out entities.Comment
	err := tx.QueryRow(ctx, query, requestID, authorID, comment).
		Scan(&out.ID, &out.RequestID, &out.AuthorID, &out.Comment, &out.IsActive, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("не удалось сохранить комментарий: %w", err)
	}
	return &out, nil
}

func (r *commentRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]CommentItem, error) {
	query := `
		SELECT c.id, c.request_id, c.author_id, c.comment, c.is_active, c.created_at, c.updated_at,
		       u.full_name AS author_name
		FROM request_comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.request_id = $1 AND c.is_active = true
		ORDER BY c.created_at`
	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[CommentItem])
}

func (r *commentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE request_comments SET is_active = false, updated_at = now() WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
