package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"request-board/internal/entities"
	apperrors "request-board/pkg/errors"
)

const attachmentFields = "id, request_id, uploaded_by, file_name, file_url, mime_type, size_bytes, is_active, created_at"

type AttachmentRepositoryInterface interface {
	Insert(ctx context.Context, tx pgx.Tx, att *entities.Attachment) (*entities.Attachment, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]entities.Attachment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type attachmentRepository struct {
	storage *pgxpool.Pool
}

func NewAttachmentRepository(storage *pgxpool.Pool) AttachmentRepositoryInterface {
	return &attachmentRepository{storage: storage}
}

func (r *attachmentRepository) Insert(ctx context.Context, tx pgx.Tx, att *entities.Attachment) (*entities.Attachment, error) {
	query := fmt.Sprintf(`
		INSERT INTO request_attachments (request_id, uploaded_by, file_name, file_url, mime_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, attachmentFields)
	var out entities.Attachment
	err := tx.QueryRow(ctx, query,
		att.RequestID, att.UploadedBy, att.FileName, att.FileURL, att.MimeType, att.SizeBytes).
		Scan(&out.ID, &out.RequestID, &out.UploadedBy, &out.FileName, &out.FileURL,
			&out.MimeType, &out.SizeBytes, &out.IsActive, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("не удалось сохранить вложение: %w", err)
	}
	return &out, nil
}

func (r *attachmentRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]entities.Attachment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM request_attachments
		WHERE request_id = $1 AND is_active = true
		ORDER BY created_at`, attachmentFields)
	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.Attachment])
}

func (r *attachmentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE request_attachments SET is_active = false WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
