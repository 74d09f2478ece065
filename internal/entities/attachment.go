package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type Attachment struct {
	ID         uuid.UUID   `db:"id"`
	RequestID  uuid.UUID   `db:"request_id"`
	UploadedBy uuid.UUID   `db:"uploaded_by"`
	FileName   string      `db:"file_name"`
	FileURL    string      `db:"file_url"`
	MimeType   null.String `db:"mime_type"`
	SizeBytes  null.Int64  `db:"size_bytes"`
	IsActive   bool        `db:"is_active"`
	CreatedAt  time.Time   `db:"created_at"`
}
