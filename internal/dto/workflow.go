package dto

import "github.com/google/uuid"

type AssignDTO struct {
	AssignedTo uuid.UUID `json:"assigned_to" validate:"required"`
	Note       *string   `json:"note"`
}

// ChangeStatusDTO: целевой статус задаётся либо id, либо кодом, ровно одним.
type ChangeStatusDTO struct {
	StatusID   *uuid.UUID `json:"status_id"`
	StatusCode *string    `json:"status_code"`
	Note       *string    `json:"note"`
}

type AddCommentDTO struct {
	Comment string `json:"comment" validate:"required,min=1"`
}

type AddAttachmentDTO struct {
	FileName  string `json:"file_name" validate:"required"`
	FileURL   string `json:"file_url" validate:"required"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes" validate:"omitempty,min=0"`
}
