package entities

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `db:"id"`
	RequestID uuid.UUID `db:"request_id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Comment   string    `db:"comment"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
