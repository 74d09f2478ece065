package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// Request — заявка, проходящая через воркфлоу доски.
// Инварианты: ClosedAt заполнен тогда и только тогда, когда текущий статус
// терминальный; FirstAssignedAt выставляется один раз и не перезаписывается.
type Request struct {
	ID              uuid.UUID   `db:"id"`
	Title           string      `db:"title"`
	Description     null.String `db:"description"`
	StatusID        uuid.UUID   `db:"status_id"`
	RequestTypeID   uuid.UUID   `db:"request_type_id"`
	PriorityID      uuid.UUID   `db:"priority_id"`
	IsActive        bool        `db:"is_active"`
	CreatedBy       uuid.UUID   `db:"created_by"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
	FirstAssignedAt null.Time   `db:"first_assigned_at"`
	ClosedAt        null.Time   `db:"closed_at"`
}
