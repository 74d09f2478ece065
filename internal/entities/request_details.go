package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// RequestDetails — заявка вместе со справочными кодами и активным
// исполнителем. Форма строки списков и карточек доски.
type RequestDetails struct {
	ID              uuid.UUID     `db:"id"`
	Title           string        `db:"title"`
	Description     null.String   `db:"description"`
	StatusID        uuid.UUID     `db:"status_id"`
	StatusCode      string        `db:"status_code"`
	StatusName      string        `db:"status_name"`
	IsTerminal      bool          `db:"is_terminal"`
	TypeCode        string        `db:"type_code"`
	TypeName        string        `db:"type_name"`
	PriorityCode    string        `db:"priority_code"`
	PriorityName    string        `db:"priority_name"`
	AssignedTo      uuid.NullUUID `db:"assigned_to"`
	AssigneeName    null.String   `db:"assignee_name"`
	CreatedBy       uuid.UUID     `db:"created_by"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
	FirstAssignedAt null.Time     `db:"first_assigned_at"`
	ClosedAt        null.Time     `db:"closed_at"`
}
