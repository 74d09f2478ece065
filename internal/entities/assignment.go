package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// Assignment — строка журнала назначений. На заявку в любой момент
// приходится не более одной строки с IsActive=true и UnassignedAt=null.
type Assignment struct {
	ID           uuid.UUID   `db:"id"`
	RequestID    uuid.UUID   `db:"request_id"`
	AssignedTo   uuid.UUID   `db:"assigned_to"`
	AssignedBy   uuid.UUID   `db:"assigned_by"`
	AssignedAt   time.Time   `db:"assigned_at"`
	UnassignedAt null.Time   `db:"unassigned_at"`
	Note         null.String `db:"note"`
	IsActive     bool        `db:"is_active"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}
