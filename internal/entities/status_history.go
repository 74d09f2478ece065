package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// StatusHistoryEntry — строка append-only журнала смен статуса.
// FromStatusID пуст только для записи о создании заявки. Журнал — источник
// истины для расчёта времени нахождения в статусе.
type StatusHistoryEntry struct {
	ID           uuid.UUID     `db:"id"`
	RequestID    uuid.UUID     `db:"request_id"`
	FromStatusID uuid.NullUUID `db:"from_status_id"`
	ToStatusID   uuid.UUID     `db:"to_status_id"`
	ChangedBy    uuid.UUID     `db:"changed_by"`
	ChangedAt    time.Time     `db:"changed_at"`
	Note         null.String   `db:"note"`
	IsActive     bool          `db:"is_active"`
}
