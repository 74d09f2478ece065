package entities

import (
	"time"

	"github.com/google/uuid"
)

// BoardEvent — запись ленты событий доски. Монотонно растущий ID служит
// курсором для polling-клиентов (get-changes).
type BoardEvent struct {
	ID        int64                  `db:"id"`
	EventType string                 `db:"event_type"`
	RequestID uuid.NullUUID          `db:"request_id"`
	ActorID   uuid.NullUUID          `db:"actor_id"`
	Payload   map[string]interface{} `db:"payload"`
	CreatedAt time.Time              `db:"created_at"`
}
