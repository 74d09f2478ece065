package dto

import "github.com/google/uuid"

type BoardFilterDTO struct {
	StatusCode   string `query:"status_code"`
	TypeCode     string `query:"type_code"`
	PriorityCode string `query:"priority_code"`
	Page         uint64 `query:"page"`
	PageSize     uint64 `query:"page_size" validate:"omitempty,max=200"`
}

type ChangesQueryDTO struct {
	SinceID   int64         `query:"since_id" validate:"min=0"`
	RequestID uuid.NullUUID `query:"-"`
}

// ChangesResponseDTO — ответ поллинга. LatestID равен SinceID, когда новых
// событий нет, так что клиент может передавать его обратно без ветвлений.
type ChangesResponseDTO struct {
	LatestID   int64 `json:"latest_id"`
	NewCount   int64 `json:"new_count"`
	HasChanges bool  `json:"has_changes"`
}

type BoardEventsQueryDTO struct {
	RequestID uuid.NullUUID `query:"-"`
	Page      uint64        `query:"page"`
	PageSize  uint64        `query:"page_size" validate:"omitempty,max=200"`
}
