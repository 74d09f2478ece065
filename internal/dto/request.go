package dto

import "github.com/google/uuid"

type CreateRequestDTO struct {
	Title        string  `json:"title" validate:"required,min=3,max=255"`
	Description  *string `json:"description"`
	TypeCode     string  `json:"type_code" validate:"required"`
	PriorityCode string  `json:"priority_code" validate:"required"`
}

type UpdateRequestDTO struct {
	Title        *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description  *string `json:"description"`
	PriorityCode *string `json:"priority_code"`
}

// RequestFilterDTO — параметры списка заявок. Пустые поля не фильтруют.
type RequestFilterDTO struct {
	StatusCode    string        `query:"status_code"`
	TypeCode      string        `query:"type_code"`
	PriorityCode  string        `query:"priority_code"`
	AssignedTo    uuid.NullUUID `query:"-"`
	Search        string        `query:"search"`
	IncludeClosed bool          `query:"include_closed"`
	Page          uint64        `query:"page"`
	PageSize      uint64        `query:"page_size" validate:"omitempty,max=200"`
}
