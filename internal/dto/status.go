package dto

type CreateStatusDTO struct {
	Code       string `json:"code" validate:"required,uppercase,min=2,max=64"`
	Name       string `json:"name" validate:"required"`
	SortOrder  int    `json:"sort_order"`
	IsTerminal bool   `json:"is_terminal"`
}

type UpdateStatusDTO struct {
	Name       *string `json:"name"`
	SortOrder  *int    `json:"sort_order"`
	IsTerminal *bool   `json:"is_terminal"`
}
