package entities

import "github.com/google/uuid"

// Status — запись каталога статусов. Граф переходов задаётся данными,
// а не кодом: движок проверяет только терминальность источника и права актора.
type Status struct {
	ID         uuid.UUID `db:"id"`
	Code       string    `db:"code"`
	Name       string    `db:"name"`
	SortOrder  int       `db:"sort_order"`
	IsTerminal bool      `db:"is_terminal"`
	IsActive   bool      `db:"is_active"`
}

// StatusRef — разрешённая на момент вызова ссылка на статус, ровно то,
// что нужно движку для принятия решения.
type StatusRef struct {
	ID         uuid.UUID
	Code       string
	IsTerminal bool
}

func (s Status) Ref() StatusRef {
	return StatusRef{ID: s.ID, Code: s.Code, IsTerminal: s.IsTerminal}
}
