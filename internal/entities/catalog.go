package entities

import "github.com/google/uuid"

type RequestType struct {
	ID       uuid.UUID `db:"id"`
	Code     string    `db:"code"`
	Name     string    `db:"name"`
	IsActive bool      `db:"is_active"`
}

type RequestPriority struct {
	ID        uuid.UUID `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	SortOrder int       `db:"sort_order"`
	IsActive  bool      `db:"is_active"`
}
