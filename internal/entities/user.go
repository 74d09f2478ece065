package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Username     string    `db:"username"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	RoleCode     string    `db:"role_code"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
}
