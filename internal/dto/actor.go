package dto

import (
	"github.com/google/uuid"

	"request-board/pkg/constants"
)

// Actor — личность, от имени которой выполняется операция. Заполняется
// auth-middleware из токена и прокидывается в сервисы явно.
type Actor struct {
	ID       uuid.UUID
	RoleCode string
	Username string
}

func (a Actor) IsAdmin() bool {
	return a.RoleCode == constants.RoleAdmin
}
