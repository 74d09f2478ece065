package controllers

import (
	"context"

	"github.com/google/uuid"

	"request-board/internal/dto"
	"request-board/pkg/contextkeys"
	apperrors "request-board/pkg/errors"
)

// actorFromContext восстанавливает личность актора, положенную в контекст
// auth-middleware. Отсутствие значений означает, что маршрут подключён
// мимо middleware, это ошибка конфигурации.
func actorFromContext(ctx context.Context) (dto.Actor, error) {
	id, ok := ctx.Value(contextkeys.ActorIDKey).(uuid.UUID)
	if !ok {
		return dto.Actor{}, apperrors.ErrActorNotFoundInContext
	}
	roleCode, ok := ctx.Value(contextkeys.RoleCodeKey).(string)
	if !ok {
		return dto.Actor{}, apperrors.ErrActorNotFoundInContext
	}
	username, _ := ctx.Value(contextkeys.UsernameKey).(string)
	return dto.Actor{ID: id, RoleCode: roleCode, Username: username}, nil
}
