package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"request-board/internal/dto"
	"request-board/internal/entities"
	"request-board/pkg/constants"
	apperrors "request-board/pkg/errors"
)

func adminActor() dto.Actor {
	return dto.Actor{ID: uuid.New(), RoleCode: constants.RoleAdmin, Username: "admin"}
}

func analystActor() dto.Actor {
	return dto.Actor{ID: uuid.New(), RoleCode: constants.RoleAnalyst, Username: "analyst"}
}

func statusRef(code string, terminal bool) entities.StatusRef {
	return entities.StatusRef{ID: uuid.New(), Code: code, IsTerminal: terminal}
}

func TestValidateSource(t *testing.T) {
	t.Run("нетерминальный источник проходит", func(t *testing.T) {
		err := validateSource(statusRef(constants.StatusInProgress, false))
		assert.NoError(t, err)
	})

	t.Run("терминальный источник даёт конфликт", func(t *testing.T) {
		err := validateSource(statusRef(constants.StatusDone, true))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrConflict), "ожидался ErrConflict, получено: %v", err)
	})
}

func TestAuthorizeTransition(t *testing.T) {
	analyst := analystActor()
	other := uuid.New()

	held := func(id uuid.UUID) uuid.NullUUID {
		return uuid.NullUUID{UUID: id, Valid: true}
	}

	t.Run("администратору доступен любой переход", func(t *testing.T) {
		err := authorizeTransition(adminActor(), uuid.NullUUID{}, statusRef(constants.StatusUnassigned, false))
		assert.NoError(t, err)
	})

	t.Run("исполнитель со своим назначением переводит заявку", func(t *testing.T) {
		err := authorizeTransition(analyst, held(analyst.ID), statusRef(constants.StatusInProgress, false))
		assert.NoError(t, err)
	})

	t.Run("без активного назначения - конфликт", func(t *testing.T) {
		err := authorizeTransition(analyst, uuid.NullUUID{}, statusRef(constants.StatusInProgress, false))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrConflict), "ожидался ErrConflict, получено: %v", err)
	})

	t.Run("чужое назначение - запрещено", func(t *testing.T) {
		err := authorizeTransition(analyst, held(other), statusRef(constants.StatusInProgress, false))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden), "ожидался ErrForbidden, получено: %v", err)
	})

	t.Run("исполнителю нельзя снимать назначение", func(t *testing.T) {
		err := authorizeTransition(analyst, held(analyst.ID), statusRef(constants.StatusUnassigned, false))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden), "ожидался ErrForbidden, получено: %v", err)
	})

	t.Run("исполнитель может закрыть свою заявку", func(t *testing.T) {
		err := authorizeTransition(analyst, held(analyst.ID), statusRef(constants.StatusDone, true))
		assert.NoError(t, err)
	})
}
