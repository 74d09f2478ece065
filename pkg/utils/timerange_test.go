package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "request-board/pkg/errors"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("пустые границы дают окно в 30 дней", func(t *testing.T) {
		from, to, err := ResolveRange("", "", now)
		require.NoError(t, err)
		assert.Equal(t, now, to)
		assert.Equal(t, now.AddDate(0, 0, -29), from)
	})

	t.Run("явные границы разбираются в начало и конец суток", func(t *testing.T) {
		from, to, err := ResolveRange("2025-05-01", "2025-05-31", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2025, 5, 31, 23, 59, 59, 999_000_000, time.UTC), to)
	})

	t.Run("только dateTo - окно отсчитывается от него", func(t *testing.T) {
		from, to, err := ResolveRange("", "2025-05-31", now)
		require.NoError(t, err)
		assert.Equal(t, to.AddDate(0, 0, -29), from)
	})

	t.Run("неверный формат даты", func(t *testing.T) {
		_, _, err := ResolveRange("31-05-2025", "", now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	})

	t.Run("перевёрнутый диапазон", func(t *testing.T) {
		_, _, err := ResolveRange("2025-06-01", "2025-05-01", now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	})
}
