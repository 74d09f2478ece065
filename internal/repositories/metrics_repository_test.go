package repositories

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "request-board/pkg/errors"
)

func TestDistributionDimension(t *testing.T) {
	t.Run("известные измерения дают join и ключ", func(t *testing.T) {
		for _, dimension := range []string{"status", "priority", "type", "assignee"} {
			keyExpr, nameExpr, joinSQL, err := distributionDimension(dimension, false)
			require.NoError(t, err, dimension)
			assert.NotEmpty(t, keyExpr, dimension)
			assert.NotEmpty(t, nameExpr, dimension)
			assert.NotEmpty(t, joinSQL, dimension)
		}
	})

	t.Run("в срезе созданных исполнитель считается по автору", func(t *testing.T) {
		_, _, joinSQL, err := distributionDimension("assignee", true)
		require.NoError(t, err)
		assert.Contains(t, joinSQL, "created_by")
	})

	t.Run("неизвестное измерение - ошибка запроса", func(t *testing.T) {
		_, _, _, err := distributionDimension("team", false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest), "ожидался ErrBadRequest, получено: %v", err)
	})
}

func TestRequestFilterSQLNumbering(t *testing.T) {
	sql := requestFilterSQL(4)
	for _, placeholder := range []string{"$4", "$5", "$6", "$7"} {
		assert.Contains(t, sql, placeholder)
	}
	assert.False(t, strings.Contains(sql, "$8"))
}
