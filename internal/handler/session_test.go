//go:build unit

package handler_test

import (
	"testing"

	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/handler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	t.Run("初期状態では予約を保持しない", func(t *testing.T) {
		session := handler.NewSession()
		_, ok := session.LastAdmitted()
		assert.False(t, ok)
	})

	t.Run("成功した予約で上書きされる", func(t *testing.T) {
		session := handler.NewSession()
		start, err := schedule.NewTimeOfDay(10, 0)
		require.NoError(t, err)

		first := schedule.NewInterval("1", 0, 0, start, 30)
		second := schedule.NewInterval("1", 1, 1, start, 60)

		session.SetAdmitted(first)
		got, ok := session.LastAdmitted()
		require.True(t, ok)
		assert.Equal(t, first, got)

		session.SetAdmitted(second)
		got, ok = session.LastAdmitted()
		require.True(t, ok)
		assert.Equal(t, second, got)
	})

	t.Run("セッションIDは接続ごとに異なる", func(t *testing.T) {
		assert.NotEqual(t, handler.NewSession().ID(), handler.NewSession().ID())
	})
}
