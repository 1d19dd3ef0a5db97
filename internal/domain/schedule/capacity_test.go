//go:build unit

package schedule_test

import (
	"testing"

	"clinic-booking/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCapacityTable(t *testing.T) {
	t.Run("基準行から各拠点の容量行を導出する", func(t *testing.T) {
		table, err := schedule.NewCapacityTable(3, 2, []int{100, 250}, []int{30, 60}, []int{2, 3})
		require.NoError(t, err)

		// 拠点0は基準行そのまま、拠点lは基準×l
		assert.Equal(t, 2, table.MaxConcurrent(0, 0))
		assert.Equal(t, 3, table.MaxConcurrent(0, 1))
		assert.Equal(t, 2, table.MaxConcurrent(1, 0))
		assert.Equal(t, 3, table.MaxConcurrent(1, 1))
		assert.Equal(t, 4, table.MaxConcurrent(2, 0))
		assert.Equal(t, 6, table.MaxConcurrent(2, 1))

		assert.Equal(t, 100, table.Cost(0))
		assert.Equal(t, 60, table.DurationMin(1))
	})

	t.Run("不正な構成は拒否する", func(t *testing.T) {
		cases := []struct {
			name       string
			locations  int
			treatments int
			cost       []int
			duration   []int
			capacity   []int
			errIs      error
		}{
			{"拠点ゼロNG", 0, 1, []int{1}, []int{1}, []int{1}, schedule.ErrNoLocations},
			{"施術ゼロNG", 1, 0, nil, nil, nil, schedule.ErrNoTreatments},
			{"費用の数が不一致NG", 1, 2, []int{1}, []int{1, 1}, []int{1, 1}, schedule.ErrCostCountMismatch},
			{"所要時間の数が不一致NG", 1, 2, []int{1, 1}, []int{1}, []int{1, 1}, schedule.ErrDurationMismatch},
			{"容量の数が不一致NG", 1, 2, []int{1, 1}, []int{1, 1}, []int{1}, schedule.ErrCapacityMismatch},
			{"所要時間ゼロNG", 1, 1, []int{1}, []int{0}, []int{1}, schedule.ErrNonPositiveMinutes},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := schedule.NewCapacityTable(tc.locations, tc.treatments, tc.cost, tc.duration, tc.capacity)
				require.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestValidateIndices(t *testing.T) {
	table, err := schedule.NewCapacityTable(2, 2, []int{1, 1}, []int{1, 1}, []int{1, 1})
	require.NoError(t, err)

	assert.NoError(t, table.ValidateLocation(0))
	assert.NoError(t, table.ValidateLocation(1))
	assert.ErrorIs(t, table.ValidateLocation(2), schedule.ErrInvalidLocation)
	assert.ErrorIs(t, table.ValidateLocation(-1), schedule.ErrInvalidLocation)
	assert.ErrorIs(t, table.ValidateTreatment(2), schedule.ErrInvalidTreatment)
}
