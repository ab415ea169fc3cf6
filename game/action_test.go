package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrivalInTicks(t *testing.T) {
	t.Run("remaining distance", func(t *testing.T) {
		a := BoardAction{Progress: Progress{Distance: 10, Traveled: 4}}
		require.Equal(t, 6, a.ArrivalInTicks())
	})

	t.Run("arrived action", func(t *testing.T) {
		a := BoardAction{Progress: Progress{Distance: 10, Traveled: 10}}
		require.Equal(t, 0, a.ArrivalInTicks())
	})

	t.Run("overshooting progress saturates at zero", func(t *testing.T) {
		a := BoardAction{Progress: Progress{Distance: 3, Traveled: 5}}
		require.Equal(t, 0, a.ArrivalInTicks(), "Arrival must never be negative")
	})
}

func TestAmountAtTarget(t *testing.T) {
	paths := PathConfig{GracePeriod: 5, DeathRate: 2}

	t.Run("within grace period all bits arrive", func(t *testing.T) {
		a := BoardAction{Amount: 20, Progress: Progress{Distance: 4}}
		require.Equal(t, 20, a.AmountAtTarget(paths))
	})

	t.Run("at grace period no bits die", func(t *testing.T) {
		a := BoardAction{Amount: 20, Progress: Progress{Distance: 5}}
		require.Equal(t, 20, a.AmountAtTarget(paths))
	})

	t.Run("beyond grace period bits die per unit of distance", func(t *testing.T) {
		a := BoardAction{Amount: 20, Progress: Progress{Distance: 8}}
		require.Equal(t, 14, a.AmountAtTarget(paths), "Should lose death rate times excess distance")
	})

	t.Run("losses depend on total distance not progress", func(t *testing.T) {
		a := BoardAction{Amount: 20, Progress: Progress{Distance: 8, Traveled: 7}}
		require.Equal(t, 14, a.AmountAtTarget(paths))
	})

	t.Run("losses exceeding the amount clamp to zero", func(t *testing.T) {
		a := BoardAction{Amount: 3, Progress: Progress{Distance: 50}}
		require.Equal(t, 0, a.AmountAtTarget(paths))
	})

	t.Run("non-increasing in distance and never negative", func(t *testing.T) {
		previous := -1
		for d := 0; d < 40; d++ {
			got := BoardAction{Amount: 30, Progress: Progress{Distance: d}}.AmountAtTarget(paths)
			require.GreaterOrEqual(t, got, 0, "Distance %d", d)
			if previous >= 0 {
				require.LessOrEqual(t, got, previous, "Distance %d should not gain bits", d)
			}
			previous = got
		}
	})
}

func TestPlayerActionIsUpgrade(t *testing.T) {
	require.True(t, PlayerAction{Src: 3, Dest: 3, Amount: 1}.IsUpgrade())
	require.False(t, PlayerAction{Src: 3, Dest: 4, Amount: 1}.IsUpgrade())
}
