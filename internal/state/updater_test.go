// SPDX-License-Identifier: MIT
package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordav/playcore/internal/types"
)

func collectUpdates(t *testing.T) (*Updater, *[]Update) {
	t.Helper()
	var got []Update
	u := NewUpdater(func(update Update) {
		got = append(got, update)
	})
	return u, &got
}

func TestUpdaterForwardsDistinctValues(t *testing.T) {
	u, got := collectUpdates(t)

	u.Update(Update{KeyPosition: float64(10), KeyIsPaused: false})
	require.Len(t, *got, 1)
	assert.Equal(t, Update{KeyPosition: float64(10), KeyIsPaused: false}, (*got)[0])

	// Same values again: no sink call at all.
	u.Update(Update{KeyPosition: float64(10), KeyIsPaused: false})
	assert.Len(t, *got, 1)

	// One changed key: only that key is forwarded.
	u.Update(Update{KeyPosition: float64(11), KeyIsPaused: false})
	require.Len(t, *got, 2)
	assert.Equal(t, Update{KeyPosition: float64(11)}, (*got)[1])
}

func TestUpdaterDistinctnessRules(t *testing.T) {
	tests := []struct {
		name      string
		first     any
		second    any
		forwarded bool
	}{
		{"identical floats", float64(5), float64(5), false},
		{"changed floats", float64(5), float64(6), true},
		{"int equals float", 5, float64(5), false},
		{"nan equals nan", math.NaN(), math.NaN(), false},
		{"nil equals typed nil", nil, (*types.PlaybackError)(nil), false},
		{"typed nil equals nil", (*types.AvailableTrack)(nil), nil, false},
		{"nil to value", (*types.PlaybackError)(nil), &types.PlaybackError{Code: types.CodeStreamError}, true},
		{"equal slices", []types.Bitrate{{Kbps: 100}}, []types.Bitrate{{Kbps: 100}}, false},
		{"changed slices", []types.Bitrate{{Kbps: 100}}, []types.Bitrate{{Kbps: 200}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, got := collectUpdates(t)
			u.Update(Update{KeyError: tt.first})
			require.Len(t, *got, 1)

			u.Update(Update{KeyError: tt.second})
			if tt.forwarded {
				assert.Len(t, *got, 2)
			} else {
				assert.Len(t, *got, 1)
			}
		})
	}
}

func TestUpdaterSanitizesNonFiniteNumbers(t *testing.T) {
	u, got := collectUpdates(t)

	u.Update(Update{KeyPosition: math.NaN(), KeyDuration: math.Inf(1)})
	require.Len(t, *got, 1)
	assert.Equal(t, float64(0), (*got)[0][KeyPosition])
	assert.Equal(t, float64(0), (*got)[0][KeyDuration])

	// The sanitized value is what distinctness compares against.
	u.Update(Update{KeyPosition: float64(0)})
	assert.Len(t, *got, 1)
}

func TestUpdaterReset(t *testing.T) {
	u, got := collectUpdates(t)

	u.Update(Update{KeyVolume: float64(1)})
	u.Update(Update{KeyVolume: float64(1)})
	require.Len(t, *got, 1)

	u.Reset()
	u.Update(Update{KeyVolume: float64(1)})
	assert.Len(t, *got, 2, "reset must forget last-known values")
}

func TestUpdaterCustomFilter(t *testing.T) {
	u, got := collectUpdates(t)
	u.SetFilter(KeyVolume, func(v any) any {
		f, ok := v.(float64)
		if !ok {
			return v
		}
		return math.Min(math.Max(f, 0), 1)
	})

	u.Update(Update{KeyVolume: float64(4)})
	require.Len(t, *got, 1)
	assert.Equal(t, float64(1), (*got)[0][KeyVolume])
}

func TestUpdaterLast(t *testing.T) {
	u, _ := collectUpdates(t)

	_, ok := u.Last(KeyPosition)
	assert.False(t, ok)

	u.Update(Update{KeyPosition: float64(42)})
	v, ok := u.Last(KeyPosition)
	require.True(t, ok)
	assert.Equal(t, float64(42), v)
}
