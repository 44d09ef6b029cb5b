package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func iv(startH, startM, endH, endM int) Interval {
	return Interval{Start: at(startH, startM), End: at(endH, endM)}
}

func TestNewInterval(t *testing.T) {
	_, err := NewInterval(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewInterval(at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrValidation)

	i, err := NewInterval(at(10, 0), at(11, 30))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, i.Duration())
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv(9, 0, 10, 0), iv(11, 0, 12, 0), false},
		{"touching is not overlap", iv(9, 0, 10, 0), iv(10, 0, 11, 0), false},
		{"partial", iv(9, 0, 10, 30), iv(10, 0, 11, 0), true},
		{"contained", iv(9, 0, 12, 0), iv(10, 0, 11, 0), true},
		{"equal", iv(10, 0, 11, 0), iv(10, 0, 11, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_Clip(t *testing.T) {
	clipped, ok := iv(8, 0, 12, 0).Clip(iv(9, 0, 17, 0))
	require.True(t, ok)
	assert.Equal(t, iv(9, 0, 12, 0), clipped)

	_, ok = iv(7, 0, 8, 0).Clip(iv(9, 0, 17, 0))
	assert.False(t, ok)
}

func TestMergeIntervals(t *testing.T) {
	merged := MergeIntervals([]Interval{
		iv(14, 0, 16, 0),
		iv(9, 0, 12, 0),
		iv(11, 0, 13, 0),
		iv(13, 0, 13, 30),
		iv(18, 0, 18, 0),
	})

	assert.Equal(t, []Interval{iv(9, 0, 13, 30), iv(14, 0, 16, 0)}, merged)
}

func TestMergeIntervals_KeepsGap(t *testing.T) {
	merged := MergeIntervals([]Interval{iv(9, 0, 12, 0), iv(12, 1, 15, 0)})
	assert.Len(t, merged, 2)
}

func TestSubtractIntervals(t *testing.T) {
	free := SubtractIntervals(
		[]Interval{iv(9, 0, 17, 0)},
		[]Interval{iv(10, 0, 11, 0), iv(12, 0, 12, 30), iv(16, 30, 18, 0)},
	)

	assert.Equal(t, []Interval{
		iv(9, 0, 10, 0),
		iv(11, 0, 12, 0),
		iv(12, 30, 16, 30),
	}, free)
}

func TestSubtractIntervals_WholeWindow(t *testing.T) {
	free := SubtractIntervals([]Interval{iv(9, 0, 17, 0)}, []Interval{iv(0, 0, 23, 59)})
	assert.Empty(t, free)
}

func TestISOWeekday(t *testing.T) {
	monday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Monday, ISOWeekday(monday))
	assert.Equal(t, Sunday, ISOWeekday(sunday))
}

func TestDayBounds_DST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2025-03-30 has 23 hours in Berlin
	day := DayBounds(time.Date(2025, time.March, 30, 15, 0, 0, 0, loc))
	assert.Equal(t, 23*time.Hour, day.Duration())
	assert.Equal(t, 0, day.End.Hour())
}
