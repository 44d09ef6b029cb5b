package domain

import (
	"fmt"
	"sort"
	"time"
)

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval, rejecting start >= end
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: interval start %s must be before end %s",
			ErrValidation, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsEmpty returns true for zero-length or inverted intervals
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps reports half-open overlap: a.start < b.end && b.start < a.end.
// Touching intervals do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains returns true if other lies entirely within i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Clip returns the part of i inside bounds
func (i Interval) Clip(bounds Interval) (Interval, bool) {
	start := i.Start
	if bounds.Start.After(start) {
		start = bounds.Start
	}
	end := i.End
	if bounds.End.Before(end) {
		end = bounds.End
	}
	clipped := Interval{Start: start, End: end}
	return clipped, !clipped.IsEmpty()
}

// MergeIntervals sorts intervals and merges overlapping or adjacent ones.
// Empty intervals are dropped. Intervals separated by any gap stay apart.
func MergeIntervals(intervals []Interval) []Interval {
	sorted := make([]Interval, 0, len(intervals))
	for _, i := range intervals {
		if !i.IsEmpty() {
			sorted = append(sorted, i)
		}
	}
	if len(sorted) == 0 {
		return []Interval{}
	}

	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Start.Equal(sorted[b].Start) {
			return sorted[a].End.Before(sorted[b].End)
		}
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := []Interval{sorted[0]}
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !next.Start.After(last.End) {
			if next.End.After(last.End) {
				last.End = next.End
			}
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// SubtractIntervals removes every busy interval from windows.
// The result is sorted and non-overlapping.
func SubtractIntervals(windows, busy []Interval) []Interval {
	free := MergeIntervals(windows)
	for _, b := range MergeIntervals(busy) {
		next := make([]Interval, 0, len(free)+1)
		for _, w := range free {
			if !w.Overlaps(b) {
				next = append(next, w)
				continue
			}
			if w.Start.Before(b.Start) {
				next = append(next, Interval{Start: w.Start, End: b.Start})
			}
			if b.End.Before(w.End) {
				next = append(next, Interval{Start: b.End, End: w.End})
			}
		}
		free = next
	}
	return free
}

// DayBounds returns [00:00, next day 00:00) of date in its location
func DayBounds(date time.Time) Interval {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// DateOnly truncates t to midnight in its location
func DateOnly(t time.Time) time.Time {
	return DayBounds(t).Start
}

// ISOWeekday returns 1 = Monday ... 7 = Sunday.
// time.Sunday (0) is normalized to 7.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return Sunday
	}
	return wd
}
