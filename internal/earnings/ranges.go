package earnings

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05"

var ErrUnknownPreset = errors.New("unknown range preset")

const (
	PresetToday = "today"
	PresetWeek  = "week"
	PresetMonth = "month"
)

// Range is an inclusive wall-clock query window.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) StartString() string { return r.Start.Format(timestampLayout) }
func (r Range) EndString() string   { return r.End.Format(timestampLayout) }

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// Today spans the local day containing now.
func Today(now time.Time) Range {
	return Range{Start: startOfDay(now), End: endOfDay(now)}
}

// ThisWeek spans Monday 00:00:00 through Sunday 23:59:59 of the week containing now.
func ThisWeek(now time.Time) Range {
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	sunday := time.Date(monday.Year(), monday.Month(), monday.Day()+6, 23, 59, 59, 0, now.Location())
	return Range{Start: monday, End: sunday}
}

// ThisMonth spans the first through the last calendar day of now's month.
func ThisMonth(now time.Time) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := time.Date(now.Year(), now.Month()+1, 0, 23, 59, 59, 0, now.Location())
	return Range{Start: first, End: last}
}

// PresetRange resolves a preset name relative to now.
func PresetRange(name string, now time.Time) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetToday, "":
		return Today(now), nil
	case PresetWeek, "this_week":
		return ThisWeek(now), nil
	case PresetMonth, "this_month":
		return ThisMonth(now), nil
	}
	return Range{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Custom spans startDay 00:00:00 through endDay 23:59:59 (both YYYY-MM-DD).
func Custom(startDay, endDay string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := time.ParseInLocation("2006-01-02", startDay, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start day %q: %w", startDay, err)
	}
	e, err := time.ParseInLocation("2006-01-02", endDay, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end day %q: %w", endDay, err)
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("end day %s is before start day %s", endDay, startDay)
	}
	return Range{Start: startOfDay(s), End: endOfDay(e)}, nil
}
