package scheduling

import (
	"fmt"
	"time"
)

const (
	DefaultOpenHour    = 9
	DefaultCloseHour   = 19
	DefaultStepMinutes = 15
)

// GenerateSlots returns every "HH:MM" from openHour:00 up to, but excluding,
// closeHour:00, advancing by stepMinutes. Invalid bounds yield an empty slice.
func GenerateSlots(openHour, closeHour, stepMinutes int) []string {
	slots := []string{}
	if openHour < 0 || closeHour > 24 || openHour >= closeHour || stepMinutes <= 0 {
		return slots
	}

	end := closeHour * 60
	for m := openHour * 60; m < end; m += stepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// DefaultSlots is GenerateSlots(9, 19, 15).
func DefaultSlots() []string {
	return GenerateSlots(DefaultOpenHour, DefaultCloseHour, DefaultStepMinutes)
}

// StepDividesHour reports whether slots generated with step stay aligned to
// the top of every hour. A false result is advisory; such steps are accepted.
func StepDividesHour(stepMinutes int) bool {
	return stepMinutes > 0 && 60%stepMinutes == 0
}

// Interval is a half-open wall-clock range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) overlaps(start, end time.Time) bool {
	return start.Before(i.End) && i.Start.Before(end)
}

// AvailableSlots drops every slot whose [start, start+duration) overlaps a busy
// interval on the given date. Touching intervals do not overlap.
func AvailableSlots(slots []string, date string, durationMinutes int, busy []Interval) ([]string, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if durationMinutes < MinDurationMinutes {
		durationMinutes = MinDurationMinutes
	}

	free := make([]string, 0, len(slots))
	for _, slot := range slots {
		h, m, err := ParseTimeOfDay(slot)
		if err != nil {
			return nil, err
		}
		start := day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
		end := start.Add(time.Duration(durationMinutes) * time.Minute)
		if !overlapsAny(busy, start, end) {
			free = append(free, slot)
		}
	}
	return free, nil
}

func overlapsAny(busy []Interval, start, end time.Time) bool {
	for _, b := range busy {
		if b.overlaps(start, end) {
			return true
		}
	}
	return false
}
