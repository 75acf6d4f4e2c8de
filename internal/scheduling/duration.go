package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinDurationMinutes is the shortest bookable appointment.
	MinDurationMinutes = 5

	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
	// TimestampLayout is the zone-less wall-clock format exchanged with the API.
	TimestampLayout = "2006-01-02T15:04:05"
)

// ParseDate parses a YYYY-MM-DD calendar date as a naive wall-clock midnight.
// Times are carried in UTC purely as a container; no offset is ever applied.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, date)
	}
	return d, nil
}

// ParseTimeOfDay parses HH:MM into hour and minute.
func ParseTimeOfDay(value string) (int, int, error) {
	t, err := time.Parse(TimeOfDayLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, value)
	}
	return t.Hour(), t.Minute(), nil
}

// ResolveEndTime adds totalMinutes to the wall-clock instant built from
// dateLocal and startTimeOfDay and formats the result as YYYY-MM-DDTHH:MM:SS.
// Day, month and year rollover are handled by calendar arithmetic.
func ResolveEndTime(dateLocal, startTimeOfDay string, totalMinutes int) (string, error) {
	start, err := StartInstant(dateLocal, startTimeOfDay)
	if err != nil {
		return "", err
	}
	if totalMinutes < MinDurationMinutes {
		totalMinutes = MinDurationMinutes
	}
	return start.Add(time.Duration(totalMinutes) * time.Minute).Format(TimestampLayout), nil
}

// StartInstant builds the naive start instant with seconds set to zero.
func StartInstant(dateLocal, startTimeOfDay string) (time.Time, error) {
	day, err := ParseDate(dateLocal)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := ParseTimeOfDay(startTimeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC), nil
}

// FormatStart is the start counterpart of ResolveEndTime.
func FormatStart(dateLocal, startTimeOfDay string) (string, error) {
	start, err := StartInstant(dateLocal, startTimeOfDay)
	if err != nil {
		return "", err
	}
	return start.Format(TimestampLayout), nil
}

// TotalMinutes is max(5, hours*60 + minutes).
func TotalMinutes(hours, minutes int) int {
	total := hours*60 + minutes
	if total < MinDurationMinutes {
		return MinDurationMinutes
	}
	return total
}

// ParseDurationField converts a raw form entry to an integer. Empty or
// non-numeric entries become 0 and are clamped later by TotalMinutes.
func ParseDurationField(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SplitMinutes turns a catalog duration into the hours/minutes form fields.
func SplitMinutes(total int) (int, int) {
	if total < 0 {
		total = 0
	}
	return total / 60, total % 60
}
