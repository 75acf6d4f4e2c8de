package earnings

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// Appointment is the read-only record the aggregator consumes.
type Appointment struct {
	ID          int64  `json:"id"`
	ClientID    int64  `json:"client_id"`
	StaffID     int64  `json:"staff_id"`
	ServiceName string `json:"service_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Notes       string `json:"notes,omitempty"`
	Price       Price  `json:"price"`
}

// Day is the calendar day of the appointment, the first ten characters of StartTime.
func (a Appointment) Day() string {
	if len(a.StartTime) < 10 {
		return a.StartTime
	}
	return a.StartTime[:10]
}

type Bucket struct {
	Day      string          `json:"day"`
	Items    []Appointment   `json:"items"`
	DayTotal decimal.Decimal `json:"dayTotal"`
}

type Summary struct {
	Start string          `json:"start,omitempty"`
	End   string          `json:"end,omitempty"`
	Total decimal.Decimal `json:"total"`
	ByDay []Bucket        `json:"byDay"`
}

// Aggregate sums prices and groups appointments by day. Input is trusted to
// already lie within [rangeStart, rangeEnd]; no filtering happens here.
// Days come out in ascending order and items keep their input order.
func Aggregate(appointments []Appointment, rangeStart, rangeEnd string) Summary {
	summary := Summary{
		Start: rangeStart,
		End:   rangeEnd,
		Total: decimal.Zero,
		ByDay: []Bucket{},
	}

	index := map[string]int{}
	for _, a := range appointments {
		price := a.Price.Value()
		summary.Total = summary.Total.Add(price)

		day := a.Day()
		i, ok := index[day]
		if !ok {
			i = len(summary.ByDay)
			index[day] = i
			summary.ByDay = append(summary.ByDay, Bucket{Day: day, DayTotal: decimal.Zero})
		}
		summary.ByDay[i].Items = append(summary.ByDay[i].Items, a)
		summary.ByDay[i].DayTotal = summary.ByDay[i].DayTotal.Add(price)
	}

	sort.SliceStable(summary.ByDay, func(i, j int) bool {
		return summary.ByDay[i].Day < summary.ByDay[j].Day
	})
	return summary
}

// Totals are rendered as JSON numbers.

func (b Bucket) MarshalJSON() ([]byte, error) {
	type alias Bucket
	return json.Marshal(struct {
		alias
		DayTotal json.Number `json:"dayTotal"`
	}{alias(b), json.Number(b.DayTotal.String())})
}

func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	return json.Marshal(struct {
		alias
		Total json.Number `json:"total"`
	}{alias(s), json.Number(s.Total.String())})
}
