package earnings

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, "2025-03-01T00:00:00", "2025-03-01T23:59:59")

	assert.True(t, s.Total.IsZero())
	require.NotNil(t, s.ByDay)
	assert.Empty(t, s.ByDay)

	body, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2025-03-01T00:00:00","end":"2025-03-01T23:59:59","total":0,"byDay":[]}`, string(body))
}

func TestAggregate_MalformedPriceCountsAsZero(t *testing.T) {
	var items []Appointment
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":1,"price":45,"start_time":"2025-03-01T10:00:00"},
		{"id":2,"price":"bad","start_time":"2025-03-01T11:00:00"},
		{"id":3,"price":30,"start_time":"2025-03-02T09:00:00"}
	]`), &items))

	s := Aggregate(items, "", "")

	assert.True(t, s.Total.Equal(decimal.NewFromInt(75)))
	require.Len(t, s.ByDay, 2)

	assert.Equal(t, "2025-03-01", s.ByDay[0].Day)
	assert.True(t, s.ByDay[0].DayTotal.Equal(decimal.NewFromInt(45)))
	require.Len(t, s.ByDay[0].Items, 2)
	assert.Equal(t, int64(1), s.ByDay[0].Items[0].ID)
	assert.Equal(t, int64(2), s.ByDay[0].Items[1].ID)

	assert.Equal(t, "2025-03-02", s.ByDay[1].Day)
	assert.True(t, s.ByDay[1].DayTotal.Equal(decimal.NewFromInt(30)))
	assert.Len(t, s.ByDay[1].Items, 1)
}

func TestAggregate_DaysSortedItemsKeepInputOrder(t *testing.T) {
	items := []Appointment{
		{ID: 1, StartTime: "2025-03-03T15:00:00", Price: PriceFromFloat(10)},
		{ID: 2, StartTime: "2025-03-01T17:00:00", Price: PriceFromFloat(20)},
		{ID: 3, StartTime: "2025-03-03T09:00:00", Price: PriceFromFloat(5.5)},
		{ID: 4, StartTime: "2025-03-01T08:00:00"},
	}

	s := Aggregate(items, "", "")

	require.Len(t, s.ByDay, 2)
	assert.Equal(t, "2025-03-01", s.ByDay[0].Day)
	assert.Equal(t, []int64{2, 4}, ids(s.ByDay[0].Items))
	assert.Equal(t, "2025-03-03", s.ByDay[1].Day)
	assert.Equal(t, []int64{1, 3}, ids(s.ByDay[1].Items))
	assert.Equal(t, "35.5", s.Total.String())
	assert.Equal(t, "15.5", s.ByDay[1].DayTotal.String())
}

func TestAggregate_ExactDecimalSums(t *testing.T) {
	items := []Appointment{
		{StartTime: "2025-03-01T10:00:00", Price: RawPrice(`0.1`)},
		{StartTime: "2025-03-01T11:00:00", Price: RawPrice(`0.2`)},
	}
	s := Aggregate(items, "", "")
	assert.Equal(t, "0.3", s.Total.String())
}

func TestPrice_Coercion(t *testing.T) {
	assert.Equal(t, "12.5", RawPrice(`"12.5"`).Value().String())
	assert.True(t, RawPrice(`null`).Value().IsZero())
	assert.True(t, RawPrice(`{"x":1}`).Value().IsZero())
	assert.True(t, RawPrice(`true`).Value().IsZero())
	assert.False(t, RawPrice(`"n/a"`).Valid())

	body, err := json.Marshal(Appointment{Price: RawPrice(`"bad"`)})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"price":"bad"`)
}

func ids(items []Appointment) []int64 {
	out := make([]int64, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}
