package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots_Defaults(t *testing.T) {
	slots := GenerateSlots(9, 19, 15)

	require.Len(t, slots, 40)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "18:45", slots[len(slots)-1])

	seen := map[string]bool{}
	for i, s := range slots {
		assert.False(t, seen[s], "duplicate slot %s", s)
		seen[s] = true
		if i > 0 {
			assert.Less(t, slots[i-1], s)
		}
	}
	assert.Equal(t, slots, DefaultSlots())
}

func TestGenerateSlots_SingleHour(t *testing.T) {
	for h := 0; h < 24; h++ {
		slots := GenerateSlots(h, h+1, 60)
		require.Len(t, slots, 1)
		assert.Equal(t, time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04"), slots[0])
	}
}

func TestGenerateSlots_StepNotDividingHour(t *testing.T) {
	slots := GenerateSlots(9, 11, 25)

	assert.Equal(t, []string{"09:00", "09:25", "09:50", "10:15", "10:40"}, slots)
	assert.False(t, StepDividesHour(25))
	assert.True(t, StepDividesHour(15))
}

func TestGenerateSlots_InvalidBounds(t *testing.T) {
	assert.Empty(t, GenerateSlots(19, 9, 15))
	assert.Empty(t, GenerateSlots(9, 9, 15))
	assert.Empty(t, GenerateSlots(9, 19, 0))
	assert.Empty(t, GenerateSlots(-1, 5, 15))
	assert.NotNil(t, GenerateSlots(9, 9, 15))
}

func TestAvailableSlots_HalfOpenOverlap(t *testing.T) {
	busy := []Interval{{
		Start: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}}
	slots := GenerateSlots(9, 11, 15)

	free, err := AvailableSlots(slots, "2025-03-01", 30, busy)

	require.NoError(t, err)
	// 09:30 ends exactly when the busy block starts, 10:30 starts when it ends.
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "10:30", "10:45"}, free)
}

func TestAvailableSlots_OtherDayIgnored(t *testing.T) {
	busy := []Interval{{
		Start: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 2, 18, 0, 0, 0, time.UTC),
	}}

	free, err := AvailableSlots(DefaultSlots(), "2025-03-01", 60, busy)

	require.NoError(t, err)
	assert.Len(t, free, 40)
}

func TestAvailableSlots_BadDate(t *testing.T) {
	_, err := AvailableSlots(DefaultSlots(), "03/01/2025", 30, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
