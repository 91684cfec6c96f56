package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayurmitra/panchakarma-api/internal/model"
)

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots("00:00", "12:00", 90, 30)

	require.Len(t, slots, 6)
	assert.Equal(t, model.SlotWindow{StartTime: "00:00", EndTime: "01:30"}, slots[0])
	assert.Equal(t, model.SlotWindow{StartTime: "02:00", EndTime: "03:30"}, slots[1])
	assert.Equal(t, model.SlotWindow{StartTime: "10:00", EndTime: "11:30"}, slots[5])
}

func TestGenerateSlotsNeverOverflowsWindow(t *testing.T) {
	// 09:00-17:00 with 90 minute sessions and no gap: the last slot must
	// end at or before 17:00.
	slots := GenerateSlots("09:00", "17:00", 90, 0)

	require.Len(t, slots, 5)
	assert.Equal(t, "16:30", slots[4].EndTime)
}

func TestGenerateSlotsWindowTooSmall(t *testing.T) {
	assert.Empty(t, GenerateSlots("09:00", "09:30", 60, 0))
}

func TestGenerateSlotsExactFit(t *testing.T) {
	slots := GenerateSlots("09:00", "10:00", 60, 15)
	require.Len(t, slots, 1)
	assert.Equal(t, "10:00", slots[0].EndTime)
}

func TestGenerateSlotsFailsClosed(t *testing.T) {
	assert.Empty(t, GenerateSlots("late", "17:00", 60, 0))
	assert.Empty(t, GenerateSlots("09:00", "25:00", 60, 0))
	assert.Empty(t, GenerateSlots("17:00", "09:00", 60, 0))
	assert.Empty(t, GenerateSlots("09:00", "17:00", 0, 0))
	assert.Empty(t, GenerateSlots("09:00", "17:00", 60, -5))
}

func TestWeeklySlotsCoversFullWeek(t *testing.T) {
	av := &model.TherapistAvailability{
		WorkingDays:     model.Weekdays{model.Monday, model.Wednesday},
		WorkingHours:    model.WorkingHours{Start: "09:00", End: "12:00"},
		SessionDuration: 60,
		SlotGapMinutes:  0,
	}

	week := WeeklySlots(av)

	require.Len(t, week, 7)

	byDay := make(map[model.Weekday]model.DayAvailability, len(week))
	for _, d := range week {
		byDay[d.Day] = d
	}

	assert.True(t, byDay[model.Monday].Available)
	assert.Len(t, byDay[model.Monday].Slots, 3)
	assert.True(t, byDay[model.Wednesday].Available)

	assert.False(t, byDay[model.Tuesday].Available)
	assert.Empty(t, byDay[model.Tuesday].Slots)
	assert.False(t, byDay[model.Sunday].Available)
}
