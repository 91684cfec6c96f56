// Package scheduler generates bookable slot windows from a therapist's
// working schedule. Generation is deterministic: it depends only on its
// inputs, never on the wall clock.
package scheduler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ayurmitra/panchakarma-api/internal/model"
)

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateSlots tiles the [startTime, endTime) window with sessions of
// sessionDuration minutes separated by gapMinutes. A slot that would
// overflow the window is never emitted. Unparseable or inverted windows
// fail closed with an empty result.
func GenerateSlots(startTime, endTime string, sessionDuration, gapMinutes int) []model.SlotWindow {
	start, err := parseClock(startTime)
	if err != nil {
		return nil
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil
	}
	if start >= end || sessionDuration <= 0 || gapMinutes < 0 {
		return nil
	}

	var slots []model.SlotWindow
	for cur := start; cur+sessionDuration <= end; cur += sessionDuration + gapMinutes {
		slots = append(slots, model.SlotWindow{
			StartTime: formatClock(cur),
			EndTime:   formatClock(cur + sessionDuration),
		})
	}
	return slots
}

// WeeklySlots expands an availability record into all seven weekdays.
// Days outside the working-day set are marked unavailable rather than
// omitted so dashboards render a full week.
func WeeklySlots(av *model.TherapistAvailability) []model.DayAvailability {
	week := make([]model.DayAvailability, 0, len(model.AllWeekdays))
	for _, day := range model.AllWeekdays {
		entry := model.DayAvailability{Day: day}
		if av.WorkingDays.Contains(day) {
			entry.Available = true
			entry.Slots = GenerateSlots(
				av.WorkingHours.Start,
				av.WorkingHours.End,
				av.SessionDuration,
				av.SlotGapMinutes,
			)
		}
		week = append(week, entry)
	}
	return week
}
