package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays in calendar order, monday first.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

type Weekdays []Weekday

func (w Weekdays) Value() (driver.Value, error) { return jsonValue(w) }
func (w *Weekdays) Scan(src interface{}) error  { return jsonScan(src, w) }

func (w Weekdays) Contains(day Weekday) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

type WorkingHours struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

func (h WorkingHours) Value() (driver.Value, error) { return jsonValue(h) }
func (h *WorkingHours) Scan(src interface{}) error  { return jsonScan(src, h) }

type TherapistAvailability struct {
	Base
	TherapistID     uuid.UUID    `db:"therapist_id" json:"therapist_id"`
	WorkingDays     Weekdays     `db:"working_days" json:"working_days"`
	WorkingHours    WorkingHours `db:"working_hours" json:"working_hours"`
	SessionDuration int          `db:"session_duration" json:"session_duration"` // minutes
	SlotGapMinutes  int          `db:"slot_gap_minutes" json:"slot_gap_minutes"`
}

// SlotWindow is one bookable window within a working day.
type SlotWindow struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DayAvailability lists a day's slots. Days outside the working-day set
// are present with Available=false rather than omitted.
type DayAvailability struct {
	Day       Weekday      `json:"day"`
	Available bool         `json:"available"`
	Slots     []SlotWindow `json:"slots"`
}

type UpsertAvailabilityRequest struct {
	WorkingDays     Weekdays     `json:"working_days" binding:"required,min=1"`
	WorkingHours    WorkingHours `json:"working_hours" binding:"required"`
	SessionDuration int          `json:"session_duration" binding:"required,gt=0"`
	SlotGapMinutes  int          `json:"slot_gap_minutes" binding:"min=0"`
}
