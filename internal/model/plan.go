package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type PanchakarmaType string

const (
	PanchakarmaVamana        PanchakarmaType = "vamana"
	PanchakarmaVirechana     PanchakarmaType = "virechana"
	PanchakarmaBasti         PanchakarmaType = "basti"
	PanchakarmaNasya         PanchakarmaType = "nasya"
	PanchakarmaRaktamokshana PanchakarmaType = "raktamokshana"
)

func (t PanchakarmaType) Valid() bool {
	switch t {
	case PanchakarmaVamana, PanchakarmaVirechana, PanchakarmaBasti,
		PanchakarmaNasya, PanchakarmaRaktamokshana:
		return true
	}
	return false
}

type PhaseName string

const (
	PhasePurvakarma    PhaseName = "purvakarma"
	PhasePradhanakarma PhaseName = "pradhanakarma"
	PhasePaschatkarma  PhaseName = "paschatkarma"
)

type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyAlternate  Frequency = "alternate"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyTwiceDaily Frequency = "twice_daily"
)

type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "draft"
	PlanStatusSubmitted PlanStatus = "submitted"
)

// TherapySession is one therapy prescribed inside a phase. DurationDays is
// derived: it is recomputed by the planner whenever SessionCount, Frequency
// or the owning phase's TotalDays changes, and never exceeds the phase's
// TotalDays.
type TherapySession struct {
	TherapyID       uuid.UUID `json:"therapy_id"`
	TherapyName     string    `json:"therapy_name"`
	TherapyType     string    `json:"therapy_type"`
	SessionCount    int       `json:"session_count"`
	Frequency       Frequency `json:"frequency"`
	DurationMinutes int       `json:"duration_minutes"`
	DurationDays    int       `json:"duration_days"`

	Instructions           string `json:"instructions,omitempty"`
	PreConditions          string `json:"pre_conditions,omitempty"`
	StopCriteria           string `json:"stop_criteria,omitempty"`
	AllowsParallelSessions bool   `json:"allows_parallel_sessions"`
	MinGapDays             int    `json:"min_gap_days"`
}

// Phase is one stage of a Panchakarma course. SequenceNumber is 1-based and
// kept contiguous by the planner on removal.
type Phase struct {
	PhaseName       PhaseName        `json:"phase_name"`
	SequenceNumber  int              `json:"sequence_number"`
	TotalDays       int              `json:"total_days"`
	TherapySessions []TherapySession `json:"therapy_sessions"`

	Instructions         string `json:"instructions,omitempty"`
	DietPlan             string `json:"diet_plan,omitempty"`
	LifestyleGuidelines  string `json:"lifestyle_guidelines,omitempty"`
	MinGapDaysAfterPhase int    `json:"min_gap_days_after_phase"`
}

type Phases []Phase

func (p Phases) Value() (driver.Value, error) { return jsonValue(p) }
func (p *Phases) Scan(src interface{}) error  { return jsonScan(src, p) }

type PreferredTimeSlot string

const (
	TimeSlotMorning   PreferredTimeSlot = "morning"
	TimeSlotAfternoon PreferredTimeSlot = "afternoon"
	TimeSlotEvening   PreferredTimeSlot = "evening"
	TimeSlotFlexible  PreferredTimeSlot = "flexible"
)

type SchedulingPreferences struct {
	StartDate            time.Time         `json:"start_date"`
	PreferredTimeSlot    PreferredTimeSlot `json:"preferred_time_slot"`
	SpecificTime         string            `json:"specific_time,omitempty"`
	SkipWeekends         bool              `json:"skip_weekends"`
	RequireSameTherapist bool              `json:"require_same_therapist"`
}

func (p SchedulingPreferences) Value() (driver.Value, error) { return jsonValue(p) }
func (p *SchedulingPreferences) Scan(src interface{}) error  { return jsonScan(src, p) }

// PlanTotals are aggregate read-model fields. They are never stored as
// authoritative data; the planner recomputes them from phases on access.
type PlanTotals struct {
	TotalDays     int `json:"total_days"`
	TotalSessions int `json:"total_sessions"`
	TotalMinutes  int `json:"total_minutes"`
}

type TreatmentPlan struct {
	Base
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID       uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	ConsultationID *uuid.UUID `db:"consultation_id" json:"consultation_id,omitempty"`
	TherapistID    *uuid.UUID `db:"therapist_id" json:"therapist_id,omitempty"`

	PanchakarmaType PanchakarmaType       `db:"panchakarma_type" json:"panchakarma_type"`
	Status          PlanStatus            `db:"status" json:"status"`
	Phases          Phases                `db:"phases" json:"phases"`
	Scheduling      SchedulingPreferences `db:"scheduling" json:"scheduling"`

	PreInstructions  string `db:"pre_instructions" json:"pre_instructions,omitempty"`
	PostInstructions string `db:"post_instructions" json:"post_instructions,omitempty"`
	TreatmentNotes   string `db:"treatment_notes" json:"treatment_notes,omitempty"`
	SafetyNotes      string `db:"safety_notes" json:"safety_notes,omitempty"`
}

type CreatePlanRequest struct {
	PatientID        uuid.UUID             `json:"patient_id" binding:"required"`
	DoctorID         uuid.UUID             `json:"doctor_id" binding:"required"`
	ConsultationID   *uuid.UUID            `json:"consultation_id"`
	TherapistID      *uuid.UUID            `json:"therapist_id"`
	PanchakarmaType  PanchakarmaType       `json:"panchakarma_type" binding:"required"`
	Phases           Phases                `json:"phases"`
	Scheduling       SchedulingPreferences `json:"scheduling"`
	PreInstructions  string                `json:"pre_instructions"`
	PostInstructions string                `json:"post_instructions"`
	TreatmentNotes   string                `json:"treatment_notes"`
	SafetyNotes      string                `json:"safety_notes"`
}

type UpdatePlanRequest struct {
	TherapistID      *uuid.UUID             `json:"therapist_id"`
	PanchakarmaType  *PanchakarmaType       `json:"panchakarma_type"`
	Phases           *Phases                `json:"phases"`
	Scheduling       *SchedulingPreferences `json:"scheduling"`
	PreInstructions  *string                `json:"pre_instructions"`
	PostInstructions *string                `json:"post_instructions"`
	TreatmentNotes   *string                `json:"treatment_notes"`
	SafetyNotes      *string                `json:"safety_notes"`
}

// PlanView is a TreatmentPlan plus its recomputed aggregates, the shape
// handed to dashboards.
type PlanView struct {
	TreatmentPlan
	Totals PlanTotals `json:"totals"`
}

type PlanFilters struct {
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	TherapistID uuid.UUID
	Status      PlanStatus
}
