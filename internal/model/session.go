package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type SessionType string

const (
	SessionTypeConsultation SessionType = "consultation"
	SessionTypeTherapy      SessionType = "therapy"
)

type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusPaused     SessionStatus = "paused"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

type ProgressStage string

const (
	StagePreparation ProgressStage = "preparation"
	StageMassage     ProgressStage = "massage"
	StageSteam       ProgressStage = "steam"
	StageRest        ProgressStage = "rest"
	StageCleanup     ProgressStage = "cleanup"
	StageCompleted   ProgressStage = "completed"
)

func (s ProgressStage) Valid() bool {
	switch s {
	case StagePreparation, StageMassage, StageSteam, StageRest, StageCleanup, StageCompleted:
		return true
	}
	return false
}

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityCritical:
		return true
	}
	return false
}

// Escalates reports whether an adverse effect of this severity triggers the
// automatic emergency alert.
func (s Severity) Escalates() bool {
	return s == SeveritySevere || s == SeverityCritical
}

// Vitals recorded during a therapy session. All fields are optional;
// RecordVitals merges provided fields over the previous reading.
type Vitals struct {
	BPSystolic       *int     `json:"bp_systolic,omitempty"`
	BPDiastolic      *int     `json:"bp_diastolic,omitempty"`
	Pulse            *int     `json:"pulse,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	RespiratoryRate  *int     `json:"respiratory_rate,omitempty"`
	OxygenSaturation *int     `json:"oxygen_saturation,omitempty"`
}

func (v Vitals) Value() (driver.Value, error) { return jsonValue(v) }
func (v *Vitals) Scan(src interface{}) error  { return jsonScan(src, v) }

type ProgressUpdate struct {
	Stage      ProgressStage `json:"stage"`
	Percentage int           `json:"percentage"`
	Notes      string        `json:"notes,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

type ProgressUpdates []ProgressUpdate

func (p ProgressUpdates) Value() (driver.Value, error) { return jsonValue(p) }
func (p *ProgressUpdates) Scan(src interface{}) error  { return jsonScan(src, p) }

type AdverseEffect struct {
	Effect      string    `json:"effect"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description,omitempty"`
	ActionTaken string    `json:"action_taken,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type AdverseEffects []AdverseEffect

func (a AdverseEffects) Value() (driver.Value, error) { return jsonValue(a) }
func (a *AdverseEffects) Scan(src interface{}) error  { return jsonScan(src, a) }

// SessionNote entries are append-only: they are never edited or removed
// once written.
type SessionNote struct {
	Note      string    `json:"note"`
	Type      string    `json:"type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionNotes []SessionNote

func (n SessionNotes) Value() (driver.Value, error) { return jsonValue(n) }
func (n *SessionNotes) Scan(src interface{}) error  { return jsonScan(src, n) }

// PauseEvent records one pause interval. EndedAt is nil while the session
// is still paused; pause time is excluded from elapsed and actual duration.
type PauseEvent struct {
	Reason    string     `json:"reason,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type PauseEvents []PauseEvent

func (p PauseEvents) Value() (driver.Value, error) { return jsonValue(p) }
func (p *PauseEvents) Scan(src interface{}) error  { return jsonScan(src, p) }

type MaterialUsage struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

type MaterialsUsed []MaterialUsage

func (m MaterialsUsed) Value() (driver.Value, error) { return jsonValue(m) }
func (m *MaterialsUsed) Scan(src interface{}) error  { return jsonScan(src, m) }

// RealtimeSession is a single trackable consultation or therapy occurrence.
// All timing fields other than StartTime/CompletedAt and the pause log are
// derived on read, never stored.
type RealtimeSession struct {
	Base
	PatientID  uuid.UUID  `db:"patient_id" json:"patient_id"`
	ProviderID uuid.UUID  `db:"provider_id" json:"provider_id"`
	PlanID     *uuid.UUID `db:"plan_id" json:"plan_id,omitempty"`
	TherapyID  *uuid.UUID `db:"therapy_id" json:"therapy_id,omitempty"`

	SessionType SessionType   `db:"session_type" json:"session_type"`
	Status      SessionStatus `db:"status" json:"status"`

	// Linkage back to the generating plan
	PhaseSequence int       `db:"phase_sequence" json:"phase_sequence,omitempty"`
	PhaseName     PhaseName `db:"phase_name" json:"phase_name,omitempty"`
	TherapyName   string    `db:"therapy_name" json:"therapy_name,omitempty"`
	SessionNumber int       `db:"session_number" json:"session_number,omitempty"`
	DayNumber     int       `db:"day_number" json:"day_number,omitempty"`

	ScheduledAt       time.Time  `db:"scheduled_at" json:"scheduled_at"`
	EstimatedDuration int        `db:"estimated_duration" json:"estimated_duration"` // minutes
	StartTime         *time.Time `db:"start_time" json:"start_time,omitempty"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at,omitempty"`

	Pauses      PauseEvents `db:"pauses" json:"pauses"`
	TotalPauses int         `db:"total_pauses" json:"total_pauses"`

	// Seconds of active (non-paused) time from start to completion. Set
	// once on Complete.
	ActualDurationSecs *int64 `db:"actual_duration_secs" json:"actual_duration_secs,omitempty"`

	CancelReason      *string `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CompletionSummary *string `db:"completion_summary" json:"completion_summary,omitempty"`
	Rating            *int    `db:"rating" json:"rating,omitempty"`

	// Therapy-only state
	Vitals            Vitals          `db:"vitals" json:"vitals"`
	ProgressUpdates   ProgressUpdates `db:"progress_updates" json:"progress_updates"`
	CurrentStage      ProgressStage   `db:"current_stage" json:"current_stage,omitempty"`
	CurrentPercentage int             `db:"current_percentage" json:"current_percentage"`
	AdverseEffects    AdverseEffects  `db:"adverse_effects" json:"adverse_effects"`
	EmergencyReported bool            `db:"emergency_reported" json:"emergency_reported"`
	Materials         MaterialsUsed   `db:"materials" json:"materials"`

	Notes SessionNotes `db:"notes" json:"notes"`
}

// SessionTiming is the derived timing read model: computed from the wall
// clock and the pause log on every read, reconciled last-write-wins by
// consumers that also receive push updates.
type SessionTiming struct {
	Status             SessionStatus `json:"status"`
	ScheduledAt        time.Time     `json:"scheduled_at"`
	StartTime          *time.Time    `json:"start_time,omitempty"`
	ElapsedSecs        int64         `json:"elapsed_secs"`
	RemainingSecs      int64         `json:"remaining_secs"`
	ProgressPercentage float64       `json:"progress_percentage"`
	EstimatedDuration  int           `json:"estimated_duration"`
	TotalPauses        int           `json:"total_pauses"`
}

type SessionFilters struct {
	PatientID   uuid.UUID
	ProviderID  uuid.UUID
	PlanID      uuid.UUID
	Status      SessionStatus
	SessionType SessionType
	From        time.Time
	To          time.Time
}

// SessionEvent is the payload pushed to a session's room on every visible
// change.
type SessionEvent struct {
	Type      string      `json:"type"`
	SessionID uuid.UUID   `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

const (
	EventSessionStarted   = "session_started"
	EventSessionPaused    = "session_paused"
	EventSessionResumed   = "session_resumed"
	EventSessionCompleted = "session_completed"
	EventSessionCancelled = "session_cancelled"
	EventVitalsRecorded   = "vitals_recorded"
	EventProgressUpdated  = "progress_updated"
	EventAdverseEffect    = "adverse_effect"
	EventNoteAdded        = "note_added"
	EventEmergencyAlert   = "emergency_alert"
)

// Request payloads

type PauseSessionRequest struct {
	Reason string `json:"reason"`
}

type CompleteSessionRequest struct {
	Summary string `json:"summary"`
	Notes   string `json:"notes"`
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

type CancelSessionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RecordVitalsRequest struct {
	BPSystolic       *int     `json:"bp_systolic" binding:"omitempty,min=0"`
	BPDiastolic      *int     `json:"bp_diastolic" binding:"omitempty,min=0"`
	Pulse            *int     `json:"pulse" binding:"omitempty,min=0"`
	Temperature      *float64 `json:"temperature" binding:"omitempty,min=0"`
	Weight           *float64 `json:"weight" binding:"omitempty,min=0"`
	RespiratoryRate  *int     `json:"respiratory_rate" binding:"omitempty,min=0"`
	OxygenSaturation *int     `json:"oxygen_saturation" binding:"omitempty,min=0,max=100"`
}

type UpdateProgressRequest struct {
	Stage      ProgressStage `json:"stage" binding:"required"`
	Percentage int           `json:"percentage" binding:"min=0,max=100"`
	Notes      string        `json:"notes"`
}

type ReportAdverseEffectRequest struct {
	Effect      string   `json:"effect" binding:"required"`
	Severity    Severity `json:"severity" binding:"required"`
	Description string   `json:"description"`
	ActionTaken string   `json:"action_taken"`
}

type AddNoteRequest struct {
	Note string `json:"note" binding:"required"`
	Type string `json:"type"`
}
