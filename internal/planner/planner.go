// Package planner keeps a treatment plan's derived fields consistent under
// arbitrary edits. Every mutation recomputes the affected durations
// immediately; there is no separate recalculate step. All functions are
// total over coercible input and operate on in-memory plan documents only.
package planner

import (
	"strconv"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/pkg/errors"
)

const (
	DefaultPhaseTotalDays  = 7
	DefaultSessionCount    = 1
	DefaultDurationMinutes = 60
	DefaultDurationDays    = 1
)

// CoerceInt normalizes numeric input the way every call site must: invalid
// or non-positive values fall back to def instead of failing the recompute.
func CoerceInt(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return n
		}
	case int64:
		if n > 0 {
			return int(n)
		}
	case float64:
		if n > 0 {
			return int(n)
		}
	case string:
		if parsed, err := strconv.Atoi(n); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

// CalculateDurationDays returns the number of calendar days sessionCount
// repetitions span at the given frequency, capped at the owning phase's
// totalDays. The cap keeps a single therapy's span inside its phase window;
// actual calendar placement is a separate scheduling step.
//
// For sessionCount >= 1 and phaseTotalDays >= 1 the result is always in
// [1, phaseTotalDays].
func CalculateDurationDays(sessionCount int, frequency model.Frequency, phaseTotalDays int) int {
	n := CoerceInt(sessionCount, DefaultSessionCount)
	d := CoerceInt(phaseTotalDays, DefaultPhaseTotalDays)

	switch frequency {
	case model.FrequencyAlternate:
		return min(n*2, d)
	case model.FrequencyWeekly:
		return min(n*7, d)
	case model.FrequencyTwiceDaily:
		return min((n+1)/2, d)
	case model.FrequencyDaily:
		return min(n, d)
	default:
		// unknown frequencies behave as daily
		return min(n, d)
	}
}

// SetPhaseTotalDays sets the phase ceiling and recomputes every contained
// therapy's duration against it.
func SetPhaseTotalDays(phase *model.Phase, days int) {
	phase.TotalDays = CoerceInt(days, DefaultPhaseTotalDays)
	for i := range phase.TherapySessions {
		t := &phase.TherapySessions[i]
		t.DurationDays = CalculateDurationDays(t.SessionCount, t.Frequency, phase.TotalDays)
	}
}

// SetSessionCount updates one therapy's repetition count and recomputes its
// duration against the owning phase's current ceiling.
func SetSessionCount(phase *model.Phase, idx, count int) error {
	if idx < 0 || idx >= len(phase.TherapySessions) {
		return errors.Validation("therapy index out of range")
	}
	t := &phase.TherapySessions[idx]
	t.SessionCount = CoerceInt(count, DefaultSessionCount)
	t.DurationDays = CalculateDurationDays(t.SessionCount, t.Frequency, phase.TotalDays)
	return nil
}

// SetFrequency updates one therapy's frequency and recomputes its duration.
func SetFrequency(phase *model.Phase, idx int, freq model.Frequency) error {
	if idx < 0 || idx >= len(phase.TherapySessions) {
		return errors.Validation("therapy index out of range")
	}
	t := &phase.TherapySessions[idx]
	t.Frequency = freq
	t.DurationDays = CalculateDurationDays(t.SessionCount, t.Frequency, phase.TotalDays)
	return nil
}

// SelectTherapy copies catalog fields onto the therapy session and
// recomputes its duration. The catalog's standard duration replaces the
// per-session length.
func SelectTherapy(phase *model.Phase, idx int, catalog *model.Therapy) error {
	if idx < 0 || idx >= len(phase.TherapySessions) {
		return errors.Validation("therapy index out of range")
	}
	t := &phase.TherapySessions[idx]
	t.TherapyID = catalog.ID
	t.TherapyName = catalog.Name
	t.TherapyType = catalog.Type
	t.DurationMinutes = CoerceInt(catalog.StandardDuration, DefaultDurationMinutes)
	t.DurationDays = CalculateDurationDays(t.SessionCount, t.Frequency, phase.TotalDays)
	return nil
}

// AddPhase appends a phase numbered after the existing ones with the
// default seven-day window and no therapies yet.
func AddPhase(plan *model.TreatmentPlan) *model.Phase {
	plan.Phases = append(plan.Phases, model.Phase{
		PhaseName:       model.PhasePurvakarma,
		SequenceNumber:  len(plan.Phases) + 1,
		TotalDays:       DefaultPhaseTotalDays,
		TherapySessions: []model.TherapySession{},
	})
	return &plan.Phases[len(plan.Phases)-1]
}

// RemovePhase removes the phase at idx and renumbers the remainder so
// sequence numbers stay contiguous from 1. Removing the last remaining
// phase is rejected.
func RemovePhase(plan *model.TreatmentPlan, idx int) error {
	if idx < 0 || idx >= len(plan.Phases) {
		return errors.Validation("phase index out of range")
	}
	if len(plan.Phases) == 1 {
		return errors.Validation("a treatment plan must keep at least one phase")
	}
	plan.Phases = append(plan.Phases[:idx], plan.Phases[idx+1:]...)
	for i := range plan.Phases {
		plan.Phases[i].SequenceNumber = i + 1
	}
	return nil
}

// AddTherapy appends a therapy session with defaults. The caller is
// responsible for warning the user when the therapy catalog is empty;
// that is a user-facing notice, not a hard error.
func AddTherapy(phase *model.Phase) *model.TherapySession {
	phase.TherapySessions = append(phase.TherapySessions, model.TherapySession{
		SessionCount:    DefaultSessionCount,
		Frequency:       model.FrequencyDaily,
		DurationMinutes: DefaultDurationMinutes,
		DurationDays:    DefaultDurationDays,
	})
	return &phase.TherapySessions[len(phase.TherapySessions)-1]
}

// RemoveTherapy removes without renumbering: therapy order within a phase
// carries no calculation meaning.
func RemoveTherapy(phase *model.Phase, idx int) error {
	if idx < 0 || idx >= len(phase.TherapySessions) {
		return errors.Validation("therapy index out of range")
	}
	phase.TherapySessions = append(phase.TherapySessions[:idx], phase.TherapySessions[idx+1:]...)
	return nil
}

// Totals recomputes the aggregate read model from phases. Stored totals
// are never authoritative.
func Totals(plan *model.TreatmentPlan) model.PlanTotals {
	var t model.PlanTotals
	for _, phase := range plan.Phases {
		t.TotalDays += phase.TotalDays
		for _, therapy := range phase.TherapySessions {
			t.TotalSessions += therapy.SessionCount
			t.TotalMinutes += therapy.SessionCount * therapy.DurationMinutes
		}
	}
	return t
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
