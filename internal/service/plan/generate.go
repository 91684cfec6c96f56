package plan

import (
	"time"

	"github.com/ayurmitra/panchakarma-api/internal/model"
)

// default session times per preferred slot; a valid SpecificTime wins
var slotTimes = map[model.PreferredTimeSlot]int{
	model.TimeSlotMorning:   9 * 60,
	model.TimeSlotAfternoon: 13 * 60,
	model.TimeSlotEvening:   17 * 60,
	model.TimeSlotFlexible:  9 * 60,
}

// secondDailyOffset separates the two sittings of a twice_daily therapy.
const secondDailyOffset = 4 * time.Hour

// GenerateSessions materializes concrete dated sessions from a submitted
// plan. The walk is deterministic: phases run in sequence separated by
// their minimum gaps, therapies within a phase run in parallel from the
// phase start, and per-frequency day stepping places each repetition.
// When the plan skips weekends, weekend days are excluded as stepping
// candidates, so consecutive repetitions land on distinct business days.
func GenerateSessions(plan *model.TreatmentPlan) []*model.RealtimeSession {
	if len(plan.Phases) == 0 || plan.Scheduling.StartDate.IsZero() {
		return nil
	}

	provider := plan.DoctorID
	if plan.TherapistID != nil {
		provider = *plan.TherapistID
	}

	startOfDay := plan.Scheduling.StartDate.Truncate(24 * time.Hour)
	timeOfDay := sessionTimeOfDay(plan.Scheduling)

	var sessions []*model.RealtimeSession
	phaseStart := startOfDay

	for _, phase := range plan.Phases {
		for _, therapy := range phase.TherapySessions {
			step := frequencyStepDays(therapy.Frequency)
			for i := 0; i < therapy.SessionCount; i++ {
				dayOffset := i * step
				sitting := time.Duration(0)
				if therapy.Frequency == model.FrequencyTwiceDaily {
					dayOffset = i / 2
					if i%2 == 1 {
						sitting = secondDailyOffset
					}
				}

				date := advance(phaseStart, dayOffset, plan.Scheduling.SkipWeekends)

				therapyID := therapy.TherapyID
				planID := plan.ID
				sessions = append(sessions, &model.RealtimeSession{
					PatientID:         plan.PatientID,
					ProviderID:        provider,
					PlanID:            &planID,
					TherapyID:         &therapyID,
					SessionType:       model.SessionTypeTherapy,
					Status:            model.SessionStatusScheduled,
					PhaseSequence:     phase.SequenceNumber,
					PhaseName:         phase.PhaseName,
					TherapyName:       therapy.TherapyName,
					SessionNumber:     i + 1,
					DayNumber:         dayOffset + 1,
					ScheduledAt:       date.Add(timeOfDay + sitting),
					EstimatedDuration: therapy.DurationMinutes,
					Pauses:            model.PauseEvents{},
					ProgressUpdates:   model.ProgressUpdates{},
					AdverseEffects:    model.AdverseEffects{},
					Materials:         model.MaterialsUsed{},
					Notes:             model.SessionNotes{},
				})
			}
		}
		phaseStart = phaseStart.AddDate(0, 0, phase.TotalDays+phase.MinGapDaysAfterPhase)
	}
	return sessions
}

func frequencyStepDays(f model.Frequency) int {
	switch f {
	case model.FrequencyAlternate:
		return 2
	case model.FrequencyWeekly:
		return 7
	default:
		return 1
	}
}

func sessionTimeOfDay(prefs model.SchedulingPreferences) time.Duration {
	if prefs.SpecificTime != "" {
		if t, err := time.Parse("15:04", prefs.SpecificTime); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
		}
	}
	if minutes, ok := slotTimes[prefs.PreferredTimeSlot]; ok {
		return time.Duration(minutes) * time.Minute
	}
	return time.Duration(slotTimes[model.TimeSlotMorning]) * time.Minute
}

// advance moves the scheduling cursor days forward from start. With
// businessDaysOnly set, only weekdays count as steps, so a Friday start
// with daily stepping walks Fri, Mon, Tue.
func advance(start time.Time, days int, businessDaysOnly bool) time.Time {
	if !businessDaysOnly {
		return start.AddDate(0, 0, days)
	}
	date := skipWeekend(start)
	for ; days > 0; days-- {
		date = skipWeekend(date.AddDate(0, 0, 1))
	}
	return date
}

func skipWeekend(date time.Time) time.Time {
	for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}
	return date
}
