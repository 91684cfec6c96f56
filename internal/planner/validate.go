package planner

import (
	"fmt"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/google/uuid"
)

// Validation stages mirror the plan builder's steps: identity, phase
// composition, scheduling.
const (
	StageIdentity   = 1
	StagePhases     = 2
	StageScheduling = 3
)

// Validate returns human-readable problems for the given stage. It never
// mutates the plan and never returns an error value; an empty slice means
// the stage is submittable.
func Validate(plan *model.TreatmentPlan, stage int) []string {
	var problems []string

	switch stage {
	case StageIdentity:
		if plan.PatientID == uuid.Nil {
			problems = append(problems, "patient is required")
		}
		if plan.DoctorID == uuid.Nil {
			problems = append(problems, "doctor is required")
		}
		if !plan.PanchakarmaType.Valid() {
			problems = append(problems, "a valid panchakarma type is required")
		}

	case StagePhases:
		if len(plan.Phases) == 0 {
			problems = append(problems, "plan must contain at least one phase")
		}
		for _, phase := range plan.Phases {
			label := fmt.Sprintf("phase %d (%s)", phase.SequenceNumber, phase.PhaseName)
			if phase.TotalDays <= 0 {
				problems = append(problems, label+": total days must be positive")
			}
			if len(phase.TherapySessions) == 0 {
				problems = append(problems, label+": at least one therapy is required")
			}
			for i, t := range phase.TherapySessions {
				tl := fmt.Sprintf("%s, therapy %d", label, i+1)
				if t.TherapyID == uuid.Nil {
					problems = append(problems, tl+": select a therapy")
				}
				if t.SessionCount <= 0 {
					problems = append(problems, tl+": session count must be positive")
				}
				if t.DurationMinutes <= 0 {
					problems = append(problems, tl+": duration must be positive")
				}
			}
		}

	case StageScheduling:
		if plan.Scheduling.StartDate.IsZero() {
			problems = append(problems, "a start date is required")
		}

	default:
		problems = append(problems, fmt.Sprintf("unknown validation stage %d", stage))
	}

	return problems
}

// ValidateAll runs every stage in order, used by plan submission.
func ValidateAll(plan *model.TreatmentPlan) []string {
	var problems []string
	for _, stage := range []int{StageIdentity, StagePhases, StageScheduling} {
		problems = append(problems, Validate(plan, stage)...)
	}
	return problems
}
