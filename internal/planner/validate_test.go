package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ayurmitra/panchakarma-api/internal/model"
)

func validPlan() *model.TreatmentPlan {
	plan := &model.TreatmentPlan{
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		PanchakarmaType: model.PanchakarmaVamana,
		Phases: model.Phases{
			{
				PhaseName:      model.PhasePurvakarma,
				SequenceNumber: 1,
				TotalDays:      7,
				TherapySessions: []model.TherapySession{
					{
						TherapyID:       uuid.New(),
						TherapyName:     "Abhyanga",
						SessionCount:    3,
						Frequency:       model.FrequencyDaily,
						DurationMinutes: 60,
						DurationDays:    3,
					},
				},
			},
		},
		Scheduling: model.SchedulingPreferences{
			StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	return plan
}

func TestValidateIdentityStage(t *testing.T) {
	plan := validPlan()
	assert.Empty(t, Validate(plan, StageIdentity))

	plan.PatientID = uuid.Nil
	plan.PanchakarmaType = "cryotherapy"
	problems := Validate(plan, StageIdentity)
	assert.Len(t, problems, 2)
	assert.Contains(t, problems[0], "patient")
}

func TestValidatePhasesStage(t *testing.T) {
	plan := validPlan()
	assert.Empty(t, Validate(plan, StagePhases))

	plan.Phases[0].TherapySessions[0].TherapyID = uuid.Nil
	plan.Phases[0].TherapySessions[0].SessionCount = 0
	problems := Validate(plan, StagePhases)
	assert.Len(t, problems, 2)

	plan.Phases = model.Phases{}
	problems = Validate(plan, StagePhases)
	assert.Len(t, problems, 1)
	assert.Contains(t, problems[0], "at least one phase")
}

func TestValidateSchedulingStage(t *testing.T) {
	plan := validPlan()
	assert.Empty(t, Validate(plan, StageScheduling))

	plan.Scheduling.StartDate = time.Time{}
	problems := Validate(plan, StageScheduling)
	assert.Len(t, problems, 1)
}

func TestValidateUnknownStage(t *testing.T) {
	problems := Validate(validPlan(), 42)
	assert.Len(t, problems, 1)
}

func TestValidateAllAggregates(t *testing.T) {
	plan := validPlan()
	assert.Empty(t, ValidateAll(plan))

	plan.DoctorID = uuid.Nil
	plan.Scheduling.StartDate = time.Time{}
	problems := ValidateAll(plan)
	assert.Len(t, problems, 2)
}

func TestValidateNeverMutates(t *testing.T) {
	plan := validPlan()
	plan.Phases[0].TherapySessions[0].DurationDays = 99

	Validate(plan, StagePhases)
	ValidateAll(plan)

	assert.Equal(t, 99, plan.Phases[0].TherapySessions[0].DurationDays)
}
