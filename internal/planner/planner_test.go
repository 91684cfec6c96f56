package planner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayurmitra/panchakarma-api/internal/model"
)

func TestCalculateDurationDays(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		frequency model.Frequency
		totalDays int
		want      int
	}{
		{"daily within phase", 5, model.FrequencyDaily, 7, 5},
		{"daily capped", 10, model.FrequencyDaily, 7, 7},
		{"alternate within phase", 3, model.FrequencyAlternate, 7, 6},
		{"alternate capped", 5, model.FrequencyAlternate, 7, 7},
		{"weekly single", 1, model.FrequencyWeekly, 21, 7},
		{"weekly capped", 4, model.FrequencyWeekly, 21, 21},
		{"twice daily even", 6, model.FrequencyTwiceDaily, 7, 3},
		{"twice daily odd rounds up", 7, model.FrequencyTwiceDaily, 7, 4},
		{"twice daily single", 1, model.FrequencyTwiceDaily, 7, 1},
		{"unknown frequency acts as daily", 4, model.Frequency("monthly"), 7, 4},
		{"zero count falls back to default", 0, model.FrequencyDaily, 7, 1},
		{"zero phase days falls back to default", 3, model.FrequencyDaily, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDurationDays(tt.count, tt.frequency, tt.totalDays)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateDurationDaysIsTotal(t *testing.T) {
	// Result always lands in [1, phaseTotalDays] for sane inputs.
	frequencies := []model.Frequency{
		model.FrequencyDaily,
		model.FrequencyAlternate,
		model.FrequencyWeekly,
		model.FrequencyTwiceDaily,
		model.Frequency("garbage"),
	}
	for _, freq := range frequencies {
		for count := 1; count <= 30; count++ {
			for days := 1; days <= 30; days++ {
				got := CalculateDurationDays(count, freq, days)
				assert.GreaterOrEqual(t, got, 1, "freq=%s count=%d days=%d", freq, count, days)
				assert.LessOrEqual(t, got, days, "freq=%s count=%d days=%d", freq, count, days)
			}
		}
	}
}

func TestCoerceInt(t *testing.T) {
	assert.Equal(t, 5, CoerceInt(5, 1))
	assert.Equal(t, 5, CoerceInt(int64(5), 1))
	assert.Equal(t, 5, CoerceInt(5.9, 1))
	assert.Equal(t, 5, CoerceInt("5", 1))
	assert.Equal(t, 1, CoerceInt(0, 1))
	assert.Equal(t, 1, CoerceInt(-3, 1))
	assert.Equal(t, 1, CoerceInt("abc", 1))
	assert.Equal(t, 1, CoerceInt(nil, 1))
}

func TestSetPhaseTotalDaysRecomputesTherapies(t *testing.T) {
	phase := &model.Phase{
		TotalDays: 7,
		TherapySessions: []model.TherapySession{
			{SessionCount: 10, Frequency: model.FrequencyDaily, DurationDays: 7},
			{SessionCount: 2, Frequency: model.FrequencyAlternate, DurationDays: 4},
		},
	}

	SetPhaseTotalDays(phase, 3)

	assert.Equal(t, 3, phase.TotalDays)
	assert.Equal(t, 3, phase.TherapySessions[0].DurationDays)
	assert.Equal(t, 3, phase.TherapySessions[1].DurationDays)
}

func TestSetSessionCount(t *testing.T) {
	phase := &model.Phase{
		TotalDays: 7,
		TherapySessions: []model.TherapySession{
			{SessionCount: 1, Frequency: model.FrequencyAlternate, DurationDays: 2},
		},
	}

	require.NoError(t, SetSessionCount(phase, 0, 3))
	assert.Equal(t, 3, phase.TherapySessions[0].SessionCount)
	assert.Equal(t, 6, phase.TherapySessions[0].DurationDays)

	assert.Error(t, SetSessionCount(phase, 1, 3))
	assert.Error(t, SetSessionCount(phase, -1, 3))
}

func TestSetFrequency(t *testing.T) {
	phase := &model.Phase{
		TotalDays: 14,
		TherapySessions: []model.TherapySession{
			{SessionCount: 2, Frequency: model.FrequencyDaily, DurationDays: 2},
		},
	}

	require.NoError(t, SetFrequency(phase, 0, model.FrequencyWeekly))
	assert.Equal(t, model.FrequencyWeekly, phase.TherapySessions[0].Frequency)
	assert.Equal(t, 14, phase.TherapySessions[0].DurationDays)
}

func TestSelectTherapyCopiesCatalogFields(t *testing.T) {
	catalog := &model.Therapy{
		Name:             "Abhyanga",
		Type:             "massage",
		StandardDuration: 45,
	}
	catalog.ID = uuid.New()

	phase := &model.Phase{
		TotalDays: 7,
		TherapySessions: []model.TherapySession{
			{SessionCount: 3, Frequency: model.FrequencyDaily, DurationMinutes: 60},
		},
	}

	require.NoError(t, SelectTherapy(phase, 0, catalog))
	got := phase.TherapySessions[0]
	assert.Equal(t, catalog.ID, got.TherapyID)
	assert.Equal(t, "Abhyanga", got.TherapyName)
	assert.Equal(t, "massage", got.TherapyType)
	assert.Equal(t, 45, got.DurationMinutes)
	assert.Equal(t, 3, got.DurationDays)
}

func TestAddPhaseNumbersSequentially(t *testing.T) {
	plan := &model.TreatmentPlan{}

	first := AddPhase(plan)
	second := AddPhase(plan)

	assert.Equal(t, 1, first.SequenceNumber)
	assert.Equal(t, 2, second.SequenceNumber)
	assert.Equal(t, DefaultPhaseTotalDays, first.TotalDays)
	assert.NotNil(t, first.TherapySessions)
}

func TestRemovePhaseRenumbers(t *testing.T) {
	plan := &model.TreatmentPlan{}
	AddPhase(plan)
	AddPhase(plan)
	AddPhase(plan)

	require.NoError(t, RemovePhase(plan, 1))

	require.Len(t, plan.Phases, 2)
	assert.Equal(t, 1, plan.Phases[0].SequenceNumber)
	assert.Equal(t, 2, plan.Phases[1].SequenceNumber)
}

func TestRemovePhaseKeepsAtLeastOne(t *testing.T) {
	plan := &model.TreatmentPlan{}
	AddPhase(plan)

	err := RemovePhase(plan, 0)

	assert.Error(t, err)
	assert.Len(t, plan.Phases, 1)
}

func TestAddTherapyDefaults(t *testing.T) {
	phase := &model.Phase{TotalDays: 7}

	therapy := AddTherapy(phase)

	assert.Equal(t, DefaultSessionCount, therapy.SessionCount)
	assert.Equal(t, model.FrequencyDaily, therapy.Frequency)
	assert.Equal(t, DefaultDurationMinutes, therapy.DurationMinutes)
	assert.Equal(t, DefaultDurationDays, therapy.DurationDays)
}

func TestRemoveTherapyDoesNotRenumber(t *testing.T) {
	phase := &model.Phase{
		TotalDays: 7,
		TherapySessions: []model.TherapySession{
			{TherapyName: "a"}, {TherapyName: "b"}, {TherapyName: "c"},
		},
	}

	require.NoError(t, RemoveTherapy(phase, 1))

	require.Len(t, phase.TherapySessions, 2)
	assert.Equal(t, "a", phase.TherapySessions[0].TherapyName)
	assert.Equal(t, "c", phase.TherapySessions[1].TherapyName)
}

func TestTotals(t *testing.T) {
	plan := &model.TreatmentPlan{
		Phases: model.Phases{
			{
				TotalDays: 7,
				TherapySessions: []model.TherapySession{
					{SessionCount: 3, DurationMinutes: 60},
					{SessionCount: 2, DurationMinutes: 45},
				},
			},
			{
				TotalDays: 5,
				TherapySessions: []model.TherapySession{
					{SessionCount: 5, DurationMinutes: 30},
				},
			},
		},
	}

	totals := Totals(plan)

	assert.Equal(t, 12, totals.TotalDays)
	assert.Equal(t, 10, totals.TotalSessions)
	assert.Equal(t, 3*60+2*45+5*30, totals.TotalMinutes)
}
