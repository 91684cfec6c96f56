package plan

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/pkg/errors"
)

type fakePlanRepo struct {
	plans map[uuid.UUID]*model.TreatmentPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[uuid.UUID]*model.TreatmentPlan)}
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *model.TreatmentPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	clone := *plan
	f.plans[plan.ID] = &clone
	return nil
}

func (f *fakePlanRepo) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, errors.NotFound("treatment plan", nil)
	}
	clone := *plan
	return &clone, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *model.TreatmentPlan) error {
	if _, ok := f.plans[plan.ID]; !ok {
		return errors.NotFound("treatment plan", nil)
	}
	clone := *plan
	f.plans[plan.ID] = &clone
	return nil
}

func (f *fakePlanRepo) List(ctx context.Context, filters *model.PlanFilters) ([]*model.TreatmentPlan, error) {
	var out []*model.TreatmentPlan
	for _, p := range f.plans {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

type fakeBatchSessionRepo struct {
	created []*model.RealtimeSession
}

func (f *fakeBatchSessionRepo) Create(ctx context.Context, s *model.RealtimeSession) error {
	return nil
}

func (f *fakeBatchSessionRepo) CreateBatch(ctx context.Context, sessions []*model.RealtimeSession) error {
	f.created = append(f.created, sessions...)
	return nil
}

func (f *fakeBatchSessionRepo) Get(ctx context.Context, id uuid.UUID) (*model.RealtimeSession, error) {
	return nil, errors.NotFound("session", nil)
}

func (f *fakeBatchSessionRepo) List(ctx context.Context, filters *model.SessionFilters) ([]*model.RealtimeSession, error) {
	return nil, nil
}

func (f *fakeBatchSessionRepo) Transition(ctx context.Context, id uuid.UUID, fn func(*model.RealtimeSession) error) (*model.RealtimeSession, error) {
	return nil, errors.NotFound("session", nil)
}

type fakeTemplateRepo struct {
	template   *model.CourseTemplate
	usageBumps int
}

func (f *fakeTemplateRepo) Get(ctx context.Context, id uuid.UUID) (*model.CourseTemplate, error) {
	if f.template == nil || f.template.ID != id {
		return nil, errors.NotFound("course template", nil)
	}
	clone := *f.template
	return &clone, nil
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]*model.CourseTemplate, error) {
	return nil, nil
}

func (f *fakeTemplateRepo) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	f.usageBumps++
	return nil
}

type nopEmitter struct{}

func (nopEmitter) Emit(ctx context.Context, eventType, channel string, payload interface{}) error {
	return nil
}

func newPlanTestService() (*Service, *fakePlanRepo, *fakeBatchSessionRepo, *fakeTemplateRepo) {
	planRepo := newFakePlanRepo()
	sessionRepo := &fakeBatchSessionRepo{}
	templateRepo := &fakeTemplateRepo{}
	svc := NewService(planRepo, sessionRepo, templateRepo, nopEmitter{}, nil, zerolog.Nop())
	return svc, planRepo, sessionRepo, templateRepo
}

func createRequest() *model.CreatePlanRequest {
	return &model.CreatePlanRequest{
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		PanchakarmaType: model.PanchakarmaVamana,
		Phases: model.Phases{
			{
				PhaseName: model.PhasePurvakarma,
				TotalDays: 7,
				TherapySessions: []model.TherapySession{
					{
						TherapyID:       uuid.New(),
						TherapyName:     "Abhyanga",
						SessionCount:    3,
						Frequency:       model.FrequencyDaily,
						DurationMinutes: 60,
					},
				},
			},
		},
		Scheduling: model.SchedulingPreferences{
			StartDate:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			PreferredTimeSlot: model.TimeSlotMorning,
		},
	}
}

func TestCreateNormalizesDerivedFields(t *testing.T) {
	svc, _, _, _ := newPlanTestService()

	view, err := svc.Create(context.Background(), createRequest())

	require.NoError(t, err)
	assert.Equal(t, model.PlanStatusDraft, view.Status)
	require.Len(t, view.Phases, 1)
	assert.Equal(t, 1, view.Phases[0].SequenceNumber)
	assert.Equal(t, 3, view.Phases[0].TherapySessions[0].DurationDays)
	assert.Equal(t, 3, view.Totals.TotalSessions)
	assert.Equal(t, 3*60, view.Totals.TotalMinutes)
}

func TestCreateRejectsUnknownPanchakarmaType(t *testing.T) {
	svc, _, _, _ := newPlanTestService()
	req := createRequest()
	req.PanchakarmaType = "cryotherapy"

	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
}

func TestCreateSeedsEmptyPlanWithOnePhase(t *testing.T) {
	svc, _, _, _ := newPlanTestService()
	req := createRequest()
	req.Phases = model.Phases{}

	view, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, view.Phases, 1)
	assert.Equal(t, 7, view.Phases[0].TotalDays)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc, _, _, _ := newPlanTestService()
	view, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	notes := "monitor agni daily"
	updated, err := svc.Update(context.Background(), view.ID, &model.UpdatePlanRequest{
		TreatmentNotes: &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, notes, updated.TreatmentNotes)
	assert.Equal(t, view.PanchakarmaType, updated.PanchakarmaType)
	assert.Len(t, updated.Phases, 1)
}

func TestUpdateRecomputesDurations(t *testing.T) {
	svc, _, _, _ := newPlanTestService()
	view, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	phases := make(model.Phases, len(view.Phases))
	copy(phases, view.Phases)
	phases[0].TotalDays = 2
	phases[0].TherapySessions[0].SessionCount = 10

	updated, err := svc.Update(context.Background(), view.ID, &model.UpdatePlanRequest{
		Phases: &phases,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, updated.Phases[0].TherapySessions[0].DurationDays)
}

func TestSubmitGeneratesSessionsAndLocksPlan(t *testing.T) {
	svc, planRepo, sessionRepo, _ := newPlanTestService()
	view, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	submitted, problems, err := svc.Submit(context.Background(), view.ID)

	require.NoError(t, err)
	assert.Empty(t, problems)
	assert.Equal(t, model.PlanStatusSubmitted, submitted.Status)
	assert.Len(t, sessionRepo.created, 3)
	assert.Equal(t, model.PlanStatusSubmitted, planRepo.plans[view.ID].Status)

	// Submitting twice conflicts.
	_, _, err = svc.Submit(context.Background(), view.ID)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	// And a submitted plan is no longer editable.
	notes := "late edit"
	_, err = svc.Update(context.Background(), view.ID, &model.UpdatePlanRequest{TreatmentNotes: &notes})
	require.Error(t, err)
}

func TestSubmitReturnsProblemsWithoutGenerating(t *testing.T) {
	svc, planRepo, sessionRepo, _ := newPlanTestService()
	req := createRequest()
	req.Phases[0].TherapySessions[0].TherapyID = uuid.Nil
	view, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, problems, err := svc.Submit(context.Background(), view.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, problems)
	assert.Empty(t, sessionRepo.created)
	assert.Equal(t, model.PlanStatusDraft, planRepo.plans[view.ID].Status)
}

func TestSeedFromTemplate(t *testing.T) {
	svc, _, _, templateRepo := newPlanTestService()
	tmpl := &model.CourseTemplate{
		Name:            "Classic Virechana",
		PanchakarmaType: model.PanchakarmaVirechana,
		Phases: model.Phases{
			{
				PhaseName: model.PhasePurvakarma,
				TotalDays: 5,
				TherapySessions: []model.TherapySession{
					{
						TherapyID:       uuid.New(),
						TherapyName:     "Snehana",
						SessionCount:    5,
						Frequency:       model.FrequencyDaily,
						DurationMinutes: 45,
					},
				},
			},
		},
	}
	tmpl.ID = uuid.New()
	templateRepo.template = tmpl

	patientID, doctorID := uuid.New(), uuid.New()
	view, err := svc.SeedFromTemplate(context.Background(), tmpl.ID, patientID, doctorID)

	require.NoError(t, err)
	assert.Equal(t, patientID, view.PatientID)
	assert.Equal(t, doctorID, view.DoctorID)
	assert.Equal(t, model.PlanStatusDraft, view.Status)
	assert.Equal(t, model.PanchakarmaVirechana, view.PanchakarmaType)
	require.Len(t, view.Phases, 1)
	assert.Equal(t, 5, view.Phases[0].TherapySessions[0].DurationDays)
	assert.Equal(t, 1, templateRepo.usageBumps)
}
