package session

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

// fakeSessionRepo keeps a single session in memory and mimics the
// commit-or-rollback contract of the postgres Transition.
type fakeSessionRepo struct {
	session *model.RealtimeSession
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *model.RealtimeSession) error { return nil }

func (f *fakeSessionRepo) CreateBatch(ctx context.Context, s []*model.RealtimeSession) error {
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, id uuid.UUID) (*model.RealtimeSession, error) {
	if f.session == nil || f.session.ID != id {
		return nil, errors.NotFound("session", nil)
	}
	clone := *f.session
	return &clone, nil
}

func (f *fakeSessionRepo) List(ctx context.Context, filters *model.SessionFilters) ([]*model.RealtimeSession, error) {
	return nil, nil
}

func (f *fakeSessionRepo) Transition(ctx context.Context, id uuid.UUID, fn func(*model.RealtimeSession) error) (*model.RealtimeSession, error) {
	if f.session == nil || f.session.ID != id {
		return nil, errors.NotFound("session", nil)
	}
	clone := *f.session
	if err := fn(&clone); err != nil {
		return nil, err
	}
	f.session = &clone
	out := clone
	return &out, nil
}

type publishedEvent struct {
	eventType string
	data      interface{}
}

type fakeNotifier struct {
	published []publishedEvent
	alerts    []model.AdverseEffect
}

func (f *fakeNotifier) PublishSessionEvent(ctx context.Context, session *model.RealtimeSession, eventType string, data interface{}) {
	f.published = append(f.published, publishedEvent{eventType: eventType, data: data})
}

func (f *fakeNotifier) EmergencyAlert(ctx context.Context, session *model.RealtimeSession, effect model.AdverseEffect) {
	f.alerts = append(f.alerts, effect)
}

type fakeEmitter struct {
	events []string
}

func (f *fakeEmitter) Emit(ctx context.Context, eventType, channel string, payload interface{}) error {
	f.events = append(f.events, eventType)
	return nil
}

func newTestService(sess *model.RealtimeSession) (*Service, *fakeSessionRepo, *fakeNotifier, *fakeEmitter) {
	repo := &fakeSessionRepo{session: sess}
	notifier := &fakeNotifier{}
	emitter := &fakeEmitter{}
	svc := NewService(repo, notifier, emitter, nil, zerolog.Nop())
	return svc, repo, notifier, emitter
}

func therapySession(status model.SessionStatus) *model.RealtimeSession {
	sess := &model.RealtimeSession{
		PatientID:         uuid.New(),
		ProviderID:        uuid.New(),
		SessionType:       model.SessionTypeTherapy,
		Status:            status,
		ScheduledAt:       time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EstimatedDuration: 60,
	}
	sess.ID = uuid.New()
	return sess
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStartFromScheduled(t *testing.T) {
	svc, repo, notifier, emitter := newTestService(therapySession(model.SessionStatusScheduled))
	startAt := time.Date(2026, 9, 1, 9, 5, 0, 0, time.UTC)
	svc.now = fixedClock(startAt)

	sess, err := svc.Start(context.Background(), repo.session.ID)

	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusInProgress, sess.Status)
	require.NotNil(t, sess.StartTime)
	assert.Equal(t, startAt, *sess.StartTime)
	require.Len(t, notifier.published, 1)
	assert.Equal(t, model.EventSessionStarted, notifier.published[0].eventType)
	assert.Equal(t, []string{model.EventSessionStarted}, emitter.events)
}

func TestStartRecordsStartTimeOnce(t *testing.T) {
	sess := therapySession(model.SessionStatusPaused)
	original := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	sess.StartTime = &original
	sess.Pauses = model.PauseEvents{{StartedAt: original.Add(10 * time.Minute)}}

	svc, repo, _, _ := newTestService(sess)
	svc.now = fixedClock(original.Add(20 * time.Minute))

	got, err := svc.Start(context.Background(), repo.session.ID)

	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusInProgress, got.Status)
	assert.Equal(t, original, *got.StartTime)
	require.NotNil(t, got.Pauses[0].EndedAt)
}

func TestIllegalTransitionsLeaveStateUnchanged(t *testing.T) {
	type action func(svc *Service, id uuid.UUID) error
	start := func(svc *Service, id uuid.UUID) error {
		_, err := svc.Start(context.Background(), id)
		return err
	}
	pause := func(svc *Service, id uuid.UUID) error {
		_, err := svc.Pause(context.Background(), id, "break")
		return err
	}
	resumeA := func(svc *Service, id uuid.UUID) error {
		_, err := svc.Resume(context.Background(), id)
		return err
	}
	complete := func(svc *Service, id uuid.UUID) error {
		_, err := svc.Complete(context.Background(), id, nil)
		return err
	}
	cancel := func(svc *Service, id uuid.UUID) error {
		_, err := svc.Cancel(context.Background(), id, "no-show")
		return err
	}

	cases := []struct {
		name   string
		status model.SessionStatus
		act    action
	}{
		{"start from in_progress", model.SessionStatusInProgress, start},
		{"start from completed", model.SessionStatusCompleted, start},
		{"start from cancelled", model.SessionStatusCancelled, start},
		{"pause from scheduled", model.SessionStatusScheduled, pause},
		{"pause from paused", model.SessionStatusPaused, pause},
		{"pause from completed", model.SessionStatusCompleted, pause},
		{"resume from scheduled", model.SessionStatusScheduled, resumeA},
		{"resume from in_progress", model.SessionStatusInProgress, resumeA},
		{"resume from cancelled", model.SessionStatusCancelled, resumeA},
		{"complete from scheduled", model.SessionStatusScheduled, complete},
		{"complete from completed", model.SessionStatusCompleted, complete},
		{"complete from cancelled", model.SessionStatusCancelled, complete},
		{"cancel from completed", model.SessionStatusCompleted, cancel},
		{"cancel from cancelled", model.SessionStatusCancelled, cancel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, notifier, _ := newTestService(therapySession(tc.status))

			err := tc.act(svc, repo.session.ID)

			require.Error(t, err)
			appErr, ok := err.(*errors.AppError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrInvalidStateTransition, appErr.Code)
			assert.Equal(t, tc.status, repo.session.Status, "state must not change on a rejected transition")
			assert.Empty(t, notifier.published)
		})
	}
}

func TestPauseResumeExcludedFromActualDuration(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	sess := therapySession(model.SessionStatusScheduled)
	svc, repo, _, _ := newTestService(sess)
	id := repo.session.ID
	ctx := context.Background()

	svc.now = fixedClock(base)
	_, err := svc.Start(ctx, id)
	require.NoError(t, err)

	// 20 minutes in, pause for 10.
	svc.now = fixedClock(base.Add(20 * time.Minute))
	paused, err := svc.Pause(ctx, id, "patient rest")
	require.NoError(t, err)
	assert.Equal(t, 1, paused.TotalPauses)

	svc.now = fixedClock(base.Add(30 * time.Minute))
	resumed, err := svc.Resume(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, resumed.Pauses[0].EndedAt)

	// Complete at the 50 minute mark: 50 wall minutes minus 10 paused.
	svc.now = fixedClock(base.Add(50 * time.Minute))
	done, err := svc.Complete(ctx, id, &model.CompleteSessionRequest{Summary: "full course"})
	require.NoError(t, err)

	require.NotNil(t, done.ActualDurationSecs)
	assert.Equal(t, int64(40*60), *done.ActualDurationSecs)
	assert.Equal(t, model.SessionStatusCompleted, done.Status)
	require.NotNil(t, done.CompletionSummary)
	assert.Equal(t, "full course", *done.CompletionSummary)
}

func TestCompleteFromPausedClosesOpenPause(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	sess := therapySession(model.SessionStatusPaused)
	sess.StartTime = &base
	sess.Pauses = model.PauseEvents{{StartedAt: base.Add(30 * time.Minute)}}

	svc, repo, _, _ := newTestService(sess)
	svc.now = fixedClock(base.Add(45 * time.Minute))

	done, err := svc.Complete(context.Background(), repo.session.ID, nil)

	require.NoError(t, err)
	require.NotNil(t, done.Pauses[0].EndedAt)
	require.NotNil(t, done.ActualDurationSecs)
	// 45 wall minutes minus the 15 minute pause tail.
	assert.Equal(t, int64(30*60), *done.ActualDurationSecs)
}

func TestCancelFromAnyNonTerminalState(t *testing.T) {
	for _, status := range []model.SessionStatus{
		model.SessionStatusScheduled,
		model.SessionStatusInProgress,
		model.SessionStatusPaused,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, repo, _, _ := newTestService(therapySession(status))

			got, err := svc.Cancel(context.Background(), repo.session.ID, "equipment failure")

			require.NoError(t, err)
			assert.Equal(t, model.SessionStatusCancelled, got.Status)
			require.NotNil(t, got.CancelReason)
			assert.Equal(t, "equipment failure", *got.CancelReason)
		})
	}
}

func TestRecordVitalsMergesPartialReadings(t *testing.T) {
	sess := therapySession(model.SessionStatusInProgress)
	svc, repo, _, _ := newTestService(sess)
	ctx := context.Background()

	sys, dia := 120, 80
	_, err := svc.RecordVitals(ctx, repo.session.ID, &model.RecordVitalsRequest{
		BPSystolic:  &sys,
		BPDiastolic: &dia,
	})
	require.NoError(t, err)

	pulse := 72
	got, err := svc.RecordVitals(ctx, repo.session.ID, &model.RecordVitalsRequest{Pulse: &pulse})
	require.NoError(t, err)

	require.NotNil(t, got.Vitals.BPSystolic)
	assert.Equal(t, 120, *got.Vitals.BPSystolic)
	require.NotNil(t, got.Vitals.Pulse)
	assert.Equal(t, 72, *got.Vitals.Pulse)
}

func TestTherapyOnlyOperationsRejectConsultations(t *testing.T) {
	sess := therapySession(model.SessionStatusInProgress)
	sess.SessionType = model.SessionTypeConsultation
	svc, repo, notifier, _ := newTestService(sess)
	ctx := context.Background()
	pulse := 70

	_, err := svc.RecordVitals(ctx, repo.session.ID, &model.RecordVitalsRequest{Pulse: &pulse})
	requireCode(t, err, errors.ErrNotATherapySession)

	_, err = svc.UpdateProgress(ctx, repo.session.ID, &model.UpdateProgressRequest{
		Stage:      model.StageMassage,
		Percentage: 50,
	})
	requireCode(t, err, errors.ErrNotATherapySession)

	_, err = svc.ReportAdverseEffect(ctx, repo.session.ID, &model.ReportAdverseEffectRequest{
		Effect:   "dizziness",
		Severity: model.SeverityMild,
	})
	requireCode(t, err, errors.ErrNotATherapySession)

	assert.Empty(t, notifier.published)
	assert.Empty(t, notifier.alerts)
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, code, appErr.Code)
}

func TestUpdateProgressAppendsHistory(t *testing.T) {
	sess := therapySession(model.SessionStatusInProgress)
	svc, repo, _, _ := newTestService(sess)
	ctx := context.Background()

	_, err := svc.UpdateProgress(ctx, repo.session.ID, &model.UpdateProgressRequest{
		Stage:      model.StagePreparation,
		Percentage: 10,
	})
	require.NoError(t, err)

	got, err := svc.UpdateProgress(ctx, repo.session.ID, &model.UpdateProgressRequest{
		Stage:      model.StageMassage,
		Percentage: 40,
	})
	require.NoError(t, err)

	require.Len(t, got.ProgressUpdates, 2)
	assert.Equal(t, model.StageMassage, got.CurrentStage)
	assert.Equal(t, 40, got.CurrentPercentage)
}

func TestUpdateProgressRejectsUnknownStage(t *testing.T) {
	sess := therapySession(model.SessionStatusInProgress)
	svc, repo, _, _ := newTestService(sess)

	_, err := svc.UpdateProgress(context.Background(), repo.session.ID, &model.UpdateProgressRequest{
		Stage:      model.ProgressStage("levitation"),
		Percentage: 10,
	})

	requireCode(t, err, errors.ErrValidation)
	assert.Empty(t, repo.session.ProgressUpdates)
}

func TestAdverseEffectEscalation(t *testing.T) {
	cases := []struct {
		severity  model.Severity
		escalates bool
	}{
		{model.SeverityMild, false},
		{model.SeverityModerate, false},
		{model.SeveritySevere, true},
		{model.SeverityCritical, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.severity), func(t *testing.T) {
			sess := therapySession(model.SessionStatusInProgress)
			svc, repo, notifier, emitter := newTestService(sess)

			got, err := svc.ReportAdverseEffect(context.Background(), repo.session.ID, &model.ReportAdverseEffectRequest{
				Effect:   "nausea",
				Severity: tc.severity,
			})

			require.NoError(t, err)
			require.Len(t, got.AdverseEffects, 1)
			assert.Equal(t, tc.escalates, got.EmergencyReported)
			if tc.escalates {
				require.Len(t, notifier.alerts, 1)
				assert.Contains(t, emitter.events, model.EventEmergencyAlert)
			} else {
				assert.Empty(t, notifier.alerts)
			}
		})
	}
}

func TestAdverseEffectRejectsUnknownSeverity(t *testing.T) {
	sess := therapySession(model.SessionStatusInProgress)
	svc, repo, _, _ := newTestService(sess)

	_, err := svc.ReportAdverseEffect(context.Background(), repo.session.ID, &model.ReportAdverseEffectRequest{
		Effect:   "nausea",
		Severity: model.Severity("catastrophic"),
	})

	requireCode(t, err, errors.ErrValidation)
	assert.Empty(t, repo.session.AdverseEffects)
}

func TestNotesAreAppendOnly(t *testing.T) {
	sess := therapySession(model.SessionStatusInProgress)
	svc, repo, _, _ := newTestService(sess)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AddNote(ctx, repo.session.ID, &model.AddNoteRequest{Note: "observation"})
		require.NoError(t, err)
	}

	require.Len(t, repo.session.Notes, 3)
}

func TestTimingWhilePaused(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	sess := therapySession(model.SessionStatusPaused)
	sess.StartTime = &base
	sess.Pauses = model.PauseEvents{{StartedAt: base.Add(10 * time.Minute)}}
	sess.TotalPauses = 1

	svc, repo, _, _ := newTestService(sess)
	svc.now = fixedClock(base.Add(25 * time.Minute))

	timing, err := svc.Timing(context.Background(), repo.session.ID)

	require.NoError(t, err)
	// Elapsed froze when the pause began.
	assert.Equal(t, int64(10*60), timing.ElapsedSecs)
	assert.Equal(t, int64(50*60), timing.RemainingSecs)
	assert.Equal(t, model.SessionStatusPaused, timing.Status)
	assert.Equal(t, 1, timing.TotalPauses)
}

func TestTimingBeforeStart(t *testing.T) {
	sess := therapySession(model.SessionStatusScheduled)
	svc, repo, _, _ := newTestService(sess)

	timing, err := svc.Timing(context.Background(), repo.session.ID)

	require.NoError(t, err)
	assert.Zero(t, timing.ElapsedSecs)
	assert.Equal(t, int64(60*60), timing.RemainingSecs)
	assert.Zero(t, timing.ProgressPercentage)
}
