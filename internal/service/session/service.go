package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
	"github.com/ayurmitra/panchakarma-api/pkg/errors"
	"github.com/ayurmitra/panchakarma-api/pkg/metrics"
)

// Notifier receives every visible session change. Publishing happens after
// the transition commits and must never affect its outcome.
type Notifier interface {
	PublishSessionEvent(ctx context.Context, session *model.RealtimeSession, eventType string, data interface{})
	EmergencyAlert(ctx context.Context, session *model.RealtimeSession, effect model.AdverseEffect)
}

// EventEmitter appends durable domain events (outbox).
type EventEmitter interface {
	Emit(ctx context.Context, eventType, channel string, payload interface{}) error
}

type Service struct {
	repo     repository.SessionRepository
	notifier Notifier
	events   EventEmitter
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	// injected clock, wall clock in production
	now func() time.Time
}

func NewService(repo repository.SessionRepository, notifier Notifier, events EventEmitter, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		events:   events,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.RealtimeSession, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.SessionFilters) ([]*model.RealtimeSession, error) {
	return s.repo.List(ctx, filters)
}

// Start moves scheduled|paused → in_progress. The start time is recorded
// once; starting from paused behaves as Resume.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*model.RealtimeSession, error) {
	now := s.now()
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		switch sess.Status {
		case model.SessionStatusScheduled:
			sess.Status = model.SessionStatusInProgress
			if sess.StartTime == nil {
				t := now
				sess.StartTime = &t
			}
			return nil
		case model.SessionStatusPaused:
			return resume(sess, now)
		default:
			return s.rejected("start", sess.Status)
		}
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	s.notifier.PublishSessionEvent(ctx, session, model.EventSessionStarted, session.Timing(now))
	s.emit(ctx, model.EventSessionStarted, session)
	return session, nil
}

// Pause freezes elapsed-time accumulation. Only legal from in_progress.
func (s *Service) Pause(ctx context.Context, id uuid.UUID, reason string) (*model.RealtimeSession, error) {
	now := s.now()
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		if sess.Status != model.SessionStatusInProgress {
			return s.rejected("pause", sess.Status)
		}
		sess.Status = model.SessionStatusPaused
		sess.Pauses = append(sess.Pauses, model.PauseEvent{
			Reason:    reason,
			StartedAt: now,
		})
		sess.TotalPauses++
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishSessionEvent(ctx, session, model.EventSessionPaused, map[string]interface{}{
		"reason": reason,
		"timing": session.Timing(now),
	})
	return session, nil
}

// Resume continues a paused session. The closed pause interval is excluded
// from elapsed time; the patient is not billed for the interruption.
func (s *Service) Resume(ctx context.Context, id uuid.UUID) (*model.RealtimeSession, error) {
	now := s.now()
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		if sess.Status != model.SessionStatusPaused {
			return s.rejected("resume", sess.Status)
		}
		return resume(sess, now)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishSessionEvent(ctx, session, model.EventSessionResumed, session.Timing(now))
	return session, nil
}

func resume(sess *model.RealtimeSession, now time.Time) error {
	sess.Status = model.SessionStatusInProgress
	if n := len(sess.Pauses); n > 0 && sess.Pauses[n-1].EndedAt == nil {
		t := now
		sess.Pauses[n-1].EndedAt = &t
	}
	return nil
}

// Complete is terminal from in_progress or paused. ActualDuration is the
// wall-clock span from start to completion minus every pause interval.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, req *model.CompleteSessionRequest) (*model.RealtimeSession, error) {
	now := s.now()
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		if sess.Status != model.SessionStatusInProgress && sess.Status != model.SessionStatusPaused {
			return s.rejected("complete", sess.Status)
		}

		// close an open pause before computing actual duration
		if n := len(sess.Pauses); n > 0 && sess.Pauses[n-1].EndedAt == nil {
			t := now
			sess.Pauses[n-1].EndedAt = &t
		}

		sess.Status = model.SessionStatusCompleted
		t := now
		sess.CompletedAt = &t
		if sess.StartTime != nil {
			active := now.Sub(*sess.StartTime) - sess.PausedDuration(now)
			secs := int64(active.Seconds())
			if secs < 0 {
				secs = 0
			}
			sess.ActualDurationSecs = &secs
		}
		if req != nil {
			if req.Summary != "" {
				sess.CompletionSummary = &req.Summary
			}
			if req.Rating != nil {
				sess.Rating = req.Rating
			}
			if req.Notes != "" {
				sess.Notes = append(sess.Notes, model.SessionNote{
					Note:      req.Notes,
					Type:      "completion",
					Timestamp: now,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsCompleted.Inc()
	}
	s.notifier.PublishSessionEvent(ctx, session, model.EventSessionCompleted, session.Timing(now))
	s.emit(ctx, model.EventSessionCompleted, session)
	return session, nil
}

// Cancel is terminal from any non-terminal state.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.RealtimeSession, error) {
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		if sess.Status.Terminal() {
			return s.rejected("cancel", sess.Status)
		}
		sess.Status = model.SessionStatusCancelled
		sess.CancelReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsCancelled.Inc()
	}
	s.notifier.PublishSessionEvent(ctx, session, model.EventSessionCancelled, map[string]interface{}{"reason": reason})
	s.emit(ctx, model.EventSessionCancelled, session)
	return session, nil
}

// RecordVitals merges provided fields over the previous reading. Fields
// omitted from the request keep their prior values.
func (s *Service) RecordVitals(ctx context.Context, id uuid.UUID, req *model.RecordVitalsRequest) (*model.RealtimeSession, error) {
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		if sess.SessionType != model.SessionTypeTherapy {
			return errors.NotATherapySession("recording vitals")
		}
		mergeVitals(&sess.Vitals, req)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishSessionEvent(ctx, session, model.EventVitalsRecorded, session.Vitals)
	return session, nil
}

func mergeVitals(v *model.Vitals, req *model.RecordVitalsRequest) {
	if req.BPSystolic != nil {
		v.BPSystolic = req.BPSystolic
	}
	if req.BPDiastolic != nil {
		v.BPDiastolic = req.BPDiastolic
	}
	if req.Pulse != nil {
		v.Pulse = req.Pulse
	}
	if req.Temperature != nil {
		v.Temperature = req.Temperature
	}
	if req.Weight != nil {
		v.Weight = req.Weight
	}
	if req.RespiratoryRate != nil {
		v.RespiratoryRate = req.RespiratoryRate
	}
	if req.OxygenSaturation != nil {
		v.OxygenSaturation = req.OxygenSaturation
	}
}

// UpdateProgress appends a staged progress record and advances the
// current-stage read pointer. History is never overwritten.
func (s *Service) UpdateProgress(ctx context.Context, id uuid.UUID, req *model.UpdateProgressRequest) (*model.RealtimeSession, error) {
	if !req.Stage.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown progress stage %q", req.Stage))
	}
	now := s.now()
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		if sess.SessionType != model.SessionTypeTherapy {
			return errors.NotATherapySession("updating progress")
		}
		update := model.ProgressUpdate{
			Stage:      req.Stage,
			Percentage: req.Percentage,
			Notes:      req.Notes,
			Timestamp:  now,
		}
		sess.ProgressUpdates = append(sess.ProgressUpdates, update)
		sess.CurrentStage = update.Stage
		sess.CurrentPercentage = update.Percentage
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishSessionEvent(ctx, session, model.EventProgressUpdated, map[string]interface{}{
		"stage":      req.Stage,
		"percentage": req.Percentage,
	})
	return session, nil
}

// ReportAdverseEffect appends the report. Severe and critical reports set
// EmergencyReported and raise the alert automatically; there is no manual
// escalation step. The alert fires even if the caller retries the save.
func (s *Service) ReportAdverseEffect(ctx context.Context, id uuid.UUID, req *model.ReportAdverseEffectRequest) (*model.RealtimeSession, error) {
	if !req.Severity.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown severity %q", req.Severity))
	}
	now := s.now()
	effect := model.AdverseEffect{
		Effect:      req.Effect,
		Severity:    req.Severity,
		Description: req.Description,
		ActionTaken: req.ActionTaken,
		Timestamp:   now,
	}

	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		if sess.SessionType != model.SessionTypeTherapy {
			return errors.NotATherapySession("reporting an adverse effect")
		}
		sess.AdverseEffects = append(sess.AdverseEffects, effect)
		if effect.Severity.Escalates() {
			sess.EmergencyReported = true
		}
		return nil
	})
	if err != nil {
		if effect.Severity.Escalates() {
			// per safety design the alert is raised even when the save is
			// being retried; a stale placeholder session carries the id
			if stale, getErr := s.repo.Get(ctx, id); getErr == nil && stale.SessionType == model.SessionTypeTherapy {
				s.alert(ctx, stale, effect)
			}
		}
		return nil, err
	}

	s.notifier.PublishSessionEvent(ctx, session, model.EventAdverseEffect, effect)
	if effect.Severity.Escalates() {
		s.alert(ctx, session, effect)
	}
	return session, nil
}

func (s *Service) alert(ctx context.Context, session *model.RealtimeSession, effect model.AdverseEffect) {
	if s.metrics != nil {
		s.metrics.EmergencyAlerts.Inc()
	}
	s.notifier.EmergencyAlert(ctx, session, effect)
	s.emit(ctx, model.EventEmergencyAlert, session)
}

// AddNote appends to the session log. Notes are never edited or removed
// through this interface.
func (s *Service) AddNote(ctx context.Context, id uuid.UUID, req *model.AddNoteRequest) (*model.RealtimeSession, error) {
	now := s.now()
	session, err := s.repo.Transition(ctx, id, func(sess *model.RealtimeSession) error {
		sess.Notes = append(sess.Notes, model.SessionNote{
			Note:      req.Note,
			Type:      req.Type,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.PublishSessionEvent(ctx, session, model.EventNoteAdded, session.Notes[len(session.Notes)-1])
	return session, nil
}

// Timing returns the derived timing read model at the current instant.
func (s *Service) Timing(ctx context.Context, id uuid.UUID) (*model.SessionTiming, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	timing := session.Timing(s.now())
	return &timing, nil
}

func (s *Service) rejected(action string, from model.SessionStatus) error {
	if s.metrics != nil {
		s.metrics.TransitionsRejected.WithLabelValues(action).Inc()
	}
	return errors.InvalidStateTransition(string(from), action)
}

func (s *Service) emit(ctx context.Context, eventType string, session *model.RealtimeSession) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, eventType, "sessions", session); err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", session.ID.String()).
			Str("event_type", eventType).
			Msg("failed to write outbox event")
	}
}
