package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayurmitra/panchakarma-api/internal/email"
	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/pkg/messaging"
)

// Mailer sends a rendered message; satisfied by the email service.
type Mailer interface {
	Send(to, subject, body string) error
}

var _ Mailer = (*email.Service)(nil)

// Service fans session events out to observers. Room publishes are the
// primary path; e-mail is best-effort and never fails the caller.
type Service struct {
	broker messaging.Broker
	mailer Mailer
	logger zerolog.Logger

	// who receives emergency e-mails
	alertRecipient string
}

func NewService(broker messaging.Broker, mailer Mailer, alertRecipient string, logger zerolog.Logger) *Service {
	return &Service{
		broker:         broker,
		mailer:         mailer,
		alertRecipient: alertRecipient,
		logger:         logger,
	}
}

// PublishSessionEvent pushes an event into the session's room. A broker
// failure is logged and swallowed: observers fall back to polling, and a
// failed publish must never fail or roll back the state transition.
func (s *Service) PublishSessionEvent(ctx context.Context, session *model.RealtimeSession, eventType string, data interface{}) {
	event := model.SessionEvent{
		Type:      eventType,
		SessionID: session.ID,
		Timestamp: time.Now(),
		Data:      data,
	}
	channel := messaging.SessionChannel(session.ID.String())
	if err := s.broker.Publish(ctx, channel, event); err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", session.ID.String()).
			Str("event_type", eventType).
			Msg("failed to publish session event, observers will catch up via polling")
	}
}

// EmergencyAlert broadcasts an adverse-effect escalation. The broadcast
// goes to both the session room and the emergency channel so supervising
// doctors who are not joined to the room still see it. E-mail is attempted
// after the broadcast and only logged on failure.
func (s *Service) EmergencyAlert(ctx context.Context, session *model.RealtimeSession, effect model.AdverseEffect) {
	event := model.SessionEvent{
		Type:      model.EventEmergencyAlert,
		SessionID: session.ID,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"patient_id": session.PatientID,
			"effect":     effect.Effect,
			"severity":   effect.Severity,
			"description": effect.Description,
		},
	}

	if err := s.broker.Publish(ctx, messaging.EmergencyChannel, event); err != nil {
		s.logger.Error().Err(err).
			Str("session_id", session.ID.String()).
			Msg("failed to broadcast emergency alert")
	}
	s.PublishSessionEvent(ctx, session, model.EventEmergencyAlert, event.Data)

	if s.mailer == nil || s.alertRecipient == "" {
		return
	}
	subject := fmt.Sprintf("EMERGENCY: %s adverse effect in session %s", effect.Severity, session.ID)
	body := fmt.Sprintf(
		"<p>Adverse effect reported during %s session.</p>"+
			"<p><b>Effect:</b> %s<br/><b>Severity:</b> %s<br/><b>Description:</b> %s<br/><b>Action taken:</b> %s</p>",
		session.TherapyName, effect.Effect, effect.Severity, effect.Description, effect.ActionTaken,
	)
	if err := s.mailer.Send(s.alertRecipient, subject, body); err != nil {
		s.logger.Warn().Err(err).Msg("failed to send emergency alert email")
	}
}
