package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/planner"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
	"github.com/ayurmitra/panchakarma-api/pkg/errors"
	"github.com/ayurmitra/panchakarma-api/pkg/metrics"
)

type EventEmitter interface {
	Emit(ctx context.Context, eventType, channel string, payload interface{}) error
}

type Service struct {
	repo         repository.PlanRepository
	sessionRepo  repository.SessionRepository
	templateRepo repository.TemplateRepository
	events       EventEmitter
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewService(
	repo repository.PlanRepository,
	sessionRepo repository.SessionRepository,
	templateRepo repository.TemplateRepository,
	events EventEmitter,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		sessionRepo:  sessionRepo,
		templateRepo: templateRepo,
		events:       events,
		metrics:      m,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePlanRequest) (*model.PlanView, error) {
	plan := &model.TreatmentPlan{
		PatientID:        req.PatientID,
		DoctorID:         req.DoctorID,
		ConsultationID:   req.ConsultationID,
		TherapistID:      req.TherapistID,
		PanchakarmaType:  req.PanchakarmaType,
		Status:           model.PlanStatusDraft,
		Phases:           req.Phases,
		Scheduling:       req.Scheduling,
		PreInstructions:  req.PreInstructions,
		PostInstructions: req.PostInstructions,
		TreatmentNotes:   req.TreatmentNotes,
		SafetyNotes:      req.SafetyNotes,
	}
	if !plan.PanchakarmaType.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown panchakarma type %q", plan.PanchakarmaType))
	}

	s.normalize(plan)
	if len(plan.Phases) == 0 {
		planner.AddPhase(plan)
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return s.view(plan), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PlanView, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(plan), nil
}

func (s *Service) List(ctx context.Context, filters *model.PlanFilters) ([]*model.PlanView, error) {
	plans, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	views := make([]*model.PlanView, 0, len(plans))
	for _, p := range plans {
		views = append(views, s.view(p))
	}
	return views, nil
}

// Update applies only the provided fields, then renormalizes every derived
// duration so edits can arrive in any order.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePlanRequest) (*model.PlanView, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.Status == model.PlanStatusSubmitted {
		return nil, errors.Conflict("a submitted plan can no longer be edited")
	}

	if req.TherapistID != nil {
		plan.TherapistID = req.TherapistID
	}
	if req.PanchakarmaType != nil {
		if !req.PanchakarmaType.Valid() {
			return nil, errors.Validation(fmt.Sprintf("unknown panchakarma type %q", *req.PanchakarmaType))
		}
		plan.PanchakarmaType = *req.PanchakarmaType
	}
	if req.Phases != nil {
		plan.Phases = *req.Phases
	}
	if req.Scheduling != nil {
		plan.Scheduling = *req.Scheduling
	}
	if req.PreInstructions != nil {
		plan.PreInstructions = *req.PreInstructions
	}
	if req.PostInstructions != nil {
		plan.PostInstructions = *req.PostInstructions
	}
	if req.TreatmentNotes != nil {
		plan.TreatmentNotes = *req.TreatmentNotes
	}
	if req.SafetyNotes != nil {
		plan.SafetyNotes = *req.SafetyNotes
	}

	s.normalize(plan)

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return s.view(plan), nil
}

// Validate runs one builder stage and returns its problems. Problems are
// strings for the operator, not errors; they block submission only.
// Stage zero runs every stage.
func (s *Service) Validate(ctx context.Context, id uuid.UUID, stage int) ([]string, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stage == 0 {
		return planner.ValidateAll(plan), nil
	}
	return planner.Validate(plan, stage), nil
}

// Submit validates every stage, generates the plan's dated sessions and
// marks it submitted. Validation problems are returned without mutating
// anything.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*model.PlanView, []string, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if plan.Status == model.PlanStatusSubmitted {
		return nil, nil, errors.Conflict("plan is already submitted")
	}

	s.normalize(plan)
	if problems := planner.ValidateAll(plan); len(problems) > 0 {
		return nil, problems, nil
	}

	sessions := GenerateSessions(plan)
	if err := s.sessionRepo.CreateBatch(ctx, sessions); err != nil {
		return nil, nil, fmt.Errorf("failed to generate sessions: %w", err)
	}

	plan.Status = model.PlanStatusSubmitted
	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.PlansSubmitted.Inc()
		s.metrics.SessionsGenerated.Add(float64(len(sessions)))
	}
	if s.events != nil {
		if err := s.events.Emit(ctx, "plan_submitted", "plans", plan); err != nil {
			s.logger.Warn().Err(err).Str("plan_id", plan.ID.String()).Msg("failed to write outbox event")
		}
	}
	s.logger.Info().
		Str("plan_id", plan.ID.String()).
		Int("sessions", len(sessions)).
		Msg("treatment plan submitted")

	return s.view(plan), nil, nil
}

// SeedFromTemplate copies a course template into a fresh draft plan for
// the given patient and bumps the template's usage counter.
func (s *Service) SeedFromTemplate(ctx context.Context, templateID, patientID, doctorID uuid.UUID) (*model.PlanView, error) {
	tmpl, err := s.templateRepo.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	phases := make(model.Phases, len(tmpl.Phases))
	copy(phases, tmpl.Phases)

	plan := &model.TreatmentPlan{
		PatientID:       patientID,
		DoctorID:        doctorID,
		PanchakarmaType: tmpl.PanchakarmaType,
		Status:          model.PlanStatusDraft,
		Phases:          phases,
		Scheduling: model.SchedulingPreferences{
			StartDate:            time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour),
			PreferredTimeSlot:    model.TimeSlotMorning,
			RequireSameTherapist: true,
		},
	}
	s.normalize(plan)

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}

	if err := s.templateRepo.IncrementUsage(ctx, templateID); err != nil {
		s.logger.Warn().Err(err).Str("template_id", templateID.String()).Msg("failed to bump template usage")
	}
	return s.view(plan), nil
}

// normalize renumbers phases and recomputes every derived duration. It is
// idempotent and safe to run after any sequence of edits.
func (s *Service) normalize(plan *model.TreatmentPlan) {
	for i := range plan.Phases {
		plan.Phases[i].SequenceNumber = i + 1
		planner.SetPhaseTotalDays(&plan.Phases[i], plan.Phases[i].TotalDays)
	}
}

func (s *Service) view(plan *model.TreatmentPlan) *model.PlanView {
	return &model.PlanView{
		TreatmentPlan: *plan,
		Totals:        planner.Totals(plan),
	}
}
