package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ayurmitra/panchakarma-api/internal/model"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *model.TreatmentPlan) error
	Get(ctx context.Context, id uuid.UUID) (*model.TreatmentPlan, error)
	Update(ctx context.Context, plan *model.TreatmentPlan) error
	List(ctx context.Context, filters *model.PlanFilters) ([]*model.TreatmentPlan, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *model.RealtimeSession) error
	CreateBatch(ctx context.Context, sessions []*model.RealtimeSession) error
	Get(ctx context.Context, id uuid.UUID) (*model.RealtimeSession, error)
	List(ctx context.Context, filters *model.SessionFilters) ([]*model.RealtimeSession, error)

	// Transition loads the session under a row lock, applies fn and saves
	// the result in one transaction. Concurrent transition attempts on the
	// same session serialize here; fn returning an error rolls back without
	// mutation. The state machine assumes this at-most-one-winner contract.
	Transition(ctx context.Context, id uuid.UUID, fn func(*model.RealtimeSession) error) (*model.RealtimeSession, error)
}

type AvailabilityRepository interface {
	Upsert(ctx context.Context, av *model.TherapistAvailability) error
	GetByTherapist(ctx context.Context, therapistID uuid.UUID) (*model.TherapistAvailability, error)
}

type TherapyRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Therapy, error)
	List(ctx context.Context) ([]*model.Therapy, error)
}

type TemplateRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.CourseTemplate, error)
	List(ctx context.Context) ([]*model.CourseTemplate, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type PatientRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
}

type TherapistRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Therapist, error)
	GetByEmail(ctx context.Context, email string) (*model.Therapist, error)
	List(ctx context.Context, role model.ProviderRole) ([]*model.Therapist, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMessage *string) error
}
