package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
	apperrors "github.com/ayurmitra/panchakarma-api/pkg/errors"
)

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *model.TreatmentPlan) error {
	query := `
		INSERT INTO treatment_plans (
			id, patient_id, doctor_id, consultation_id, therapist_id,
			panchakarma_type, status, phases, scheduling,
			pre_instructions, post_instructions, treatment_notes, safety_notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.PatientID,
		plan.DoctorID,
		plan.ConsultationID,
		plan.TherapistID,
		plan.PanchakarmaType,
		plan.Status,
		plan.Phases,
		plan.Scheduling,
		plan.PreInstructions,
		plan.PostInstructions,
		plan.TreatmentNotes,
		plan.SafetyNotes,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create treatment plan: %w", err)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id uuid.UUID) (*model.TreatmentPlan, error) {
	query := `
		SELECT id, patient_id, doctor_id, consultation_id, therapist_id,
			   panchakarma_type, status, phases, scheduling,
			   pre_instructions, post_instructions, treatment_notes, safety_notes,
			   created_at, updated_at, deleted_at
		FROM treatment_plans
		WHERE id = $1 AND deleted_at IS NULL
	`
	var plan model.TreatmentPlan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("treatment plan", err)
		}
		return nil, fmt.Errorf("failed to get treatment plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) Update(ctx context.Context, plan *model.TreatmentPlan) error {
	query := `
		UPDATE treatment_plans
		SET therapist_id = $1, panchakarma_type = $2, status = $3,
			phases = $4, scheduling = $5,
			pre_instructions = $6, post_instructions = $7,
			treatment_notes = $8, safety_notes = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL
	`
	plan.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		plan.TherapistID,
		plan.PanchakarmaType,
		plan.Status,
		plan.Phases,
		plan.Scheduling,
		plan.PreInstructions,
		plan.PostInstructions,
		plan.TreatmentNotes,
		plan.SafetyNotes,
		plan.UpdatedAt,
		plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update treatment plan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("treatment plan", nil)
	}
	return nil
}

func (r *planRepository) List(ctx context.Context, filters *model.PlanFilters) ([]*model.TreatmentPlan, error) {
	query := `
		SELECT id, patient_id, doctor_id, consultation_id, therapist_id,
			   panchakarma_type, status, phases, scheduling,
			   pre_instructions, post_instructions, treatment_notes, safety_notes,
			   created_at, updated_at, deleted_at
		FROM treatment_plans
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.DoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
			args = append(args, filters.DoctorID)
			argCount++
		}
		if filters.TherapistID != uuid.Nil {
			query += fmt.Sprintf(" AND therapist_id = $%d", argCount)
			args = append(args, filters.TherapistID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
	}

	query += " ORDER BY created_at DESC"

	var plans []*model.TreatmentPlan
	err := r.db.SelectContext(ctx, &plans, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list treatment plans: %w", err)
	}
	return plans, nil
}
