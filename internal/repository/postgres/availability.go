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

type availabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Upsert(ctx context.Context, av *model.TherapistAvailability) error {
	query := `
		INSERT INTO therapist_availability (
			id, therapist_id, working_days, working_hours,
			session_duration, slot_gap_minutes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (therapist_id) DO UPDATE
		SET working_days = EXCLUDED.working_days,
			working_hours = EXCLUDED.working_hours,
			session_duration = EXCLUDED.session_duration,
			slot_gap_minutes = EXCLUDED.slot_gap_minutes,
			updated_at = EXCLUDED.updated_at
	`
	if av.ID == uuid.Nil {
		av.ID = uuid.New()
		av.CreatedAt = time.Now()
	}
	av.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		av.ID,
		av.TherapistID,
		av.WorkingDays,
		av.WorkingHours,
		av.SessionDuration,
		av.SlotGapMinutes,
		av.CreatedAt,
		av.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}

func (r *availabilityRepository) GetByTherapist(ctx context.Context, therapistID uuid.UUID) (*model.TherapistAvailability, error) {
	query := `
		SELECT id, therapist_id, working_days, working_hours,
			   session_duration, slot_gap_minutes, created_at, updated_at, deleted_at
		FROM therapist_availability
		WHERE therapist_id = $1 AND deleted_at IS NULL
	`
	var av model.TherapistAvailability
	err := r.db.GetContext(ctx, &av, query, therapistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("availability", err)
		}
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return &av, nil
}
