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

const sessionColumns = `
	id, patient_id, provider_id, plan_id, therapy_id,
	session_type, status,
	phase_sequence, phase_name, therapy_name, session_number, day_number,
	scheduled_at, estimated_duration, start_time, completed_at,
	pauses, total_pauses, actual_duration_secs,
	cancel_reason, completion_summary, rating,
	vitals, progress_updates, current_stage, current_percentage,
	adverse_effects, emergency_reported, materials, notes,
	created_at, updated_at, deleted_at`

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.RealtimeSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, insertSessionQuery, session)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) CreateBatch(ctx context.Context, sessions []*model.RealtimeSession) error {
	if len(sessions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, session := range sessions {
		if session.ID == uuid.Nil {
			session.ID = uuid.New()
		}
		session.CreatedAt = time.Now()
		session.UpdatedAt = time.Now()
		if _, err := tx.NamedExecContext(ctx, insertSessionQuery, session); err != nil {
			return fmt.Errorf("failed to create session batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session batch: %w", err)
	}
	return nil
}

const insertSessionQuery = `
	INSERT INTO realtime_sessions (
		id, patient_id, provider_id, plan_id, therapy_id,
		session_type, status,
		phase_sequence, phase_name, therapy_name, session_number, day_number,
		scheduled_at, estimated_duration, start_time, completed_at,
		pauses, total_pauses, actual_duration_secs,
		cancel_reason, completion_summary, rating,
		vitals, progress_updates, current_stage, current_percentage,
		adverse_effects, emergency_reported, materials, notes,
		created_at, updated_at
	) VALUES (
		:id, :patient_id, :provider_id, :plan_id, :therapy_id,
		:session_type, :status,
		:phase_sequence, :phase_name, :therapy_name, :session_number, :day_number,
		:scheduled_at, :estimated_duration, :start_time, :completed_at,
		:pauses, :total_pauses, :actual_duration_secs,
		:cancel_reason, :completion_summary, :rating,
		:vitals, :progress_updates, :current_stage, :current_percentage,
		:adverse_effects, :emergency_reported, :materials, :notes,
		:created_at, :updated_at
	)`

const updateSessionQuery = `
	UPDATE realtime_sessions
	SET status = :status,
		start_time = :start_time,
		completed_at = :completed_at,
		pauses = :pauses,
		total_pauses = :total_pauses,
		actual_duration_secs = :actual_duration_secs,
		cancel_reason = :cancel_reason,
		completion_summary = :completion_summary,
		rating = :rating,
		vitals = :vitals,
		progress_updates = :progress_updates,
		current_stage = :current_stage,
		current_percentage = :current_percentage,
		adverse_effects = :adverse_effects,
		emergency_reported = :emergency_reported,
		materials = :materials,
		notes = :notes,
		updated_at = :updated_at
	WHERE id = :id`

func (r *sessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.RealtimeSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM realtime_sessions
		WHERE id = $1 AND deleted_at IS NULL`

	var session model.RealtimeSession
	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("session", err)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) List(ctx context.Context, filters *model.SessionFilters) ([]*model.RealtimeSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM realtime_sessions
		WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.ProviderID != uuid.Nil {
			query += fmt.Sprintf(" AND provider_id = $%d", argCount)
			args = append(args, filters.ProviderID)
			argCount++
		}
		if filters.PlanID != uuid.Nil {
			query += fmt.Sprintf(" AND plan_id = $%d", argCount)
			args = append(args, filters.PlanID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.SessionType != "" {
			query += fmt.Sprintf(" AND session_type = $%d", argCount)
			args = append(args, filters.SessionType)
			argCount++
		}
		if !filters.From.IsZero() {
			query += fmt.Sprintf(" AND scheduled_at >= $%d", argCount)
			args = append(args, filters.From)
			argCount++
		}
		if !filters.To.IsZero() {
			query += fmt.Sprintf(" AND scheduled_at <= $%d", argCount)
			args = append(args, filters.To)
			argCount++
		}
	}

	query += " ORDER BY scheduled_at ASC"

	var sessions []*model.RealtimeSession
	err := r.db.SelectContext(ctx, &sessions, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Transition serializes concurrent state changes on one session behind a
// row lock. fn sees the freshest committed row; returning an error rolls
// the transaction back so rejected transitions never persist anything.
func (r *sessionRepository) Transition(ctx context.Context, id uuid.UUID, fn func(*model.RealtimeSession) error) (*model.RealtimeSession, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + sessionColumns + `
		FROM realtime_sessions
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`

	var session model.RealtimeSession
	if err := tx.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("session", err)
		}
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}

	if err := fn(&session); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	result, err := tx.NamedExecContext(ctx, updateSessionQuery, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.NotFound("session", nil)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session transition: %w", err)
	}
	return &session, nil
}
