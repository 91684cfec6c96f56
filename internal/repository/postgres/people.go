package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ayurmitra/panchakarma-api/internal/model"
	"github.com/ayurmitra/panchakarma-api/internal/repository"
	apperrors "github.com/ayurmitra/panchakarma-api/pkg/errors"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, date_of_birth, gender, prakriti,
			   created_at, updated_at, deleted_at
		FROM patients
		WHERE id = $1 AND deleted_at IS NULL
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, date_of_birth, gender, prakriti,
			   created_at, updated_at, deleted_at
		FROM patients
		WHERE deleted_at IS NULL
		ORDER BY last_name ASC, first_name ASC
	`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

type therapistRepository struct {
	db *sqlx.DB
}

func NewTherapistRepository(db *sqlx.DB) repository.TherapistRepository {
	return &therapistRepository{db: db}
}

const therapistColumns = `
	id, first_name, last_name, email, phone, role, specialization,
	password_hash, active, created_at, updated_at, deleted_at`

func (r *therapistRepository) Get(ctx context.Context, id uuid.UUID) (*model.Therapist, error) {
	query := `SELECT ` + therapistColumns + `
		FROM therapists
		WHERE id = $1 AND deleted_at IS NULL`

	var therapist model.Therapist
	err := r.db.GetContext(ctx, &therapist, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("therapist", err)
		}
		return nil, fmt.Errorf("failed to get therapist: %w", err)
	}
	return &therapist, nil
}

func (r *therapistRepository) GetByEmail(ctx context.Context, email string) (*model.Therapist, error) {
	query := `SELECT ` + therapistColumns + `
		FROM therapists
		WHERE email = $1 AND deleted_at IS NULL`

	var therapist model.Therapist
	err := r.db.GetContext(ctx, &therapist, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("therapist", err)
		}
		return nil, fmt.Errorf("failed to get therapist by email: %w", err)
	}
	return &therapist, nil
}

func (r *therapistRepository) List(ctx context.Context, role model.ProviderRole) ([]*model.Therapist, error) {
	query := `SELECT ` + therapistColumns + `
		FROM therapists
		WHERE deleted_at IS NULL AND active = true`
	args := []interface{}{}

	if role != "" {
		query += " AND role = $1"
		args = append(args, role)
	}
	query += " ORDER BY last_name ASC, first_name ASC"

	var therapists []*model.Therapist
	err := r.db.SelectContext(ctx, &therapists, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list therapists: %w", err)
	}
	return therapists, nil
}
