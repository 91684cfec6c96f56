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

// Read-only reference catalogs: therapies and course templates.

type therapyRepository struct {
	db *sqlx.DB
}

func NewTherapyRepository(db *sqlx.DB) repository.TherapyRepository {
	return &therapyRepository{db: db}
}

func (r *therapyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Therapy, error) {
	query := `
		SELECT id, name, type, standard_duration, description, contraindications,
			   created_at, updated_at, deleted_at
		FROM therapies
		WHERE id = $1 AND deleted_at IS NULL
	`
	var therapy model.Therapy
	err := r.db.GetContext(ctx, &therapy, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("therapy", err)
		}
		return nil, fmt.Errorf("failed to get therapy: %w", err)
	}
	return &therapy, nil
}

func (r *therapyRepository) List(ctx context.Context) ([]*model.Therapy, error) {
	query := `
		SELECT id, name, type, standard_duration, description, contraindications,
			   created_at, updated_at, deleted_at
		FROM therapies
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`
	var therapies []*model.Therapy
	err := r.db.SelectContext(ctx, &therapies, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list therapies: %w", err)
	}
	return therapies, nil
}

type templateRepository struct {
	db *sqlx.DB
}

func NewTemplateRepository(db *sqlx.DB) repository.TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Get(ctx context.Context, id uuid.UUID) (*model.CourseTemplate, error) {
	query := `
		SELECT id, name, panchakarma_type, description, phases, usage_count,
			   created_at, updated_at, deleted_at
		FROM course_templates
		WHERE id = $1 AND deleted_at IS NULL
	`
	var tmpl model.CourseTemplate
	err := r.db.GetContext(ctx, &tmpl, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("course template", err)
		}
		return nil, fmt.Errorf("failed to get course template: %w", err)
	}
	return &tmpl, nil
}

func (r *templateRepository) List(ctx context.Context) ([]*model.CourseTemplate, error) {
	query := `
		SELECT id, name, panchakarma_type, description, phases, usage_count,
			   created_at, updated_at, deleted_at
		FROM course_templates
		WHERE deleted_at IS NULL
		ORDER BY usage_count DESC, name ASC
	`
	var templates []*model.CourseTemplate
	err := r.db.SelectContext(ctx, &templates, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list course templates: %w", err)
	}
	return templates, nil
}

func (r *templateRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE course_templates
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment template usage: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("course template", nil)
	}
	return nil
}
