package model

import "github.com/google/uuid"

// CourseTemplate is a predefined plan outline. Selecting one seeds a draft
// TreatmentPlan and bumps UsageCount.
type CourseTemplate struct {
	Base
	Name            string          `db:"name" json:"name"`
	PanchakarmaType PanchakarmaType `db:"panchakarma_type" json:"panchakarma_type"`
	Description     string          `db:"description" json:"description,omitempty"`
	Phases          Phases          `db:"phases" json:"phases"`
	UsageCount      int             `db:"usage_count" json:"usage_count"`
}

type SeedFromTemplateRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
}
