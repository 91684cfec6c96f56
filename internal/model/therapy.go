package model

// Therapy is a read-only catalog entry. Standard duration and type seed
// new therapy sessions when a doctor selects the therapy in a plan.
type Therapy struct {
	Base
	Name              string `db:"name" json:"name"`
	Type              string `db:"type" json:"type"`
	StandardDuration  int    `db:"standard_duration" json:"standard_duration"` // minutes
	Description       string `db:"description" json:"description,omitempty"`
	Contraindications string `db:"contraindications" json:"contraindications,omitempty"`
}
