package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Result status values.
const (
	ResultStatusGraded  = "graded"
	ResultStatusPartial = "partial"
	ResultStatusPending = "pending"
)

// TestResult is the immutable record of one graded submission. RawPayload uses a plain json
// column instead of jsonb so Postgres keeps the submitted bytes unchanged.
type TestResult struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	TestID           string         `gorm:"size:64;index;not null" json:"test_id"`
	UserID           string         `gorm:"size:64;index;not null" json:"user_id"`
	SubmittedAt      time.Time      `gorm:"index;not null" json:"submitted_at"`
	RawPayload       datatypes.JSON `gorm:"type:json" json:"raw_payload"`
	PerQuestion      datatypes.JSON `json:"per_question"`
	TotalPoints      float64        `gorm:"not null" json:"total_points"`
	MaxPoints        float64        `gorm:"not null" json:"max_points"`
	PerModuleSummary datatypes.JSON `json:"per_module_summary"`
	Status           string         `gorm:"size:16;not null" json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
}

// BeforeCreate assigns a document identifier.
func (r *TestResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsGraded reports whether any answer of the submission was gradable.
func (r TestResult) IsGraded() bool {
	return r.Status == ResultStatusGraded
}
