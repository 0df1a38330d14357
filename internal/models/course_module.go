package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseModule stores the authored content of one module level of a test. Its ID is the
// container of content-scoped question identifiers, so it must never be regenerated.
type CourseModule struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	TestID    string         `gorm:"size:36;index;not null" json:"test_id"`
	Name      string         `gorm:"size:64;not null" json:"name"`
	Level     string         `gorm:"size:32" json:"level"`
	Content   datatypes.JSON `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BeforeCreate assigns a document identifier.
func (m *CourseModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
