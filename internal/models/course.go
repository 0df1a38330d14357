package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseTest is a purchasable exam made of several modules.
type CourseTest struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	TestName  string         `gorm:"size:255;not null" json:"test_name"`
	Language  string         `gorm:"size:64" json:"language"`
	Duration  int            `gorm:"default:0" json:"duration"`
	Price     float64        `gorm:"default:0" json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Modules   []CourseModule `gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"modules,omitempty"`
}

// BeforeCreate assigns a document identifier.
func (t *CourseTest) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
