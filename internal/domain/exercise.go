// internal/domain/exercise.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Exercise categories used by the catalog. Category-specific prescription
// fields (sets/reps vs distance/calories) are validated by the program
// service, not enforced at the DB level.
const (
	CategoryStrength = "Strength"
	CategoryCardio   = "Cardio"
)

// Exercise is a global dictionary entry, created lazily on first use and
// shared across trainers. Name is the unique (case-sensitive) lookup key.
// Rows are never deleted while referenced by prescriptions or logs.
type Exercise struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Category  string    `gorm:"not null" json:"category"` // e.g. "Strength", "Cardio"
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
