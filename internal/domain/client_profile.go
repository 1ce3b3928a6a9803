package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ClientProfile holds the coaching data a trainer keeps about a client,
// separate from the client's login account (User).
type ClientProfile struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	TrainerID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"trainerId"`
	Name            string         `json:"name"`
	Age             *int           `json:"age,omitempty"`
	Weight          *float64       `json:"weight,omitempty"`
	BodyFat         *float64       `json:"bodyFat,omitempty"`
	ProgressPics    pq.StringArray `gorm:"type:text[]" json:"progressPics,omitempty"` // S3 object keys
	LastWorkoutDate *time.Time     `json:"lastWorkoutDate,omitempty"`                 // Updated as a side effect of logging
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
