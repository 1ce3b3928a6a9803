// internal/domain/program.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgramStatus is the lifecycle state of a workout program.
// The only transition is pending -> completed, derived from the program's
// remaining pending workouts rather than set directly by clients.
type ProgramStatus string

const (
	ProgramStatusPending   ProgramStatus = "pending"
	ProgramStatusCompleted ProgramStatus = "completed"
)

// WorkoutProgram is a multi-week structured training plan a trainer assigns
// to a client. It owns an ordered sequence of weeks; DurationWeeks always
// equals the number of weeks submitted at creation.
type WorkoutProgram struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TrainerID     uuid.UUID     `gorm:"type:uuid;index;not null" json:"trainerId"`
	ClientID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"clientId"`
	Title         string        `gorm:"not null" json:"title"`
	DurationWeeks int           `gorm:"not null" json:"durationWeeks"`
	Status        ProgramStatus `gorm:"not null;default:pending" json:"status"`
	RepeatWeek    bool          `json:"repeatWeek"` // Week template recurs
	Weeks         []WorkoutWeek `gorm:"foreignKey:ProgramID" json:"weeks,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// WorkoutWeek is a positional slot within a program. WeekNumber is 1-based
// and scoped to the program, not globally unique.
type WorkoutWeek struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID  uuid.UUID    `gorm:"type:uuid;index;not null" json:"programId"`
	WeekNumber int          `gorm:"not null" json:"weekNumber"`
	Days       []WorkoutDay `gorm:"foreignKey:WeekID" json:"days,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// WorkoutDay links one scheduled Workout into a week slot. DayNumber is
// 1-based within the week.
type WorkoutDay struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WeekID    uuid.UUID `gorm:"type:uuid;index;not null" json:"weekId"`
	DayNumber int       `gorm:"not null" json:"dayNumber"`
	WorkoutID uuid.UUID `gorm:"type:uuid;index;not null" json:"workoutId"`
	Workout   *Workout  `gorm:"foreignKey:WorkoutID" json:"workout,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
