package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutStatus is the lifecycle state of a single workout. Like programs,
// the only transition is pending -> completed, recomputed from log counts.
type WorkoutStatus string

const (
	WorkoutStatusPending   WorkoutStatus = "pending"
	WorkoutStatusCompleted WorkoutStatus = "completed"
)

// Workout is a concrete scheduled training session. It is independently
// addressable: it can be created directly, or embedded in a program day, in
// which case ProgramID is set so completion derivation stays scoped to the
// owning program.
type Workout struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID     *uuid.UUID        `gorm:"type:uuid;index" json:"programId,omitempty"` // Nil for standalone workouts
	TrainerID     uuid.UUID         `gorm:"type:uuid;index;not null" json:"trainerId"`
	ClientID      uuid.UUID         `gorm:"type:uuid;index;not null" json:"clientId"`
	Title         string            `gorm:"not null" json:"title"`
	ScheduledDate time.Time         `json:"scheduledDate"`
	Status        WorkoutStatus     `gorm:"not null;default:pending" json:"status"`
	Exercises     []WorkoutExercise `gorm:"foreignKey:WorkoutID" json:"workoutExercises,omitempty"`
	Logs          []WorkoutLog      `gorm:"foreignKey:WorkoutID" json:"logs,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// WorkoutExercise is a prescription of one catalog Exercise within one
// Workout. WeekNumber is the week the prescription currently applies to and
// is freely mutable; OriginalWeek is the week it was first created in and is
// only ever changed when an edit supplies it explicitly.
type WorkoutExercise struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutID    uuid.UUID `gorm:"type:uuid;index;not null" json:"workoutId"`
	ExerciseID   uuid.UUID `gorm:"type:uuid;index;not null" json:"exerciseId"`
	Exercise     *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	WeightUsed   *float64  `json:"weightUsed,omitempty"`
	WeekNumber   int       `gorm:"not null" json:"weekNumber"`
	OriginalWeek int       `gorm:"not null" json:"originalWeek"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WorkoutLog is an append-only record of actual performance against a
// prescription. Rows are never updated or deleted.
type WorkoutLog struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutID        uuid.UUID `gorm:"type:uuid;index;not null" json:"workoutId"`
	ExerciseID       uuid.UUID `gorm:"type:uuid;index;not null" json:"exerciseId"`
	ClientID         uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	SetsCompleted    int       `json:"setsCompleted"`
	RepsCompleted    int       `json:"repsCompleted"`
	WeightUsed       *float64  `json:"weightUsed,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	TimeInSeconds    *int      `json:"timeInSeconds,omitempty"`
	DistanceInMeters *float64  `json:"distanceInMeters,omitempty"`
	LogDate          time.Time `json:"logDate"` // Defaults to creation time
	CreatedAt        time.Time `json:"createdAt"`
}
