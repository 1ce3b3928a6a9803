package repository

import (
	"context"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientProfileRepository defines the interface for client coaching profiles.
type ClientProfileRepository interface {
	Create(ctx context.Context, profile *domain.ClientProfile) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ClientProfile, error)
	// GetByUserAndTrainerID is the "is this client managed by this trainer" check.
	GetByUserAndTrainerID(ctx context.Context, userID, trainerID uuid.UUID) (*domain.ClientProfile, error)
	GetByTrainerID(ctx context.Context, trainerID uuid.UUID) ([]domain.ClientProfile, error)
	Update(ctx context.Context, profile *domain.ClientProfile) error
	SetLastWorkoutDate(ctx context.Context, userID uuid.UUID, at time.Time) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// ExerciseRepository defines the interface for the global exercise catalog.
// There is deliberately no update or delete: catalog rows are immutable once
// referenced by prescriptions or logs.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
}

// ProgramRepository defines the interface for workout programs and their
// week/day structure.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.WorkoutProgram) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutProgram, error)
	// GetGraphByID loads the full nested graph:
	// weeks -> days -> workout -> prescriptions -> exercise.
	GetGraphByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutProgram, error)
	Update(ctx context.Context, program *domain.WorkoutProgram) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProgramStatus) error

	CreateWeek(ctx context.Context, week *domain.WorkoutWeek) (uuid.UUID, error)
	GetWeekByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutWeek, error)
	UpdateWeek(ctx context.Context, week *domain.WorkoutWeek) error

	CreateDay(ctx context.Context, day *domain.WorkoutDay) (uuid.UUID, error)
	GetDayByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutDay, error)
	UpdateDay(ctx context.Context, day *domain.WorkoutDay) error
}

// WorkoutRepository defines the interface for workouts, their prescriptions
// (WorkoutExercise) and their append-only performance logs (WorkoutLog).
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	// GetGraphByID loads prescriptions (with exercises) and logs.
	GetGraphByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkoutStatus) error
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Workout, error)
	ListByClientAndTrainer(ctx context.Context, clientID, trainerID uuid.UUID) ([]domain.Workout, error)
	CountPendingByProgram(ctx context.Context, programID uuid.UUID) (int64, error)

	CreatePrescription(ctx context.Context, ex *domain.WorkoutExercise) (uuid.UUID, error)
	GetPrescriptionByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutExercise, error)
	UpdatePrescription(ctx context.Context, ex *domain.WorkoutExercise) error
	// UpdatePrescriptionsForWeek bulk-updates every prescription of one
	// exercise within one week. Returns the number of rows touched.
	UpdatePrescriptionsForWeek(ctx context.Context, exerciseID uuid.UUID, weekNumber, sets, reps int, weightUsed *float64) (int64, error)
	CountPrescriptions(ctx context.Context, workoutID uuid.UUID) (int64, error)

	CreateLog(ctx context.Context, log *domain.WorkoutLog) (uuid.UUID, error)
	// CountDistinctLoggedExercises counts distinct exercise IDs this client
	// has logged against the workout, which drives completion derivation.
	CountDistinctLoggedExercises(ctx context.Context, workoutID, clientID uuid.UUID) (int64, error)
	ListLogs(ctx context.Context, clientID, exerciseID uuid.UUID, from, to *time.Time) ([]domain.WorkoutLog, error)
}

// Store bundles all repositories behind one handle with an explicit
// transactional boundary. Transact runs fn against a Store whose
// repositories share a single database transaction; returning an error
// rolls the whole unit back.
type Store interface {
	Users() UserRepository
	ClientProfiles() ClientProfileRepository
	Exercises() ExerciseRepository
	Programs() ProgramRepository
	Workouts() WorkoutRepository
	Transact(ctx context.Context, fn func(Store) error) error
}
