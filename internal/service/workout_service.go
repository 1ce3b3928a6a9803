package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrClientNotManaged = errors.New("client is not managed by this trainer")
)

// --- Input Types ---

// WorkoutExerciseInput is one prescription in a directly-created workout
// (outside any program). Direct creation predates the category-specific
// rules, so sets and reps are required regardless of category.
type WorkoutExerciseInput struct {
	Name       string
	Category   string
	Sets       int
	Reps       int
	WeightUsed *float64
}

type CreateWorkoutInput struct {
	TrainerID     uuid.UUID
	ClientID      uuid.UUID
	Title         string
	ScheduledDate time.Time
	Exercises     []WorkoutExerciseInput
}

// LogExerciseInput is the flat payload of one performance record.
type LogExerciseInput struct {
	WorkoutID        uuid.UUID
	ExerciseID       uuid.UUID
	ClientID         uuid.UUID
	SetsCompleted    int
	RepsCompleted    int
	WeightUsed       *float64
	Notes            string
	TimeInSeconds    *int
	DistanceInMeters *float64
}

// ExerciseProgress pairs a catalog exercise with a client's log history.
type ExerciseProgress struct {
	Exercise *domain.Exercise    `json:"exercise"`
	Progress []domain.WorkoutLog `json:"progress"`
}

// --- Service Interface ---

// WorkoutService covers standalone workouts, performance logging with
// completion derivation, and log-based progress reads.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, input CreateWorkoutInput) (*domain.Workout, error)
	LogExercise(ctx context.Context, input LogExerciseInput) (*domain.WorkoutLog, error)
	UpdatePrescriptionsForWeek(ctx context.Context, exerciseID uuid.UUID, weekNumber, sets, reps int, weightUsed *float64) (int64, error)
	GetClientWorkoutHistory(ctx context.Context, clientID uuid.UUID) ([]domain.Workout, error)
	GetTrainerClientWorkoutHistory(ctx context.Context, trainerID, clientID uuid.UUID) ([]domain.Workout, error)
	GetExerciseProgress(ctx context.Context, trainerID, clientID, exerciseID uuid.UUID, from, to *time.Time) (*ExerciseProgress, error)
}

// --- Service Implementation ---

type workoutService struct {
	store   repository.Store
	catalog CatalogService
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(store repository.Store, catalog CatalogService) WorkoutService {
	return &workoutService{store: store, catalog: catalog}
}

// CreateWorkout creates a standalone workout with its prescriptions in one
// transaction. Exercise names are resolved through the catalog first, same
// as the Program Builder.
func (s *workoutService) CreateWorkout(ctx context.Context, input CreateWorkoutInput) (*domain.Workout, error) {
	if input.TrainerID == uuid.Nil || input.ClientID == uuid.Nil {
		return nil, fmt.Errorf("%w: trainer ID and client ID are required", ErrValidation)
	}
	if len(input.Exercises) == 0 {
		return nil, fmt.Errorf("%w: at least one exercise is required", ErrValidation)
	}
	for i, ex := range input.Exercises {
		if ex.Name == "" || ex.Category == "" || ex.Sets == 0 || ex.Reps == 0 {
			return nil, fmt.Errorf("%w: exercise %d needs name, category, sets and reps", ErrValidation, i+1)
		}
	}

	resolved := make([]*domain.Exercise, len(input.Exercises))
	for i, ex := range input.Exercises {
		exercise, err := s.catalog.Resolve(ctx, ex.Name, ex.Category)
		if err != nil {
			return nil, err
		}
		resolved[i] = exercise
	}

	workout := &domain.Workout{
		TrainerID:     input.TrainerID,
		ClientID:      input.ClientID,
		Title:         input.Title,
		ScheduledDate: input.ScheduledDate,
		Status:        domain.WorkoutStatusPending,
	}

	err := s.store.Transact(ctx, func(tx repository.Store) error {
		workoutID, err := tx.Workouts().Create(ctx, workout)
		if err != nil {
			return err
		}
		for i, ex := range input.Exercises {
			if _, err := tx.Workouts().CreatePrescription(ctx, &domain.WorkoutExercise{
				WorkoutID:  workoutID,
				ExerciseID: resolved[i].ID,
				Sets:       ex.Sets,
				Reps:       ex.Reps,
				WeightUsed: ex.WeightUsed,
				// Standalone workouts have no week context
				WeekNumber:   1,
				OriginalWeek: 1,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.store.Workouts().GetGraphByID(ctx, workout.ID)
}

// LogExercise appends one performance record and derives completion state
// from it. The log insert is durable on its own; the derivation steps are
// recomputable predicates over owned rows, so a retry after a partial
// failure converges instead of double-counting.
func (s *workoutService) LogExercise(ctx context.Context, input LogExerciseInput) (*domain.WorkoutLog, error) {
	if input.WorkoutID == uuid.Nil || input.ExerciseID == uuid.Nil || input.ClientID == uuid.Nil {
		return nil, fmt.Errorf("%w: workout ID, exercise ID and client ID are required", ErrValidation)
	}

	workout, err := s.store.Workouts().GetByID(ctx, input.WorkoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	entry := &domain.WorkoutLog{
		WorkoutID:        input.WorkoutID,
		ExerciseID:       input.ExerciseID,
		ClientID:         input.ClientID,
		SetsCompleted:    input.SetsCompleted,
		RepsCompleted:    input.RepsCompleted,
		WeightUsed:       input.WeightUsed,
		Notes:            input.Notes,
		TimeInSeconds:    input.TimeInSeconds,
		DistanceInMeters: input.DistanceInMeters,
		LogDate:          time.Now().UTC(),
	}
	if _, err := s.store.Workouts().CreateLog(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.recomputeWorkoutStatus(ctx, workout, input.ClientID); err != nil {
		return nil, err
	}
	if workout.ProgramID != nil {
		if err := s.recomputeProgramStatus(ctx, *workout.ProgramID); err != nil {
			return nil, err
		}
	}

	// A missing profile is tolerated: the log itself is the system of record.
	if err := s.store.ClientProfiles().SetLastWorkoutDate(ctx, input.ClientID, entry.LogDate); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		logrus.WithField("clientId", input.ClientID).Warn("log exercise: client has no profile to stamp")
	}

	return entry, nil
}

// recomputeWorkoutStatus derives the workout's status from its prescription
// and log counts: completed exactly when the client has logged every
// distinct prescribed exercise.
func (s *workoutService) recomputeWorkoutStatus(ctx context.Context, workout *domain.Workout, clientID uuid.UUID) error {
	prescribed, err := s.store.Workouts().CountPrescriptions(ctx, workout.ID)
	if err != nil {
		return err
	}
	logged, err := s.store.Workouts().CountDistinctLoggedExercises(ctx, workout.ID, clientID)
	if err != nil {
		return err
	}

	status := domain.WorkoutStatusPending
	if prescribed > 0 && logged >= prescribed {
		status = domain.WorkoutStatusCompleted
	}
	if status == workout.Status {
		return nil
	}
	workout.Status = status
	return s.store.Workouts().UpdateStatus(ctx, workout.ID, status)
}

// recomputeProgramStatus marks a program completed when none of its own
// workouts remain pending. The count is scoped to the program, so a client
// training under several trainers or several concurrent programs cannot
// complete one program by finishing another's workouts.
func (s *workoutService) recomputeProgramStatus(ctx context.Context, programID uuid.UUID) error {
	pending, err := s.store.Workouts().CountPendingByProgram(ctx, programID)
	if err != nil {
		return err
	}
	status := domain.ProgramStatusPending
	if pending == 0 {
		status = domain.ProgramStatusCompleted
	}
	return s.store.Programs().UpdateStatus(ctx, programID, status)
}

// UpdatePrescriptionsForWeek bulk-edits the sets/reps/weight of every
// prescription of one exercise within one week. Returns the number of
// prescriptions touched.
func (s *workoutService) UpdatePrescriptionsForWeek(ctx context.Context, exerciseID uuid.UUID, weekNumber, sets, reps int, weightUsed *float64) (int64, error) {
	if exerciseID == uuid.Nil || weekNumber <= 0 {
		return 0, fmt.Errorf("%w: exercise ID and a positive week number are required", ErrValidation)
	}
	return s.store.Workouts().UpdatePrescriptionsForWeek(ctx, exerciseID, weekNumber, sets, reps, weightUsed)
}

// GetClientWorkoutHistory returns the client's workouts with prescriptions
// and logs.
func (s *workoutService) GetClientWorkoutHistory(ctx context.Context, clientID uuid.UUID) ([]domain.Workout, error) {
	if clientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client ID is required", ErrValidation)
	}
	return s.store.Workouts().ListByClient(ctx, clientID)
}

// GetTrainerClientWorkoutHistory is the trainer-side view, guarded by the
// client-belongs-to-trainer check.
func (s *workoutService) GetTrainerClientWorkoutHistory(ctx context.Context, trainerID, clientID uuid.UUID) ([]domain.Workout, error) {
	if err := s.ensureManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.store.Workouts().ListByClientAndTrainer(ctx, clientID, trainerID)
}

// GetExerciseProgress returns a client's log history for one exercise,
// oldest first, optionally bounded by a date range.
func (s *workoutService) GetExerciseProgress(ctx context.Context, trainerID, clientID, exerciseID uuid.UUID, from, to *time.Time) (*ExerciseProgress, error) {
	if err := s.ensureManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}

	exercise, err := s.store.Exercises().GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	logs, err := s.store.Workouts().ListLogs(ctx, clientID, exerciseID, from, to)
	if err != nil {
		return nil, err
	}
	return &ExerciseProgress{Exercise: exercise, Progress: logs}, nil
}

func (s *workoutService) ensureManaged(ctx context.Context, trainerID, clientID uuid.UUID) error {
	_, err := s.store.ClientProfiles().GetByUserAndTrainerID(ctx, clientID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotManaged
		}
		return err
	}
	return nil
}
