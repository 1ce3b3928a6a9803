package service

import (
	"context"
	"testing"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkoutFixture() (*memStore, WorkoutService) {
	store := newMemStore()
	catalog := NewCatalogService(store)
	return store, NewWorkoutService(store, catalog)
}

func seedProfile(store *memStore, trainerID, clientID uuid.UUID) {
	id := uuid.New()
	store.profiles[id] = domain.ClientProfile{
		ID:        id,
		UserID:    clientID,
		TrainerID: trainerID,
		Name:      "Client",
	}
}

// seedWorkout inserts a workout with one prescription per exercise ID.
func seedWorkout(store *memStore, programID *uuid.UUID, trainerID, clientID uuid.UUID, exerciseIDs ...uuid.UUID) uuid.UUID {
	workoutID := uuid.New()
	store.workouts[workoutID] = domain.Workout{
		ID:        workoutID,
		ProgramID: programID,
		TrainerID: trainerID,
		ClientID:  clientID,
		Title:     "Session",
		Status:    domain.WorkoutStatusPending,
	}
	for _, exerciseID := range exerciseIDs {
		id := uuid.New()
		store.prescriptions[id] = domain.WorkoutExercise{
			ID:           id,
			WorkoutID:    workoutID,
			ExerciseID:   exerciseID,
			Sets:         3,
			Reps:         10,
			WeekNumber:   1,
			OriginalWeek: 1,
		}
	}
	return workoutID
}

func TestCreateWorkoutStandalone(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()

	workout, err := workouts.CreateWorkout(ctx, CreateWorkoutInput{
		TrainerID:     trainerID,
		ClientID:      clientID,
		Title:         "Push Day",
		ScheduledDate: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Exercises: []WorkoutExerciseInput{
			{Name: "Bench Press", Category: domain.CategoryStrength, Sets: 4, Reps: 8},
		},
	})
	require.NoError(t, err)

	assert.Nil(t, workout.ProgramID)
	assert.Equal(t, domain.WorkoutStatusPending, workout.Status)
	require.Len(t, workout.Exercises, 1)
	assert.Equal(t, 1, workout.Exercises[0].WeekNumber)
	assert.Equal(t, 1, workout.Exercises[0].OriginalWeek)
	assert.Len(t, store.exercises, 1)
}

func TestCreateWorkoutRequiresExercises(t *testing.T) {
	_, workouts := newWorkoutFixture()

	_, err := workouts.CreateWorkout(context.Background(), CreateWorkoutInput{
		TrainerID: uuid.New(),
		ClientID:  uuid.New(),
		Title:     "Empty",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogExerciseDerivesWorkoutCompletion(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()
	seedProfile(store, trainerID, clientID)

	ex1, ex2, ex3 := uuid.New(), uuid.New(), uuid.New()
	workoutID := seedWorkout(store, nil, trainerID, clientID, ex1, ex2, ex3)

	logOne := func(exerciseID uuid.UUID) {
		_, err := workouts.LogExercise(ctx, LogExerciseInput{
			WorkoutID:     workoutID,
			ExerciseID:    exerciseID,
			ClientID:      clientID,
			SetsCompleted: 3,
			RepsCompleted: 10,
		})
		require.NoError(t, err)
	}

	logOne(ex1)
	logOne(ex2)
	assert.Equal(t, domain.WorkoutStatusPending, store.workouts[workoutID].Status)

	// Re-logging an already-logged exercise must not count as new coverage.
	logOne(ex2)
	assert.Equal(t, domain.WorkoutStatusPending, store.workouts[workoutID].Status)

	logOne(ex3)
	assert.Equal(t, domain.WorkoutStatusCompleted, store.workouts[workoutID].Status)

	// The profile is stamped with the latest training activity.
	profile, err := store.ClientProfiles().GetByUserID(ctx, clientID)
	require.NoError(t, err)
	require.NotNil(t, profile.LastWorkoutDate)
}

func TestLogExerciseToleratesMissingProfile(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	clientID := uuid.New()

	exerciseID := uuid.New()
	workoutID := seedWorkout(store, nil, uuid.New(), clientID, exerciseID)

	_, err := workouts.LogExercise(ctx, LogExerciseInput{
		WorkoutID:     workoutID,
		ExerciseID:    exerciseID,
		ClientID:      clientID,
		SetsCompleted: 3,
		RepsCompleted: 10,
	})
	require.NoError(t, err)
	assert.Len(t, store.logs, 1)
}

func TestLogExerciseUnknownWorkout(t *testing.T) {
	_, workouts := newWorkoutFixture()

	_, err := workouts.LogExercise(context.Background(), LogExerciseInput{
		WorkoutID:  uuid.New(),
		ExerciseID: uuid.New(),
		ClientID:   uuid.New(),
	})
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestProgramCompletionScopedToOwningProgram(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()
	seedProfile(store, trainerID, clientID)

	programA, programB := uuid.New(), uuid.New()
	store.programs[programA] = domain.WorkoutProgram{ID: programA, Status: domain.ProgramStatusPending}
	store.programs[programB] = domain.WorkoutProgram{ID: programB, Status: domain.ProgramStatusPending}

	exA, exB := uuid.New(), uuid.New()
	workoutA := seedWorkout(store, &programA, trainerID, clientID, exA)
	seedWorkout(store, &programB, trainerID, clientID, exB)

	_, err := workouts.LogExercise(ctx, LogExerciseInput{
		WorkoutID:     workoutA,
		ExerciseID:    exA,
		ClientID:      clientID,
		SetsCompleted: 3,
		RepsCompleted: 10,
	})
	require.NoError(t, err)

	// Finishing program A's only workout completes A and leaves B untouched.
	assert.Equal(t, domain.ProgramStatusCompleted, store.programs[programA].Status)
	assert.Equal(t, domain.ProgramStatusPending, store.programs[programB].Status)
}

func TestProgramCompletionWaitsForAllWorkouts(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()
	seedProfile(store, trainerID, clientID)

	programID := uuid.New()
	store.programs[programID] = domain.WorkoutProgram{ID: programID, Status: domain.ProgramStatusPending}

	ex1, ex2 := uuid.New(), uuid.New()
	workout1 := seedWorkout(store, &programID, trainerID, clientID, ex1)
	workout2 := seedWorkout(store, &programID, trainerID, clientID, ex2)

	log := func(workoutID, exerciseID uuid.UUID) {
		_, err := workouts.LogExercise(ctx, LogExerciseInput{
			WorkoutID:     workoutID,
			ExerciseID:    exerciseID,
			ClientID:      clientID,
			SetsCompleted: 3,
			RepsCompleted: 10,
		})
		require.NoError(t, err)
	}

	log(workout1, ex1)
	assert.Equal(t, domain.ProgramStatusPending, store.programs[programID].Status)

	log(workout2, ex2)
	assert.Equal(t, domain.ProgramStatusCompleted, store.programs[programID].Status)
}

func TestUpdatePrescriptionsForWeek(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()

	exerciseID := uuid.New()
	workoutID := seedWorkout(store, nil, trainerID, clientID, exerciseID)

	// A second prescription of the same exercise in week 2.
	otherID := uuid.New()
	store.prescriptions[otherID] = domain.WorkoutExercise{
		ID:           otherID,
		WorkoutID:    workoutID,
		ExerciseID:   exerciseID,
		Sets:         3,
		Reps:         10,
		WeekNumber:   2,
		OriginalWeek: 2,
	}

	updated, err := workouts.UpdatePrescriptionsForWeek(ctx, exerciseID, 2, 5, 5, floatPtr(120))
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	got := store.prescriptions[otherID]
	assert.Equal(t, 5, got.Sets)
	assert.Equal(t, 5, got.Reps)
	require.NotNil(t, got.WeightUsed)
	assert.Equal(t, 120.0, *got.WeightUsed)

	// Week 1 prescriptions are untouched.
	for id, ex := range store.prescriptions {
		if id == otherID {
			continue
		}
		assert.Equal(t, 3, ex.Sets)
	}
}

func TestGetTrainerClientWorkoutHistoryRequiresManagedClient(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()

	_, err := workouts.GetTrainerClientWorkoutHistory(ctx, trainerID, clientID)
	assert.ErrorIs(t, err, ErrClientNotManaged)

	seedProfile(store, trainerID, clientID)
	seedWorkout(store, nil, trainerID, clientID, uuid.New())

	history, err := workouts.GetTrainerClientWorkoutHistory(ctx, trainerID, clientID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestGetExerciseProgressFiltersByDateRange(t *testing.T) {
	store, workouts := newWorkoutFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()
	seedProfile(store, trainerID, clientID)

	exerciseID := uuid.New()
	store.exercises[exerciseID] = domain.Exercise{ID: exerciseID, Name: "Squat", Category: domain.CategoryStrength}
	workoutID := seedWorkout(store, nil, trainerID, clientID, exerciseID)

	for day := 1; day <= 3; day++ {
		store.logs = append(store.logs, domain.WorkoutLog{
			ID:         uuid.New(),
			WorkoutID:  workoutID,
			ExerciseID: exerciseID,
			ClientID:   clientID,
			LogDate:    time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC),
		})
	}

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	progress, err := workouts.GetExerciseProgress(ctx, trainerID, clientID, exerciseID, &from, nil)
	require.NoError(t, err)

	assert.Equal(t, "Squat", progress.Exercise.Name)
	require.Len(t, progress.Progress, 2)
	assert.True(t, progress.Progress[0].LogDate.Before(progress.Progress[1].LogDate))
}

func TestGetExerciseProgressUnknownExercise(t *testing.T) {
	store, workouts := newWorkoutFixture()
	trainerID, clientID := uuid.New(), uuid.New()
	seedProfile(store, trainerID, clientID)

	_, err := workouts.GetExerciseProgress(context.Background(), trainerID, clientID, uuid.New(), nil, nil)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
