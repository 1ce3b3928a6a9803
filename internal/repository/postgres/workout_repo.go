package postgres

import (
	"context"
	"errors"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// workoutRepository implements repository.WorkoutRepository
type workoutRepository struct {
	db *gorm.DB
}

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) (uuid.UUID, error) {
	if workout.TrainerID == uuid.Nil || workout.ClientID == uuid.Nil {
		return uuid.Nil, errors.New("workout trainer ID and client ID are required")
	}

	workout.ID = uuid.New()
	if workout.Status == "" {
		workout.Status = domain.WorkoutStatusPending
	}
	if err := r.db.WithContext(ctx).Omit("Exercises", "Logs").Create(workout).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return workout.ID, nil
}

func (r *workoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&workout).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &workout, nil
}

// GetGraphByID loads the workout with its prescriptions (and their catalog
// exercises) and logs.
func (r *workoutRepository) GetGraphByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.db.WithContext(ctx).
		Preload("Exercises").
		Preload("Exercises.Exercise").
		Preload("Logs").
		Where("id = ?", id).
		First(&workout).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &workout, nil
}

// Update saves the mutable workout header fields (title, scheduled date).
func (r *workoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Workout{}).
		Where("id = ?", workout.ID).
		Updates(map[string]interface{}{
			"title":          workout.Title,
			"scheduled_date": workout.ScheduledDate,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *workoutRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkoutStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Workout{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *workoutRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	err := r.db.WithContext(ctx).
		Preload("Exercises").
		Preload("Exercises.Exercise").
		Preload("Logs").
		Where("client_id = ?", clientID).
		Order("scheduled_date ASC").
		Find(&workouts).Error
	if err != nil {
		return nil, mapError(err)
	}
	return workouts, nil
}

func (r *workoutRepository) ListByClientAndTrainer(ctx context.Context, clientID, trainerID uuid.UUID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	err := r.db.WithContext(ctx).
		Preload("Exercises").
		Preload("Exercises.Exercise").
		Preload("Logs").
		Where("client_id = ? AND trainer_id = ?", clientID, trainerID).
		Order("scheduled_date ASC").
		Find(&workouts).Error
	if err != nil {
		return nil, mapError(err)
	}
	return workouts, nil
}

// CountPendingByProgram counts the program's not-yet-completed workouts.
// Completion derivation is scoped to the owning program so that a client
// training under several trainers or programs never completes one program
// by finishing another's workouts.
func (r *workoutRepository) CountPendingByProgram(ctx context.Context, programID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Workout{}).
		Where("program_id = ? AND status = ?", programID, domain.WorkoutStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// === Prescriptions ===

func (r *workoutRepository) CreatePrescription(ctx context.Context, ex *domain.WorkoutExercise) (uuid.UUID, error) {
	if ex.WorkoutID == uuid.Nil || ex.ExerciseID == uuid.Nil {
		return uuid.Nil, errors.New("prescription workout ID and exercise ID are required")
	}

	ex.ID = uuid.New()
	if err := r.db.WithContext(ctx).Omit("Exercise").Create(ex).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return ex.ID, nil
}

func (r *workoutRepository) GetPrescriptionByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutExercise, error) {
	var ex domain.WorkoutExercise
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ex).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &ex, nil
}

// UpdatePrescription saves sets/reps/weight and the week fields.
// OriginalWeek is written with whatever value the service decided on; the
// keep-history rule lives there, not here.
func (r *workoutRepository) UpdatePrescription(ctx context.Context, ex *domain.WorkoutExercise) error {
	result := r.db.WithContext(ctx).
		Model(&domain.WorkoutExercise{}).
		Where("id = ?", ex.ID).
		Updates(map[string]interface{}{
			"sets":          ex.Sets,
			"reps":          ex.Reps,
			"weight_used":   ex.WeightUsed,
			"week_number":   ex.WeekNumber,
			"original_week": ex.OriginalWeek,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *workoutRepository) UpdatePrescriptionsForWeek(ctx context.Context, exerciseID uuid.UUID, weekNumber, sets, reps int, weightUsed *float64) (int64, error) {
	updates := map[string]interface{}{
		"sets": sets,
		"reps": reps,
	}
	if weightUsed != nil {
		updates["weight_used"] = weightUsed
	}
	result := r.db.WithContext(ctx).
		Model(&domain.WorkoutExercise{}).
		Where("exercise_id = ? AND week_number = ?", exerciseID, weekNumber).
		Updates(updates)
	if result.Error != nil {
		return 0, mapError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *workoutRepository) CountPrescriptions(ctx context.Context, workoutID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WorkoutExercise{}).
		Where("workout_id = ?", workoutID).
		Count(&count).Error
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// === Logs ===

func (r *workoutRepository) CreateLog(ctx context.Context, log *domain.WorkoutLog) (uuid.UUID, error) {
	if log.WorkoutID == uuid.Nil || log.ExerciseID == uuid.Nil || log.ClientID == uuid.Nil {
		return uuid.Nil, errors.New("log workout ID, exercise ID and client ID are required")
	}

	log.ID = uuid.New()
	if log.LogDate.IsZero() {
		log.LogDate = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return log.ID, nil
}

func (r *workoutRepository) CountDistinctLoggedExercises(ctx context.Context, workoutID, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WorkoutLog{}).
		Where("workout_id = ? AND client_id = ?", workoutID, clientID).
		Distinct("exercise_id").
		Count(&count).Error
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func (r *workoutRepository) ListLogs(ctx context.Context, clientID, exerciseID uuid.UUID, from, to *time.Time) ([]domain.WorkoutLog, error) {
	query := r.db.WithContext(ctx).
		Where("client_id = ? AND exercise_id = ?", clientID, exerciseID)
	if from != nil {
		query = query.Where("log_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("log_date <= ?", *to)
	}

	var logs []domain.WorkoutLog
	if err := query.Order("log_date ASC").Find(&logs).Error; err != nil {
		return nil, mapError(err)
	}
	return logs, nil
}
