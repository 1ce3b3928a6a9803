package postgres

import (
	"context"
	"errors"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// programRepository implements repository.ProgramRepository
type programRepository struct {
	db *gorm.DB
}

// Create inserts the program row only; weeks/days are created separately so
// the program service controls the transaction boundary.
func (r *programRepository) Create(ctx context.Context, program *domain.WorkoutProgram) (uuid.UUID, error) {
	if program.TrainerID == uuid.Nil || program.ClientID == uuid.Nil || program.Title == "" {
		return uuid.Nil, errors.New("trainer ID, client ID and title are required")
	}

	program.ID = uuid.New()
	if program.Status == "" {
		program.Status = domain.ProgramStatusPending
	}
	if err := r.db.WithContext(ctx).Omit("Weeks").Create(program).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return program.ID, nil
}

func (r *programRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutProgram, error) {
	var program domain.WorkoutProgram
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&program).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &program, nil
}

// GetGraphByID loads the whole program graph in week/day order, matching the
// shape the editor round-trips back in.
func (r *programRepository) GetGraphByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutProgram, error) {
	var program domain.WorkoutProgram
	err := r.db.WithContext(ctx).
		Preload("Weeks", func(db *gorm.DB) *gorm.DB {
			return db.Order("workout_weeks.week_number ASC")
		}).
		Preload("Weeks.Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("workout_days.day_number ASC")
		}).
		Preload("Weeks.Days.Workout").
		Preload("Weeks.Days.Workout.Exercises").
		Preload("Weeks.Days.Workout.Exercises.Exercise").
		Where("id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &program, nil
}

// Update saves the mutable program header fields (title, status).
func (r *programRepository) Update(ctx context.Context, program *domain.WorkoutProgram) error {
	result := r.db.WithContext(ctx).
		Model(&domain.WorkoutProgram{}).
		Where("id = ?", program.ID).
		Updates(map[string]interface{}{
			"title":  program.Title,
			"status": program.Status,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *programRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProgramStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.WorkoutProgram{}).
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

// === Weeks ===

func (r *programRepository) CreateWeek(ctx context.Context, week *domain.WorkoutWeek) (uuid.UUID, error) {
	if week.ProgramID == uuid.Nil {
		return uuid.Nil, errors.New("week program ID is required")
	}

	week.ID = uuid.New()
	if err := r.db.WithContext(ctx).Omit("Days").Create(week).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return week.ID, nil
}

func (r *programRepository) GetWeekByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutWeek, error) {
	var week domain.WorkoutWeek
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&week).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &week, nil
}

func (r *programRepository) UpdateWeek(ctx context.Context, week *domain.WorkoutWeek) error {
	result := r.db.WithContext(ctx).
		Model(&domain.WorkoutWeek{}).
		Where("id = ?", week.ID).
		Update("week_number", week.WeekNumber)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

// === Days ===

func (r *programRepository) CreateDay(ctx context.Context, day *domain.WorkoutDay) (uuid.UUID, error) {
	if day.WeekID == uuid.Nil || day.WorkoutID == uuid.Nil {
		return uuid.Nil, errors.New("day week ID and workout ID are required")
	}

	day.ID = uuid.New()
	if err := r.db.WithContext(ctx).Omit("Workout").Create(day).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return day.ID, nil
}

func (r *programRepository) GetDayByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutDay, error) {
	var day domain.WorkoutDay
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&day).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &day, nil
}

func (r *programRepository) UpdateDay(ctx context.Context, day *domain.WorkoutDay) error {
	result := r.db.WithContext(ctx).
		Model(&domain.WorkoutDay{}).
		Where("id = ?", day.ID).
		Updates(map[string]interface{}{
			"day_number": day.DayNumber,
			"week_id":    day.WeekID,
			"workout_id": day.WorkoutID,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}
