package postgres

import (
	"context"
	"errors"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// exerciseRepository implements repository.ExerciseRepository
type exerciseRepository struct {
	db *gorm.DB
}

// Create inserts a new catalog exercise. The unique index on name makes the
// concurrent resolve-or-create race surface as repository.ErrDuplicate.
func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (uuid.UUID, error) {
	if exercise.Name == "" || exercise.Category == "" {
		return uuid.Nil, errors.New("exercise name and category are required")
	}

	exercise.ID = uuid.New()
	if err := r.db.WithContext(ctx).Create(exercise).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return exercise.ID, nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&exercise).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &exercise, nil
}

// GetByName looks up by the unique, case-sensitive name key.
func (r *exerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&exercise).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &exercise, nil
}

func (r *exerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	err := r.db.WithContext(ctx).Order("name ASC").Find(&exercises).Error
	if err != nil {
		return nil, mapError(err)
	}
	return exercises, nil
}
