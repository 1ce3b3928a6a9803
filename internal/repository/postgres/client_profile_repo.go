package postgres

import (
	"context"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clientProfileRepository implements repository.ClientProfileRepository
type clientProfileRepository struct {
	db *gorm.DB
}

// Create inserts a new client profile.
func (r *clientProfileRepository) Create(ctx context.Context, profile *domain.ClientProfile) (uuid.UUID, error) {
	profile.ID = uuid.New()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	return profile.ID, nil
}

func (r *clientProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &profile, nil
}

func (r *clientProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &profile, nil
}

func (r *clientProfileRepository) GetByUserAndTrainerID(ctx context.Context, userID, trainerID uuid.UUID) (*domain.ClientProfile, error) {
	var profile domain.ClientProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND trainer_id = ?", userID, trainerID).
		First(&profile).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &profile, nil
}

func (r *clientProfileRepository) GetByTrainerID(ctx context.Context, trainerID uuid.UUID) ([]domain.ClientProfile, error) {
	var profiles []domain.ClientProfile
	err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, mapError(err)
	}
	return profiles, nil
}

// Update saves profile fields. TrainerID and UserID are never reassigned here.
func (r *clientProfileRepository) Update(ctx context.Context, profile *domain.ClientProfile) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ClientProfile{}).
		Where("id = ?", profile.ID).
		Updates(map[string]interface{}{
			"name":          profile.Name,
			"age":           profile.Age,
			"weight":        profile.Weight,
			"body_fat":      profile.BodyFat,
			"progress_pics": profile.ProgressPics,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

// SetLastWorkoutDate stamps the profile after a log entry lands.
func (r *clientProfileRepository) SetLastWorkoutDate(ctx context.Context, userID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ClientProfile{}).
		Where("user_id = ?", userID).
		Update("last_workout_date", at)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteByUserID removes the profile belonging to a user account, used when
// the account itself is deleted. Missing profile is not an error: trainers
// have none.
func (r *clientProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.ClientProfile{}).Error
	return mapError(err)
}
