package service

import (
	"context"
	"errors"
	"fmt"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	// ErrValidation marks client-caused payload problems. Wrapped errors add
	// the human-readable locator (week/day/exercise index).
	ErrValidation = errors.New("validation failed")

	ErrExerciseNotFound = errors.New("exercise not found")
)

// --- Service Interface ---

// CatalogService maintains the global exercise dictionary. Exercises are
// created lazily on first use and shared by every trainer; there is no
// update or delete.
type CatalogService interface {
	// Resolve returns the exercise with the given name, creating it with the
	// given category when absent.
	Resolve(ctx context.Context, name, category string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
}

// --- Service Implementation ---

type catalogService struct {
	store repository.Store
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(store repository.Store) CatalogService {
	return &catalogService{store: store}
}

// Resolve finds or lazily creates a catalog exercise. Two concurrent callers
// introducing the same new name can both see "not found" and both attempt the
// insert; the unique index on name turns the loser's insert into
// repository.ErrDuplicate, which is treated as success-via-refetch so the
// race never reaches the end user.
func (s *catalogService) Resolve(ctx context.Context, name, category string) (*domain.Exercise, error) {
	if name == "" || category == "" {
		return nil, fmt.Errorf("%w: exercise name and category are required", ErrValidation)
	}

	exercise, err := s.store.Exercises().GetByName(ctx, name)
	if err == nil {
		return exercise, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	created := &domain.Exercise{Name: name, Category: category}
	if _, err := s.store.Exercises().Create(ctx, created); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the creation race; the row exists now.
			return s.store.Exercises().GetByName(ctx, name)
		}
		return nil, err
	}
	return created, nil
}

// List returns the whole exercise dictionary.
func (s *catalogService) List(ctx context.Context) ([]domain.Exercise, error) {
	return s.store.Exercises().List(ctx)
}

// GetByID retrieves a single catalog exercise.
func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	exercise, err := s.store.Exercises().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}
