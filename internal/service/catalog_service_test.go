package service

import (
	"context"
	"testing"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogResolveCreatesOnceAndReuses(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(store)
	ctx := context.Background()

	first, err := catalog.Resolve(ctx, "Squat", domain.CategoryStrength)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, err := catalog.Resolve(ctx, "Squat", domain.CategoryStrength)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.exercises, 1)
}

func TestCatalogResolveRequiresNameAndCategory(t *testing.T) {
	catalog := NewCatalogService(newMemStore())
	ctx := context.Background()

	_, err := catalog.Resolve(ctx, "", domain.CategoryStrength)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = catalog.Resolve(ctx, "Squat", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogResolveSurvivesCreationRace(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(store)
	ctx := context.Background()

	// Another writer inserts the same name between our lookup and insert.
	winner := &domain.Exercise{ID: uuid.New(), Name: "Deadlift", Category: domain.CategoryStrength}
	store.raceExercise = winner

	got, err := catalog.Resolve(ctx, "Deadlift", domain.CategoryStrength)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	assert.Len(t, store.exercises, 1)
}

func TestCatalogGetByIDUnknown(t *testing.T) {
	catalog := NewCatalogService(newMemStore())

	_, err := catalog.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
