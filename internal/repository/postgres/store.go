package postgres

import (
	"context"

	"fitcoach/coaching-app/internal/repository"

	"gorm.io/gorm"
)

// store implements repository.Store on top of a *gorm.DB handle. The same
// type serves both the root connection and transaction scopes: Transact
// simply rebuilds the store around the transactional handle.
type store struct {
	db *gorm.DB
}

// NewStore creates a repository.Store backed by the given GORM handle.
func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Users() repository.UserRepository {
	return &userRepository{db: s.db}
}

func (s *store) ClientProfiles() repository.ClientProfileRepository {
	return &clientProfileRepository{db: s.db}
}

func (s *store) Exercises() repository.ExerciseRepository {
	return &exerciseRepository{db: s.db}
}

func (s *store) Programs() repository.ProgramRepository {
	return &programRepository{db: s.db}
}

func (s *store) Workouts() repository.WorkoutRepository {
	return &workoutRepository{db: s.db}
}

// Transact runs fn within a single database transaction. Any error returned
// by fn rolls back every write made through the transactional store.
func (s *store) Transact(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
