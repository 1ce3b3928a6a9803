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
	ErrProgramNotFound = errors.New("workout program not found")
)

// --- Input Types ---

// ProgramExerciseInput is one prescription in a trainer-authored program.
type ProgramExerciseInput struct {
	Name       string
	Category   string
	Sets       int
	Reps       int
	WeightUsed *float64
	Distance   *float64 // Cardio
	Calories   *float64 // Cardio
}

// ProgramDayInput is one training day in a week template. The workout title
// defaults to "Workout Day {DayNumber}" when left empty.
type ProgramDayInput struct {
	DayNumber     int
	Title         string
	ScheduledDate time.Time
	Exercises     []ProgramExerciseInput
}

type ProgramWeekInput struct {
	Days []ProgramDayInput
}

// CreateProgramInput is the full nested payload the Program Builder
// materializes into the relational graph.
type CreateProgramInput struct {
	TrainerID     uuid.UUID
	ClientID      uuid.UUID
	Title         string
	DurationWeeks int
	RepeatWeek    bool
	Weeks         []ProgramWeekInput
}

// UpdateExerciseInput is a partially-identified prescription edit. A nil ID
// means "create fresh"; a nil OriginalWeek means "keep history untouched".
type UpdateExerciseInput struct {
	ID           *uuid.UUID
	ExerciseID   *uuid.UUID
	Sets         int
	Reps         int
	WeightUsed   *float64
	WeekNumber   int
	OriginalWeek *int
}

type UpdateWorkoutInput struct {
	ID            *uuid.UUID
	Title         string
	ScheduledDate time.Time
	Exercises     []UpdateExerciseInput
}

type UpdateDayInput struct {
	ID        *uuid.UUID
	DayNumber int
	Workout   *UpdateWorkoutInput
}

type UpdateWeekInput struct {
	ID         uuid.UUID
	WeekNumber int
	Days       []UpdateDayInput
}

// UpdateProgramInput is the client-submitted edit of an existing program
// graph. An empty Status keeps the stored one.
type UpdateProgramInput struct {
	Title     string
	Status    domain.ProgramStatus
	TrainerID uuid.UUID
	ClientID  uuid.UUID
	Weeks     []UpdateWeekInput
}

// UpdateReport lists the payload nodes the editor skipped, so partial input
// is surfaced to the caller instead of silently dropped.
type UpdateReport struct {
	SkippedDays      []string `json:"skippedDays,omitempty"`
	SkippedExercises []string `json:"skippedExercises,omitempty"`
}

// --- Service Interface ---

// ProgramService builds, edits and reads multi-week workout programs.
type ProgramService interface {
	CreateProgram(ctx context.Context, input CreateProgramInput) (*domain.WorkoutProgram, error)
	UpdateProgram(ctx context.Context, programID uuid.UUID, input UpdateProgramInput) (*domain.WorkoutProgram, *UpdateReport, error)
	GetProgram(ctx context.Context, programID uuid.UUID) (*domain.WorkoutProgram, error)
}

// --- Service Implementation ---

type programService struct {
	store   repository.Store
	catalog CatalogService
}

// NewProgramService creates a new instance of programService.
func NewProgramService(store repository.Store, catalog CatalogService) ProgramService {
	return &programService{store: store, catalog: catalog}
}

// === Program Builder ===

// CreateProgram validates the whole nested payload before touching the
// database, resolves every exercise name through the catalog, and then
// materializes the program graph in a single transaction. A failed
// validation therefore never leaves partial graph state behind; at worst an
// aborted run leaves freshly-resolved catalog rows, which are global and
// reusable anyway.
func (s *programService) CreateProgram(ctx context.Context, input CreateProgramInput) (*domain.WorkoutProgram, error) {
	if err := validateCreateProgram(input); err != nil {
		return nil, err
	}

	// Resolve every distinct exercise name up front, outside the graph
	// transaction, so a duplicate-name race cannot poison it.
	resolved := make(map[string]*domain.Exercise)
	for _, week := range input.Weeks {
		for _, day := range week.Days {
			for _, ex := range day.Exercises {
				if _, ok := resolved[ex.Name]; ok {
					continue
				}
				exercise, err := s.catalog.Resolve(ctx, ex.Name, ex.Category)
				if err != nil {
					return nil, err
				}
				resolved[ex.Name] = exercise
			}
		}
	}

	program := &domain.WorkoutProgram{
		TrainerID:     input.TrainerID,
		ClientID:      input.ClientID,
		Title:         input.Title,
		DurationWeeks: input.DurationWeeks,
		RepeatWeek:    input.RepeatWeek,
		Status:        domain.ProgramStatusPending,
	}

	err := s.store.Transact(ctx, func(tx repository.Store) error {
		programID, err := tx.Programs().Create(ctx, program)
		if err != nil {
			return err
		}

		for i := 0; i < input.DurationWeeks; i++ {
			weekNumber := i + 1
			week := &domain.WorkoutWeek{ProgramID: programID, WeekNumber: weekNumber}
			weekID, err := tx.Programs().CreateWeek(ctx, week)
			if err != nil {
				return err
			}

			for _, day := range input.Weeks[i].Days {
				title := day.Title
				if title == "" {
					title = fmt.Sprintf("Workout Day %d", day.DayNumber)
				}
				workout := &domain.Workout{
					ProgramID:     &programID,
					TrainerID:     input.TrainerID,
					ClientID:      input.ClientID,
					Title:         title,
					ScheduledDate: day.ScheduledDate,
					Status:        domain.WorkoutStatusPending,
				}
				workoutID, err := tx.Workouts().Create(ctx, workout)
				if err != nil {
					return err
				}

				if _, err := tx.Programs().CreateDay(ctx, &domain.WorkoutDay{
					WeekID:    weekID,
					DayNumber: day.DayNumber,
					WorkoutID: workoutID,
				}); err != nil {
					return err
				}

				for _, ex := range day.Exercises {
					if _, err := tx.Workouts().CreatePrescription(ctx, &domain.WorkoutExercise{
						WorkoutID:    workoutID,
						ExerciseID:   resolved[ex.Name].ID,
						Sets:         ex.Sets,
						Reps:         ex.Reps,
						WeightUsed:   ex.WeightUsed,
						WeekNumber:   weekNumber,
						OriginalWeek: weekNumber,
					}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.store.Programs().GetGraphByID(ctx, program.ID)
}

// validateCreateProgram checks the entire payload before any write, with
// 1-based locators in every message.
func validateCreateProgram(input CreateProgramInput) error {
	if input.TrainerID == uuid.Nil || input.ClientID == uuid.Nil || input.Title == "" {
		return fmt.Errorf("%w: trainer ID, client ID and title are required", ErrValidation)
	}
	if len(input.Weeks) == 0 {
		return fmt.Errorf("%w: at least one week is required", ErrValidation)
	}
	if input.DurationWeeks != len(input.Weeks) {
		return fmt.Errorf("%w: durationWeeks must match the number of weeks", ErrValidation)
	}

	for weekIndex, week := range input.Weeks {
		if len(week.Days) == 0 {
			return fmt.Errorf("%w: week %d must have at least one day", ErrValidation, weekIndex+1)
		}
		for dayIndex, day := range week.Days {
			if len(day.Exercises) == 0 {
				return fmt.Errorf("%w: week %d, day %d must have at least one exercise",
					ErrValidation, weekIndex+1, dayIndex+1)
			}
			for exIndex, ex := range day.Exercises {
				if ex.Name == "" || ex.Category == "" {
					return fmt.Errorf("%w: exercise %d in week %d, day %d is missing a name or category",
						ErrValidation, exIndex+1, weekIndex+1, dayIndex+1)
				}
				if ex.Category == domain.CategoryStrength && (ex.Sets == 0 || ex.Reps == 0) {
					return fmt.Errorf("%w: strength exercise %q in week %d, day %d requires sets and reps",
						ErrValidation, ex.Name, weekIndex+1, dayIndex+1)
				}
				if ex.Category == domain.CategoryCardio && ex.Distance == nil && ex.Calories == nil {
					return fmt.Errorf("%w: cardio exercise %q in week %d, day %d requires distance or calories",
						ErrValidation, ex.Name, weekIndex+1, dayIndex+1)
				}
			}
		}
	}
	return nil
}

// === Program Editor ===

// UpdateProgram reconciles a client-submitted edit against the stored graph.
// The whole edit runs in one transaction: any upsert failure rolls everything
// back. Nodes the payload leaves unidentifiable (a day without an embedded
// workout, a prescription without an exerciseId) are skipped and reported in
// the returned UpdateReport rather than failing the edit or vanishing
// silently.
func (s *programService) UpdateProgram(ctx context.Context, programID uuid.UUID, input UpdateProgramInput) (*domain.WorkoutProgram, *UpdateReport, error) {
	if err := validateUpdateProgram(input); err != nil {
		return nil, nil, err
	}

	report := &UpdateReport{}

	err := s.store.Transact(ctx, func(tx repository.Store) error {
		program, err := tx.Programs().GetByID(ctx, programID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProgramNotFound
			}
			return err
		}

		if input.Title != "" {
			program.Title = input.Title
		}
		if input.Status != "" {
			program.Status = input.Status
		}
		if err := tx.Programs().Update(ctx, program); err != nil {
			return err
		}

		for _, weekInput := range input.Weeks {
			weekID, err := s.upsertWeek(ctx, tx, programID, weekInput)
			if err != nil {
				return err
			}

			for _, dayInput := range weekInput.Days {
				if dayInput.Workout == nil {
					locator := fmt.Sprintf("week %d, day %d", weekInput.WeekNumber, dayInput.DayNumber)
					report.SkippedDays = append(report.SkippedDays, locator)
					logrus.WithField("day", locator).Warn("program update: day has no workout payload, skipping")
					continue
				}

				workoutID, err := s.upsertWorkout(ctx, tx, programID, input, *dayInput.Workout)
				if err != nil {
					return err
				}
				if err := s.upsertDay(ctx, tx, weekID, workoutID, dayInput); err != nil {
					return err
				}

				for _, exInput := range dayInput.Workout.Exercises {
					if exInput.ExerciseID == nil {
						locator := fmt.Sprintf("week %d, day %d", weekInput.WeekNumber, dayInput.DayNumber)
						report.SkippedExercises = append(report.SkippedExercises, locator)
						logrus.WithField("day", locator).Warn("program update: prescription has no exerciseId, skipping")
						continue
					}
					if err := s.upsertPrescription(ctx, tx, workoutID, exInput); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	program, err := s.store.Programs().GetGraphByID(ctx, programID)
	if err != nil {
		return nil, nil, err
	}
	return program, report, nil
}

func validateUpdateProgram(input UpdateProgramInput) error {
	if len(input.Weeks) == 0 {
		return fmt.Errorf("%w: weeks data is missing from request", ErrValidation)
	}
	for _, week := range input.Weeks {
		if week.ID == uuid.Nil || week.WeekNumber == 0 {
			return fmt.Errorf("%w: every week needs an id and a weekNumber", ErrValidation)
		}
		if len(week.Days) == 0 {
			return fmt.Errorf("%w: days are missing for week %d", ErrValidation, week.WeekNumber)
		}
	}
	return nil
}

// upsertWeek updates the week's number when its id resolves, and otherwise
// creates a fresh week linked to the program.
func (s *programService) upsertWeek(ctx context.Context, tx repository.Store, programID uuid.UUID, input UpdateWeekInput) (uuid.UUID, error) {
	week, err := tx.Programs().GetWeekByID(ctx, input.ID)
	if err == nil {
		week.WeekNumber = input.WeekNumber
		return week.ID, tx.Programs().UpdateWeek(ctx, week)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, err
	}
	return tx.Programs().CreateWeek(ctx, &domain.WorkoutWeek{
		ProgramID:  programID,
		WeekNumber: input.WeekNumber,
	})
}

func (s *programService) upsertWorkout(ctx context.Context, tx repository.Store, programID uuid.UUID, program UpdateProgramInput, input UpdateWorkoutInput) (uuid.UUID, error) {
	if input.ID != nil {
		workout, err := tx.Workouts().GetByID(ctx, *input.ID)
		if err == nil {
			workout.Title = input.Title
			workout.ScheduledDate = input.ScheduledDate
			return workout.ID, tx.Workouts().Update(ctx, workout)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, err
		}
	}
	return tx.Workouts().Create(ctx, &domain.Workout{
		ProgramID:     &programID,
		TrainerID:     program.TrainerID,
		ClientID:      program.ClientID,
		Title:         input.Title,
		ScheduledDate: input.ScheduledDate,
		Status:        domain.WorkoutStatusPending,
	})
}

func (s *programService) upsertDay(ctx context.Context, tx repository.Store, weekID, workoutID uuid.UUID, input UpdateDayInput) error {
	if input.ID != nil {
		day, err := tx.Programs().GetDayByID(ctx, *input.ID)
		if err == nil {
			day.DayNumber = input.DayNumber
			day.WeekID = weekID
			day.WorkoutID = workoutID
			return tx.Programs().UpdateDay(ctx, day)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	_, err := tx.Programs().CreateDay(ctx, &domain.WorkoutDay{
		WeekID:    weekID,
		DayNumber: input.DayNumber,
		WorkoutID: workoutID,
	})
	return err
}

// upsertPrescription applies the originalWeek history rule: an update keeps
// the stored originalWeek unless the payload supplies one explicitly, while a
// create always snapshots the current weekNumber.
func (s *programService) upsertPrescription(ctx context.Context, tx repository.Store, workoutID uuid.UUID, input UpdateExerciseInput) error {
	if input.ID != nil {
		ex, err := tx.Workouts().GetPrescriptionByID(ctx, *input.ID)
		if err == nil {
			ex.Sets = input.Sets
			ex.Reps = input.Reps
			ex.WeightUsed = input.WeightUsed
			ex.WeekNumber = input.WeekNumber
			if input.OriginalWeek != nil {
				ex.OriginalWeek = *input.OriginalWeek
			}
			return tx.Workouts().UpdatePrescription(ctx, ex)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	_, err := tx.Workouts().CreatePrescription(ctx, &domain.WorkoutExercise{
		WorkoutID:    workoutID,
		ExerciseID:   *input.ExerciseID,
		Sets:         input.Sets,
		Reps:         input.Reps,
		WeightUsed:   input.WeightUsed,
		WeekNumber:   input.WeekNumber,
		OriginalWeek: input.WeekNumber, // Fresh prescriptions have no prior history
	})
	return err
}

// === Reads ===

// GetProgram returns the full nested program graph.
func (s *programService) GetProgram(ctx context.Context, programID uuid.UUID) (*domain.WorkoutProgram, error) {
	program, err := s.store.Programs().GetGraphByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}
