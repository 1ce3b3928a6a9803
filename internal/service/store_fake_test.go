package service

import (
	"context"
	"maps"
	"sort"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory repository.Store used by the service tests.
// Transact snapshots every table and restores it when fn fails, so the
// rollback behavior the services rely on is observable in tests.
type memStore struct {
	users         map[uuid.UUID]domain.User
	profiles      map[uuid.UUID]domain.ClientProfile
	exercises     map[uuid.UUID]domain.Exercise
	programs      map[uuid.UUID]domain.WorkoutProgram
	weeks         map[uuid.UUID]domain.WorkoutWeek
	days          map[uuid.UUID]domain.WorkoutDay
	workouts      map[uuid.UUID]domain.Workout
	prescriptions map[uuid.UUID]domain.WorkoutExercise
	logs          []domain.WorkoutLog

	// failPrescriptionCall makes the nth CreatePrescription call fail.
	prescriptionCalls    int
	failPrescriptionCall int

	// raceExercise simulates a concurrent insert: the next exercise Create
	// stores this row instead and reports a duplicate key.
	raceExercise *domain.Exercise
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uuid.UUID]domain.User),
		profiles:      make(map[uuid.UUID]domain.ClientProfile),
		exercises:     make(map[uuid.UUID]domain.Exercise),
		programs:      make(map[uuid.UUID]domain.WorkoutProgram),
		weeks:         make(map[uuid.UUID]domain.WorkoutWeek),
		days:          make(map[uuid.UUID]domain.WorkoutDay),
		workouts:      make(map[uuid.UUID]domain.Workout),
		prescriptions: make(map[uuid.UUID]domain.WorkoutExercise),
	}
}

func (s *memStore) Users() repository.UserRepository                   { return memUsers{s} }
func (s *memStore) ClientProfiles() repository.ClientProfileRepository { return memProfiles{s} }
func (s *memStore) Exercises() repository.ExerciseRepository           { return memExercises{s} }
func (s *memStore) Programs() repository.ProgramRepository             { return memPrograms{s} }
func (s *memStore) Workouts() repository.WorkoutRepository             { return memWorkouts{s} }

func (s *memStore) Transact(ctx context.Context, fn func(repository.Store) error) error {
	users := maps.Clone(s.users)
	profiles := maps.Clone(s.profiles)
	exercises := maps.Clone(s.exercises)
	programs := maps.Clone(s.programs)
	weeks := maps.Clone(s.weeks)
	days := maps.Clone(s.days)
	workouts := maps.Clone(s.workouts)
	prescriptions := maps.Clone(s.prescriptions)
	logs := append([]domain.WorkoutLog(nil), s.logs...)

	if err := fn(s); err != nil {
		s.users = users
		s.profiles = profiles
		s.exercises = exercises
		s.programs = programs
		s.weeks = weeks
		s.days = days
		s.workouts = workouts
		s.prescriptions = prescriptions
		s.logs = logs
		return err
	}
	return nil
}

// --- Users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return uuid.Nil, repository.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := u
	return &user, nil
}

func (r memUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.s.users[id] = u
	return nil
}

func (r memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- Client Profiles ---

type memProfiles struct{ s *memStore }

func (r memProfiles) Create(ctx context.Context, profile *domain.ClientProfile) (uuid.UUID, error) {
	for _, existing := range r.s.profiles {
		if existing.UserID == profile.UserID {
			return uuid.Nil, repository.ErrDuplicate
		}
	}
	profile.ID = uuid.New()
	r.s.profiles[profile.ID] = *profile
	return profile.ID, nil
}

func (r memProfiles) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientProfile, error) {
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	profile := p
	return &profile, nil
}

func (r memProfiles) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ClientProfile, error) {
	for _, p := range r.s.profiles {
		if p.UserID == userID {
			profile := p
			return &profile, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProfiles) GetByUserAndTrainerID(ctx context.Context, userID, trainerID uuid.UUID) (*domain.ClientProfile, error) {
	for _, p := range r.s.profiles {
		if p.UserID == userID && p.TrainerID == trainerID {
			profile := p
			return &profile, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memProfiles) GetByTrainerID(ctx context.Context, trainerID uuid.UUID) ([]domain.ClientProfile, error) {
	var out []domain.ClientProfile
	for _, p := range r.s.profiles {
		if p.TrainerID == trainerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProfiles) Update(ctx context.Context, profile *domain.ClientProfile) error {
	if _, ok := r.s.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.profiles[profile.ID] = *profile
	return nil
}

func (r memProfiles) SetLastWorkoutDate(ctx context.Context, userID uuid.UUID, at time.Time) error {
	for id, p := range r.s.profiles {
		if p.UserID == userID {
			p.LastWorkoutDate = &at
			r.s.profiles[id] = p
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r memProfiles) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	for id, p := range r.s.profiles {
		if p.UserID == userID {
			delete(r.s.profiles, id)
		}
	}
	return nil
}

// --- Exercises ---

type memExercises struct{ s *memStore }

func (r memExercises) Create(ctx context.Context, exercise *domain.Exercise) (uuid.UUID, error) {
	if race := r.s.raceExercise; race != nil {
		r.s.raceExercise = nil
		r.s.exercises[race.ID] = *race
		return uuid.Nil, repository.ErrDuplicate
	}
	for _, existing := range r.s.exercises {
		if existing.Name == exercise.Name {
			return uuid.Nil, repository.ErrDuplicate
		}
	}
	exercise.ID = uuid.New()
	r.s.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r memExercises) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	e, ok := r.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	exercise := e
	return &exercise, nil
}

func (r memExercises) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	for _, e := range r.s.exercises {
		if e.Name == name {
			exercise := e
			return &exercise, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memExercises) List(ctx context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(r.s.exercises))
	for _, e := range r.s.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- Programs ---

type memPrograms struct{ s *memStore }

func (r memPrograms) Create(ctx context.Context, program *domain.WorkoutProgram) (uuid.UUID, error) {
	program.ID = uuid.New()
	program.CreatedAt = time.Now()
	r.s.programs[program.ID] = *program
	return program.ID, nil
}

func (r memPrograms) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutProgram, error) {
	p, ok := r.s.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	program := p
	program.Weeks = nil
	return &program, nil
}

func (r memPrograms) GetGraphByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutProgram, error) {
	program, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, week := range r.s.weeks {
		if week.ProgramID != id {
			continue
		}
		week.Days = nil
		for _, day := range r.s.days {
			if day.WeekID != week.ID {
				continue
			}
			workout := r.s.assembleWorkout(day.WorkoutID)
			day.Workout = workout
			week.Days = append(week.Days, day)
		}
		sort.Slice(week.Days, func(i, j int) bool { return week.Days[i].DayNumber < week.Days[j].DayNumber })
		program.Weeks = append(program.Weeks, week)
	}
	sort.Slice(program.Weeks, func(i, j int) bool {
		return program.Weeks[i].WeekNumber < program.Weeks[j].WeekNumber
	})
	return program, nil
}

func (r memPrograms) Update(ctx context.Context, program *domain.WorkoutProgram) error {
	if _, ok := r.s.programs[program.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *program
	stored.Weeks = nil
	r.s.programs[program.ID] = stored
	return nil
}

func (r memPrograms) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProgramStatus) error {
	p, ok := r.s.programs[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	r.s.programs[id] = p
	return nil
}

func (r memPrograms) CreateWeek(ctx context.Context, week *domain.WorkoutWeek) (uuid.UUID, error) {
	week.ID = uuid.New()
	r.s.weeks[week.ID] = *week
	return week.ID, nil
}

func (r memPrograms) GetWeekByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutWeek, error) {
	w, ok := r.s.weeks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	week := w
	return &week, nil
}

func (r memPrograms) UpdateWeek(ctx context.Context, week *domain.WorkoutWeek) error {
	if _, ok := r.s.weeks[week.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *week
	stored.Days = nil
	r.s.weeks[week.ID] = stored
	return nil
}

func (r memPrograms) CreateDay(ctx context.Context, day *domain.WorkoutDay) (uuid.UUID, error) {
	day.ID = uuid.New()
	stored := *day
	stored.Workout = nil
	r.s.days[day.ID] = stored
	return day.ID, nil
}

func (r memPrograms) GetDayByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutDay, error) {
	d, ok := r.s.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	day := d
	return &day, nil
}

func (r memPrograms) UpdateDay(ctx context.Context, day *domain.WorkoutDay) error {
	if _, ok := r.s.days[day.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *day
	stored.Workout = nil
	r.s.days[day.ID] = stored
	return nil
}

// --- Workouts ---

type memWorkouts struct{ s *memStore }

func (s *memStore) assembleWorkout(id uuid.UUID) *domain.Workout {
	w, ok := s.workouts[id]
	if !ok {
		return nil
	}
	w.Exercises = nil
	w.Logs = nil
	for _, ex := range s.prescriptions {
		if ex.WorkoutID != id {
			continue
		}
		if catalog, ok := s.exercises[ex.ExerciseID]; ok {
			row := catalog
			ex.Exercise = &row
		}
		w.Exercises = append(w.Exercises, ex)
	}
	sort.Slice(w.Exercises, func(i, j int) bool {
		return w.Exercises[i].ID.String() < w.Exercises[j].ID.String()
	})
	for _, entry := range s.logs {
		if entry.WorkoutID == id {
			w.Logs = append(w.Logs, entry)
		}
	}
	return &w
}

func (r memWorkouts) Create(ctx context.Context, workout *domain.Workout) (uuid.UUID, error) {
	workout.ID = uuid.New()
	stored := *workout
	stored.Exercises = nil
	stored.Logs = nil
	r.s.workouts[workout.ID] = stored
	return workout.ID, nil
}

func (r memWorkouts) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	w, ok := r.s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	workout := w
	return &workout, nil
}

func (r memWorkouts) GetGraphByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	workout := r.s.assembleWorkout(id)
	if workout == nil {
		return nil, repository.ErrNotFound
	}
	return workout, nil
}

func (r memWorkouts) Update(ctx context.Context, workout *domain.Workout) error {
	if _, ok := r.s.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *workout
	stored.Exercises = nil
	stored.Logs = nil
	r.s.workouts[workout.ID] = stored
	return nil
}

func (r memWorkouts) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkoutStatus) error {
	w, ok := r.s.workouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	w.Status = status
	r.s.workouts[id] = w
	return nil
}

func (r memWorkouts) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Workout, error) {
	var out []domain.Workout
	for id, w := range r.s.workouts {
		if w.ClientID == clientID {
			out = append(out, *r.s.assembleWorkout(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r memWorkouts) ListByClientAndTrainer(ctx context.Context, clientID, trainerID uuid.UUID) ([]domain.Workout, error) {
	var out []domain.Workout
	for id, w := range r.s.workouts {
		if w.ClientID == clientID && w.TrainerID == trainerID {
			out = append(out, *r.s.assembleWorkout(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r memWorkouts) CountPendingByProgram(ctx context.Context, programID uuid.UUID) (int64, error) {
	var count int64
	for _, w := range r.s.workouts {
		if w.ProgramID != nil && *w.ProgramID == programID && w.Status == domain.WorkoutStatusPending {
			count++
		}
	}
	return count, nil
}

func (r memWorkouts) CreatePrescription(ctx context.Context, ex *domain.WorkoutExercise) (uuid.UUID, error) {
	r.s.prescriptionCalls++
	if r.s.failPrescriptionCall > 0 && r.s.prescriptionCalls == r.s.failPrescriptionCall {
		return uuid.Nil, repository.RepositoryError("injected prescription failure")
	}
	ex.ID = uuid.New()
	stored := *ex
	stored.Exercise = nil
	r.s.prescriptions[ex.ID] = stored
	return ex.ID, nil
}

func (r memWorkouts) GetPrescriptionByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutExercise, error) {
	ex, ok := r.s.prescriptions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	prescription := ex
	return &prescription, nil
}

func (r memWorkouts) UpdatePrescription(ctx context.Context, ex *domain.WorkoutExercise) error {
	if _, ok := r.s.prescriptions[ex.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *ex
	stored.Exercise = nil
	r.s.prescriptions[ex.ID] = stored
	return nil
}

func (r memWorkouts) UpdatePrescriptionsForWeek(ctx context.Context, exerciseID uuid.UUID, weekNumber, sets, reps int, weightUsed *float64) (int64, error) {
	var count int64
	for id, ex := range r.s.prescriptions {
		if ex.ExerciseID == exerciseID && ex.WeekNumber == weekNumber {
			ex.Sets = sets
			ex.Reps = reps
			ex.WeightUsed = weightUsed
			r.s.prescriptions[id] = ex
			count++
		}
	}
	return count, nil
}

func (r memWorkouts) CountPrescriptions(ctx context.Context, workoutID uuid.UUID) (int64, error) {
	var count int64
	for _, ex := range r.s.prescriptions {
		if ex.WorkoutID == workoutID {
			count++
		}
	}
	return count, nil
}

func (r memWorkouts) CreateLog(ctx context.Context, log *domain.WorkoutLog) (uuid.UUID, error) {
	log.ID = uuid.New()
	log.CreatedAt = time.Now()
	r.s.logs = append(r.s.logs, *log)
	return log.ID, nil
}

func (r memWorkouts) CountDistinctLoggedExercises(ctx context.Context, workoutID, clientID uuid.UUID) (int64, error) {
	seen := make(map[uuid.UUID]struct{})
	for _, entry := range r.s.logs {
		if entry.WorkoutID == workoutID && entry.ClientID == clientID {
			seen[entry.ExerciseID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r memWorkouts) ListLogs(ctx context.Context, clientID, exerciseID uuid.UUID, from, to *time.Time) ([]domain.WorkoutLog, error) {
	var out []domain.WorkoutLog
	for _, entry := range r.s.logs {
		if entry.ClientID != clientID || entry.ExerciseID != exerciseID {
			continue
		}
		if from != nil && entry.LogDate.Before(*from) {
			continue
		}
		if to != nil && entry.LogDate.After(*to) {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate.Before(out[j].LogDate) })
	return out, nil
}
