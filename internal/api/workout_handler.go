package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkoutHandler covers standalone workouts, performance logging and the
// log-derived reads.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type WorkoutExerciseRequest struct {
	Name       string   `json:"name" binding:"required"`
	Category   string   `json:"category" binding:"required"`
	Sets       int      `json:"sets" binding:"required,min=1"`
	Reps       int      `json:"reps" binding:"required,min=1"`
	WeightUsed *float64 `json:"weightUsed"`
}

type CreateWorkoutRequest struct {
	ClientID      string                   `json:"clientId" binding:"required,uuid"`
	Title         string                   `json:"title" binding:"required"`
	ScheduledDate time.Time                `json:"scheduledDate"`
	Exercises     []WorkoutExerciseRequest `json:"exercises" binding:"required,min=1"`
}

type LogExerciseRequest struct {
	ExerciseID       string   `json:"exerciseId" binding:"required,uuid"`
	SetsCompleted    int      `json:"setsCompleted"`
	RepsCompleted    int      `json:"repsCompleted"`
	WeightUsed       *float64 `json:"weightUsed"`
	Notes            string   `json:"notes"`
	TimeInSeconds    *int     `json:"timeInSeconds"`
	DistanceInMeters *float64 `json:"distanceInMeters"`
}

type UpdateWeekPrescriptionsRequest struct {
	ExerciseID string   `json:"exerciseId" binding:"required,uuid"`
	WeekNumber int      `json:"weekNumber" binding:"required,min=1"`
	Sets       int      `json:"sets" binding:"required,min=1"`
	Reps       int      `json:"reps" binding:"required,min=1"`
	WeightUsed *float64 `json:"weightUsed"`
}

type WorkoutLogResponse struct {
	ID               string    `json:"id"`
	WorkoutID        string    `json:"workoutId"`
	ExerciseID       string    `json:"exerciseId"`
	SetsCompleted    int       `json:"setsCompleted"`
	RepsCompleted    int       `json:"repsCompleted"`
	WeightUsed       *float64  `json:"weightUsed,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	TimeInSeconds    *int      `json:"timeInSeconds,omitempty"`
	DistanceInMeters *float64  `json:"distanceInMeters,omitempty"`
	LogDate          time.Time `json:"logDate"`
}

type WorkoutHistoryEntry struct {
	WorkoutResponse
	Logs []WorkoutLogResponse `json:"logs,omitempty"`
}

type ExerciseProgressResponse struct {
	Exercise ExerciseResponse     `json:"exercise"`
	Progress []WorkoutLogResponse `json:"progress"`
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Create a standalone workout for a client
// @Description Creates a workout outside any program, with its prescriptions, in one transaction.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Workout definition"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /trainer/workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
		return
	}

	exercises := make([]service.WorkoutExerciseInput, len(req.Exercises))
	for i, ex := range req.Exercises {
		exercises[i] = service.WorkoutExerciseInput{
			Name:       ex.Name,
			Category:   ex.Category,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			WeightUsed: ex.WeightUsed,
		}
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), service.CreateWorkoutInput{
		TrainerID:     trainerID,
		ClientID:      clientID,
		Title:         req.Title,
		ScheduledDate: req.ScheduledDate,
		Exercises:     exercises,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not create workout")
		}
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// LogExercise godoc
// @Summary Log a performed exercise against a workout
// @Description Appends a performance record, then derives workout and program completion from the logged set.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workoutId path string true "Workout ID"
// @Param log body LogExerciseRequest true "Performance record"
// @Success 201 {object} WorkoutLogResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /client/workouts/{workoutId}/logs [post]
func (h *WorkoutHandler) LogExercise(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := parseUUIDParam(c, "workoutId")
	if !ok {
		return
	}

	var req LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := uuid.Parse(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	entry, err := h.workoutService.LogExercise(c.Request.Context(), service.LogExerciseInput{
		WorkoutID:        workoutID,
		ExerciseID:       exerciseID,
		ClientID:         clientID,
		SetsCompleted:    req.SetsCompleted,
		RepsCompleted:    req.RepsCompleted,
		WeightUsed:       req.WeightUsed,
		Notes:            req.Notes,
		TimeInSeconds:    req.TimeInSeconds,
		DistanceInMeters: req.DistanceInMeters,
	})
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not log exercise")
		}
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutLogToResponse(entry))
}

// UpdateWeekPrescriptions godoc
// @Summary Bulk-edit one exercise's prescriptions within a week
// @Description Updates sets, reps and weight of every prescription of the exercise carrying the given week number.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param update body UpdateWeekPrescriptionsRequest true "Bulk edit"
// @Success 200 {object} gin.H "updated count"
// @Failure 400 {object} gin.H "Invalid input"
// @Router /trainer/prescriptions/week [patch]
func (h *WorkoutHandler) UpdateWeekPrescriptions(c *gin.Context) {
	var req UpdateWeekPrescriptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := uuid.Parse(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	updated, err := h.workoutService.UpdatePrescriptionsForWeek(
		c.Request.Context(), exerciseID, req.WeekNumber, req.Sets, req.Reps, req.WeightUsed)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not update prescriptions")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// GetMyWorkoutHistory godoc
// @Summary Get the authenticated client's workout history
// @Tags Workouts
// @Produce json
// @Success 200 {array} WorkoutHistoryEntry
// @Router /client/workouts [get]
func (h *WorkoutHandler) GetMyWorkoutHistory(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	workouts, err := h.workoutService.GetClientWorkoutHistory(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not load workout history")
		return
	}
	c.JSON(http.StatusOK, mapWorkoutHistory(workouts))
}

// GetClientWorkoutHistory godoc
// @Summary Get a managed client's workout history
// @Tags Workouts
// @Produce json
// @Param clientId path string true "Client user ID"
// @Success 200 {array} WorkoutHistoryEntry
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Router /trainer/clients/{clientId}/workouts [get]
func (h *WorkoutHandler) GetClientWorkoutHistory(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}

	workouts, err := h.workoutService.GetTrainerClientWorkoutHistory(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load workout history")
		}
		return
	}
	c.JSON(http.StatusOK, mapWorkoutHistory(workouts))
}

// GetExerciseProgress godoc
// @Summary Get a managed client's log history for one exercise
// @Tags Workouts
// @Produce json
// @Param clientId path string true "Client user ID"
// @Param exerciseId path string true "Exercise ID"
// @Param from query string false "Start date (RFC 3339)"
// @Param to query string false "End date (RFC 3339)"
// @Success 200 {object} ExerciseProgressResponse
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /trainer/clients/{clientId}/progress/{exerciseId} [get]
func (h *WorkoutHandler) GetExerciseProgress(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}
	exerciseID, ok := parseUUIDParam(c, "exerciseId")
	if !ok {
		return
	}

	from, ok := parseOptionalTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseOptionalTimeQuery(c, "to")
	if !ok {
		return
	}

	progress, err := h.workoutService.GetExerciseProgress(c.Request.Context(), trainerID, clientID, exerciseID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrClientNotManaged) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load exercise progress")
		}
		return
	}

	resp := ExerciseProgressResponse{
		Exercise: MapExerciseToResponse(progress.Exercise),
		Progress: make([]WorkoutLogResponse, len(progress.Progress)),
	}
	for i := range progress.Progress {
		resp.Progress[i] = MapWorkoutLogToResponse(&progress.Progress[i])
	}
	c.JSON(http.StatusOK, resp)
}

// --- Mapping Helpers ---

func parseOptionalTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s date, expected RFC 3339", name))
		return nil, false
	}
	return &t, true
}

func mapWorkoutHistory(workouts []domain.Workout) []WorkoutHistoryEntry {
	resp := make([]WorkoutHistoryEntry, len(workouts))
	for i := range workouts {
		entry := WorkoutHistoryEntry{WorkoutResponse: MapWorkoutToResponse(&workouts[i])}
		for j := range workouts[i].Logs {
			entry.Logs = append(entry.Logs, MapWorkoutLogToResponse(&workouts[i].Logs[j]))
		}
		resp[i] = entry
	}
	return resp
}

// MapWorkoutLogToResponse converts a domain WorkoutLog to its DTO.
func MapWorkoutLogToResponse(entry *domain.WorkoutLog) WorkoutLogResponse {
	if entry == nil {
		return WorkoutLogResponse{}
	}
	return WorkoutLogResponse{
		ID:               entry.ID.String(),
		WorkoutID:        entry.WorkoutID.String(),
		ExerciseID:       entry.ExerciseID.String(),
		SetsCompleted:    entry.SetsCompleted,
		RepsCompleted:    entry.RepsCompleted,
		WeightUsed:       entry.WeightUsed,
		Notes:            entry.Notes,
		TimeInSeconds:    entry.TimeInSeconds,
		DistanceInMeters: entry.DistanceInMeters,
		LogDate:          entry.LogDate,
	}
}
