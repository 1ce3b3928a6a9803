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

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- Request Structs ---

type ProgramExerciseRequest struct {
	Name       string   `json:"name" binding:"required"`
	Category   string   `json:"category" binding:"required"`
	Sets       int      `json:"sets"`
	Reps       int      `json:"reps"`
	WeightUsed *float64 `json:"weightUsed"`
	Distance   *float64 `json:"distance"`
	Calories   *float64 `json:"calories"`
}

type ProgramDayRequest struct {
	DayNumber     int                      `json:"dayNumber" binding:"required"`
	Title         string                   `json:"title"`
	ScheduledDate time.Time                `json:"scheduledDate"`
	Exercises     []ProgramExerciseRequest `json:"exercises" binding:"required"`
}

type ProgramWeekRequest struct {
	Days []ProgramDayRequest `json:"days" binding:"required"`
}

type CreateProgramRequest struct {
	ClientID      string               `json:"clientId" binding:"required,uuid"`
	Title         string               `json:"title" binding:"required"`
	DurationWeeks int                  `json:"durationWeeks" binding:"required,min=1"`
	RepeatWeek    bool                 `json:"repeatWeek"`
	Weeks         []ProgramWeekRequest `json:"weeks" binding:"required"`
}

type UpdateExerciseRequest struct {
	ID           *string  `json:"id"`
	ExerciseID   *string  `json:"exerciseId"`
	Sets         int      `json:"sets"`
	Reps         int      `json:"reps"`
	WeightUsed   *float64 `json:"weightUsed"`
	WeekNumber   int      `json:"weekNumber"`
	OriginalWeek *int     `json:"originalWeek"`
}

type UpdateWorkoutRequest struct {
	ID            *string                 `json:"id"`
	Title         string                  `json:"title"`
	ScheduledDate time.Time               `json:"scheduledDate"`
	Exercises     []UpdateExerciseRequest `json:"workoutExercises"`
}

type UpdateDayRequest struct {
	ID        *string               `json:"id"`
	DayNumber int                   `json:"dayNumber"`
	Workout   *UpdateWorkoutRequest `json:"workout"`
}

type UpdateWeekRequest struct {
	ID         string             `json:"id" binding:"required,uuid"`
	WeekNumber int                `json:"weekNumber" binding:"required"`
	Days       []UpdateDayRequest `json:"days" binding:"required"`
}

type UpdateProgramRequest struct {
	Title  string               `json:"title"`
	Status domain.ProgramStatus `json:"status"`
	Weeks  []UpdateWeekRequest  `json:"weeks" binding:"required"`
}

// --- Response Structs ---

type PrescriptionResponse struct {
	ID           string            `json:"id"`
	Exercise     *ExerciseResponse `json:"exercise,omitempty"`
	ExerciseID   string            `json:"exerciseId"`
	Sets         int               `json:"sets"`
	Reps         int               `json:"reps"`
	WeightUsed   *float64          `json:"weightUsed,omitempty"`
	WeekNumber   int               `json:"weekNumber"`
	OriginalWeek int               `json:"originalWeek"`
}

type WorkoutResponse struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	ScheduledDate time.Time              `json:"scheduledDate"`
	Status        domain.WorkoutStatus   `json:"status"`
	Exercises     []PrescriptionResponse `json:"workoutExercises"`
}

type ProgramDayResponse struct {
	ID        string           `json:"id"`
	DayNumber int              `json:"dayNumber"`
	Workout   *WorkoutResponse `json:"workout,omitempty"`
}

type ProgramWeekResponse struct {
	ID         string               `json:"id"`
	WeekNumber int                  `json:"weekNumber"`
	Days       []ProgramDayResponse `json:"days"`
}

type ProgramResponse struct {
	ID            string                `json:"id"`
	TrainerID     string                `json:"trainerId"`
	ClientID      string                `json:"clientId"`
	Title         string                `json:"title"`
	DurationWeeks int                   `json:"durationWeeks"`
	RepeatWeek    bool                  `json:"repeatWeek"`
	Status        domain.ProgramStatus  `json:"status"`
	Weeks         []ProgramWeekResponse `json:"weeks"`
	CreatedAt     time.Time             `json:"createdAt"`
}

type UpdateProgramResponse struct {
	Program ProgramResponse       `json:"program"`
	Report  *service.UpdateReport `json:"report,omitempty"`
}

// --- Handler Methods ---

// CreateProgram godoc
// @Summary Create a multi-week workout program for a client
// @Description Validates the whole nested payload, then materializes program, weeks, days, workouts and prescriptions atomically.
// @Tags Programs
// @Accept json
// @Produce json
// @Param program body CreateProgramRequest true "Program definition"
// @Success 201 {object} ProgramResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /trainer/programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
		return
	}

	input := service.CreateProgramInput{
		TrainerID:     trainerID,
		ClientID:      clientID,
		Title:         req.Title,
		DurationWeeks: req.DurationWeeks,
		RepeatWeek:    req.RepeatWeek,
		Weeks:         make([]service.ProgramWeekInput, len(req.Weeks)),
	}
	for i, week := range req.Weeks {
		days := make([]service.ProgramDayInput, len(week.Days))
		for j, day := range week.Days {
			exercises := make([]service.ProgramExerciseInput, len(day.Exercises))
			for k, ex := range day.Exercises {
				exercises[k] = service.ProgramExerciseInput{
					Name:       ex.Name,
					Category:   ex.Category,
					Sets:       ex.Sets,
					Reps:       ex.Reps,
					WeightUsed: ex.WeightUsed,
					Distance:   ex.Distance,
					Calories:   ex.Calories,
				}
			}
			days[j] = service.ProgramDayInput{
				DayNumber:     day.DayNumber,
				Title:         day.Title,
				ScheduledDate: day.ScheduledDate,
				Exercises:     exercises,
			}
		}
		input.Weeks[i] = service.ProgramWeekInput{Days: days}
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not create program")
		}
		return
	}

	c.JSON(http.StatusCreated, MapProgramToResponse(program))
}

// UpdateProgram godoc
// @Summary Edit an existing program graph
// @Description Applies the submitted weeks, days, workouts and prescriptions in one transaction. Unidentifiable nodes are skipped and listed in the report.
// @Tags Programs
// @Accept json
// @Produce json
// @Param programId path string true "Program ID"
// @Param program body UpdateProgramRequest true "Program edit"
// @Success 200 {object} UpdateProgramResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Program not found"
// @Router /trainer/programs/{programId} [put]
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	programID, ok := parseUUIDParam(c, "programId")
	if !ok {
		return
	}

	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	existing, err := h.programService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load program")
		}
		return
	}
	if existing.TrainerID != trainerID {
		abortWithError(c, http.StatusForbidden, "Program belongs to another trainer")
		return
	}

	input := service.UpdateProgramInput{
		Title:     req.Title,
		Status:    req.Status,
		TrainerID: existing.TrainerID,
		ClientID:  existing.ClientID,
		Weeks:     make([]service.UpdateWeekInput, len(req.Weeks)),
	}
	for i, week := range req.Weeks {
		weekID, err := uuid.Parse(week.ID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid week id %q", week.ID))
			return
		}
		days := make([]service.UpdateDayInput, len(week.Days))
		for j, day := range week.Days {
			dayInput := service.UpdateDayInput{DayNumber: day.DayNumber}
			if dayInput.ID, err = parseOptionalUUID(day.ID); err != nil {
				abortWithError(c, http.StatusBadRequest, "Invalid day id format")
				return
			}
			if day.Workout != nil {
				workoutInput := service.UpdateWorkoutInput{
					Title:         day.Workout.Title,
					ScheduledDate: day.Workout.ScheduledDate,
					Exercises:     make([]service.UpdateExerciseInput, len(day.Workout.Exercises)),
				}
				if workoutInput.ID, err = parseOptionalUUID(day.Workout.ID); err != nil {
					abortWithError(c, http.StatusBadRequest, "Invalid workout id format")
					return
				}
				for k, ex := range day.Workout.Exercises {
					exInput := service.UpdateExerciseInput{
						Sets:         ex.Sets,
						Reps:         ex.Reps,
						WeightUsed:   ex.WeightUsed,
						WeekNumber:   ex.WeekNumber,
						OriginalWeek: ex.OriginalWeek,
					}
					if exInput.ID, err = parseOptionalUUID(ex.ID); err != nil {
						abortWithError(c, http.StatusBadRequest, "Invalid prescription id format")
						return
					}
					if exInput.ExerciseID, err = parseOptionalUUID(ex.ExerciseID); err != nil {
						abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
						return
					}
					workoutInput.Exercises[k] = exInput
				}
				dayInput.Workout = &workoutInput
			}
			days[j] = dayInput
		}
		input.Weeks[i] = service.UpdateWeekInput{ID: weekID, WeekNumber: week.WeekNumber, Days: days}
	}

	program, report, err := h.programService.UpdateProgram(c.Request.Context(), programID, input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not update program")
		}
		return
	}

	resp := UpdateProgramResponse{Program: MapProgramToResponse(program)}
	if report != nil && (len(report.SkippedDays) > 0 || len(report.SkippedExercises) > 0) {
		resp.Report = report
	}
	c.JSON(http.StatusOK, resp)
}

// GetProgram godoc
// @Summary Get a full program graph
// @Tags Programs
// @Produce json
// @Param programId path string true "Program ID"
// @Success 200 {object} ProgramResponse
// @Failure 404 {object} gin.H "Program not found"
// @Router /programs/{programId} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}
	programID, ok := parseUUIDParam(c, "programId")
	if !ok {
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load program")
		}
		return
	}
	// Only the authoring trainer and the assigned client may read the program.
	authorized := (role == domain.RoleTrainer && program.TrainerID == userID) ||
		(role == domain.RoleClient && program.ClientID == userID)
	if !authorized {
		abortWithError(c, http.StatusForbidden, "Access denied")
		return
	}

	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// --- Mapping Helpers ---

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// MapProgramToResponse converts a program graph into its nested DTO.
func MapProgramToResponse(program *domain.WorkoutProgram) ProgramResponse {
	if program == nil {
		return ProgramResponse{}
	}
	resp := ProgramResponse{
		ID:            program.ID.String(),
		TrainerID:     program.TrainerID.String(),
		ClientID:      program.ClientID.String(),
		Title:         program.Title,
		DurationWeeks: program.DurationWeeks,
		RepeatWeek:    program.RepeatWeek,
		Status:        program.Status,
		Weeks:         make([]ProgramWeekResponse, len(program.Weeks)),
		CreatedAt:     program.CreatedAt,
	}
	for i, week := range program.Weeks {
		weekResp := ProgramWeekResponse{
			ID:         week.ID.String(),
			WeekNumber: week.WeekNumber,
			Days:       make([]ProgramDayResponse, len(week.Days)),
		}
		for j, day := range week.Days {
			dayResp := ProgramDayResponse{
				ID:        day.ID.String(),
				DayNumber: day.DayNumber,
			}
			if day.Workout != nil {
				workoutResp := MapWorkoutToResponse(day.Workout)
				dayResp.Workout = &workoutResp
			}
			weekResp.Days[j] = dayResp
		}
		resp.Weeks[i] = weekResp
	}
	return resp
}

// MapWorkoutToResponse converts a workout with its prescriptions into a DTO.
func MapWorkoutToResponse(workout *domain.Workout) WorkoutResponse {
	resp := WorkoutResponse{
		ID:            workout.ID.String(),
		Title:         workout.Title,
		ScheduledDate: workout.ScheduledDate,
		Status:        workout.Status,
		Exercises:     make([]PrescriptionResponse, len(workout.Exercises)),
	}
	for i, ex := range workout.Exercises {
		prescription := PrescriptionResponse{
			ID:           ex.ID.String(),
			ExerciseID:   ex.ExerciseID.String(),
			Sets:         ex.Sets,
			Reps:         ex.Reps,
			WeightUsed:   ex.WeightUsed,
			WeekNumber:   ex.WeekNumber,
			OriginalWeek: ex.OriginalWeek,
		}
		if ex.Exercise != nil {
			exerciseResp := MapExerciseToResponse(ex.Exercise)
			prescription.Exercise = &exerciseResp
		}
		resp.Exercises[i] = prescription
	}
	return resp
}
