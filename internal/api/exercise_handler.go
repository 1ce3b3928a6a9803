package api

import (
	"errors"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler exposes the shared exercise catalog.
type ExerciseHandler struct {
	catalogService service.CatalogService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalogService service.CatalogService) *ExerciseHandler {
	return &ExerciseHandler{catalogService: catalogService}
}

// --- Request/Response Structs ---

type ExerciseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the shared exercise catalog
// @Description The catalog is global; exercises are created lazily when first referenced in a program or workout.
// @Tags Exercises
// @Produce json
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list exercises")
		return
	}

	resp := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		resp[i] = MapExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetExercise godoc
// @Summary Get one catalog exercise
// @Tags Exercises
// @Produce json
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{exerciseId} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseUUIDParam(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.catalogService.GetByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load exercise")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// MapExerciseToResponse converts a domain Exercise to its DTO.
func MapExerciseToResponse(exercise *domain.Exercise) ExerciseResponse {
	if exercise == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:        exercise.ID.String(),
		Name:      exercise.Name,
		Category:  exercise.Category,
		CreatedAt: exercise.CreatedAt,
	}
}
