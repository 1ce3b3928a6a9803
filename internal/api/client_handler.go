package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client roster service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request/Response Structs ---

type AddClientRequest struct {
	Name    string   `json:"name" binding:"required"`
	Email   string   `json:"email" binding:"required,email"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
	BodyFat *float64 `json:"bodyFat"`
}

type UpdateClientRequest struct {
	Name    *string  `json:"name"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
	BodyFat *float64 `json:"bodyFat"`
}

type ProgressPicUploadRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

type AttachProgressPicRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type ClientProfileResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	TrainerID       string     `json:"trainerId"`
	Name            string     `json:"name"`
	Age             *int       `json:"age,omitempty"`
	Weight          *float64   `json:"weight,omitempty"`
	BodyFat         *float64   `json:"bodyFat,omitempty"`
	ProgressPics    []string   `json:"progressPics,omitempty"`
	LastWorkoutDate *time.Time `json:"lastWorkoutDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// --- Handler Methods ---

// AddClient godoc
// @Summary Onboard a new client under the authenticated trainer
// @Description Creates a client user account with a mailed temporary password plus the linked profile.
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body AddClientRequest true "Client details"
// @Success 201 {object} ClientProfileResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already registered"
// @Router /trainer/clients [post]
func (h *ClientHandler) AddClient(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.clientService.AddClient(c.Request.Context(), service.AddClientInput{
		TrainerID: trainerID,
		Name:      req.Name,
		Email:     req.Email,
		Age:       req.Age,
		Weight:    req.Weight,
		BodyFat:   req.BodyFat,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not add client")
		}
		return
	}

	c.JSON(http.StatusCreated, MapClientProfileToResponse(profile))
}

// GetClients godoc
// @Summary List the authenticated trainer's clients
// @Tags Clients
// @Produce json
// @Success 200 {array} ClientProfileResponse
// @Router /trainer/clients [get]
func (h *ClientHandler) GetClients(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profiles, err := h.clientService.GetClientsByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list clients")
		return
	}

	resp := make([]ClientProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = MapClientProfileToResponse(&profiles[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetClient godoc
// @Summary Get one managed client's profile
// @Tags Clients
// @Produce json
// @Param clientId path string true "Client user ID"
// @Success 200 {object} ClientProfileResponse
// @Failure 404 {object} gin.H "Client not found"
// @Router /trainer/clients/{clientId} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}

	profile, err := h.clientService.GetClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load client")
		}
		return
	}

	c.JSON(http.StatusOK, MapClientProfileToResponse(profile))
}

// UpdateClient godoc
// @Summary Edit a managed client's profile fields
// @Tags Clients
// @Accept json
// @Produce json
// @Param clientId path string true "Client user ID"
// @Param client body UpdateClientRequest true "Fields to change"
// @Success 200 {object} ClientProfileResponse
// @Failure 404 {object} gin.H "Client not found"
// @Router /trainer/clients/{clientId} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.clientService.UpdateClient(c.Request.Context(), trainerID, clientID, service.UpdateClientInput{
		Name:    req.Name,
		Age:     req.Age,
		Weight:  req.Weight,
		BodyFat: req.BodyFat,
	})
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not update client")
		}
		return
	}

	c.JSON(http.StatusOK, MapClientProfileToResponse(profile))
}

// RequestProgressPicUpload godoc
// @Summary Get a presigned upload URL for a progress picture
// @Description Clients upload directly to object storage with the returned URL, then attach the key.
// @Tags Clients
// @Accept json
// @Produce json
// @Param upload body ProgressPicUploadRequest true "Original file name"
// @Success 200 {object} service.ProgressPicUpload
// @Failure 404 {object} gin.H "Client profile not found"
// @Router /client/progress-pics/upload-url [post]
func (h *ClientHandler) RequestProgressPicUpload(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ProgressPicUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	upload, err := h.clientService.RequestProgressPicUpload(c.Request.Context(), clientID, req.FileName)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not create upload URL")
		}
		return
	}

	c.JSON(http.StatusOK, upload)
}

// AttachProgressPic godoc
// @Summary Record an uploaded progress picture on the client's profile
// @Tags Clients
// @Accept json
// @Produce json
// @Param pic body AttachProgressPicRequest true "Uploaded object key"
// @Success 200 {object} ClientProfileResponse
// @Failure 404 {object} gin.H "Client profile not found"
// @Router /client/progress-pics [post]
func (h *ClientHandler) AttachProgressPic(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req AttachProgressPicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.clientService.AttachProgressPic(c.Request.Context(), clientID, req.ObjectKey)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not attach progress picture")
		}
		return
	}

	c.JSON(http.StatusOK, MapClientProfileToResponse(profile))
}

// GetProgressPics godoc
// @Summary Get presigned download URLs for a managed client's progress pictures
// @Tags Clients
// @Produce json
// @Param clientId path string true "Client user ID"
// @Success 200 {object} gin.H "urls array"
// @Failure 404 {object} gin.H "Client not found"
// @Router /trainer/clients/{clientId}/progress-pics [get]
func (h *ClientHandler) GetProgressPics(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}

	urls, err := h.clientService.GetProgressPicURLs(c.Request.Context(), trainerID, clientID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load progress pictures")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// MapClientProfileToResponse converts a domain ClientProfile to its DTO.
func MapClientProfileToResponse(profile *domain.ClientProfile) ClientProfileResponse {
	if profile == nil {
		return ClientProfileResponse{}
	}
	return ClientProfileResponse{
		ID:              profile.ID.String(),
		UserID:          profile.UserID.String(),
		TrainerID:       profile.TrainerID.String(),
		Name:            profile.Name,
		Age:             profile.Age,
		Weight:          profile.Weight,
		BodyFat:         profile.BodyFat,
		ProgressPics:    profile.ProgressPics,
		LastWorkoutDate: profile.LastWorkoutDate,
		CreatedAt:       profile.CreatedAt,
	}
}
