package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/pkg/response"
)

type profileService interface {
	View(ctx context.Context, username string) (*models.ProfileView, error)
}

type presenceService interface {
	Touch(ctx context.Context, userID string) bool
}

// ProfileHandler serves public profiles and presence heartbeats.
type ProfileHandler struct {
	profiles profileService
	presence presenceService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(profiles profileService, presence presenceService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, presence: presence}
}

// View godoc
// @Summary Show a user's public profile
// @Tags Profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Envelope{data=models.ProfileView}
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /users/{username}/profile [get]
func (h *ProfileHandler) View(c *gin.Context) {
	view, err := h.profiles.View(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Heartbeat godoc
// @Summary Mark the caller as active
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /presence/heartbeat [post]
func (h *ProfileHandler) Heartbeat(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	written := false
	if h.presence != nil {
		written = h.presence.Touch(c.Request.Context(), userID)
	}
	response.JSON(c, http.StatusOK, gin.H{"recorded": written}, nil)
}
