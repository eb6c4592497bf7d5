package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/pkg/response"
)

type statsRebuilder interface {
	Enqueue(ctx context.Context, actorID string) (string, error)
}

// AdminHandler exposes maintenance operations.
type AdminHandler struct {
	stats statsRebuilder
}

// NewAdminHandler builds a new handler.
func NewAdminHandler(stats statsRebuilder) *AdminHandler {
	return &AdminHandler{stats: stats}
}

// RebuildStats godoc
// @Summary Queue a rebuild of every profile's rating and session count
// @Tags Admin
// @Produce json
// @Success 202 {object} response.Envelope{data=dto.JobAccepted}
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/profile-stats/rebuild [post]
func (h *AdminHandler) RebuildStats(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	jobID, err := h.stats.Enqueue(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, dto.JobAccepted{JobID: jobID}, nil)
}
