package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/pkg/response"
)

type matchService interface {
	Find(ctx context.Context, userID string, query dto.MatchQuery) (*models.MatchPage, error)
}

// MatchHandler serves ranked skill-exchange partners.
type MatchHandler struct {
	service matchService
}

// NewMatchHandler builds a new handler.
func NewMatchHandler(service matchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// Find godoc
// @Summary Rank skill-exchange partners for the caller
// @Tags Matching
// @Produce json
// @Param search query string false "Substring over name, bio or skill"
// @Param skill query string false "Exact skill name"
// @Param level query string false "beginner|intermediate|advanced|expert"
// @Param min_rating query number false "Minimum rating (0-5)"
// @Param sort query string false "relevance|rating|sessions|recent"
// @Success 200 {object} response.Envelope{data=models.MatchPage}
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /matches [get]
func (h *MatchHandler) Find(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var query dto.MatchQuery
	_ = c.ShouldBindQuery(&query)

	page, err := h.service.Find(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page, nil)
}
