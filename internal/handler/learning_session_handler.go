package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/internal/service"
	"github.com/AdityaXD007/LearnXchange/pkg/response"
)

type learningSessionService interface {
	Schedule(ctx context.Context, actorID string, req dto.ScheduleSessionRequest) (*models.LearningSession, error)
	Start(ctx context.Context, id, actorID string) (*models.LearningSession, error)
	Complete(ctx context.Context, id, actorID string) (*models.LearningSession, error)
	Cancel(ctx context.Context, id, actorID string) (*models.LearningSession, error)
	MarkNoShow(ctx context.Context, id, actorID string) (*models.LearningSession, error)
	SubmitFeedback(ctx context.Context, id, actorID string, req dto.FeedbackRequest) (*models.LearningSession, error)
	Reschedule(ctx context.Context, id, actorID string, req dto.RescheduleRequest) (*models.LearningSession, error)
	List(ctx context.Context, actorID string, query dto.SessionQuery) ([]models.LearningSession, error)
	Get(ctx context.Context, id, actorID string) (*models.LearningSession, error)
}

type sessionExporter interface {
	Sessions(ctx context.Context, userID, format string) (*service.ExportResult, error)
}

// LearningSessionHandler exposes scheduling and the session lifecycle.
type LearningSessionHandler struct {
	service  learningSessionService
	exporter sessionExporter
}

// NewLearningSessionHandler builds a new handler.
func NewLearningSessionHandler(service learningSessionService, exporter sessionExporter) *LearningSessionHandler {
	return &LearningSessionHandler{service: service, exporter: exporter}
}

// Schedule godoc
// @Summary Schedule a session from an accepted request
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleSessionRequest true "Schedule payload"
// @Success 201 {object} response.Envelope{data=models.LearningSession}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions [post]
func (h *LearningSessionHandler) Schedule(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.ScheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "schedule"))
		return
	}
	session, err := h.service.Schedule(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// List godoc
// @Summary List the caller's sessions
// @Tags Sessions
// @Produce json
// @Param scope query string false "upcoming|past|all"
// @Success 200 {object} response.Envelope{data=[]models.LearningSession}
// @Security BearerAuth
// @Router /sessions [get]
func (h *LearningSessionHandler) List(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var query dto.SessionQuery
	_ = c.ShouldBindQuery(&query)
	sessions, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sessions == nil {
		sessions = []models.LearningSession{}
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Get godoc
// @Summary Show one session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope{data=models.LearningSession}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *LearningSessionHandler) Get(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	session, err := h.service.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

type transitionFunc func(ctx context.Context, id, actorID string) (*models.LearningSession, error)

func (h *LearningSessionHandler) transition(c *gin.Context, fn transitionFunc) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	session, err := fn(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Start godoc
// @Summary Start a scheduled session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope{data=models.LearningSession}
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/start [post]
func (h *LearningSessionHandler) Start(c *gin.Context) {
	h.transition(c, h.service.Start)
}

// Complete godoc
// @Summary Complete an in-progress session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope{data=models.LearningSession}
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/complete [post]
func (h *LearningSessionHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

// Cancel godoc
// @Summary Cancel a scheduled session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope{data=models.LearningSession}
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/cancel [post]
func (h *LearningSessionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

// NoShow godoc
// @Summary Mark a scheduled session as a no-show
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope{data=models.LearningSession}
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/no-show [post]
func (h *LearningSessionHandler) NoShow(c *gin.Context) {
	h.transition(c, h.service.MarkNoShow)
}

// Feedback godoc
// @Summary Rate a completed session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.FeedbackRequest true "Feedback payload"
// @Success 200 {object} response.Envelope{data=models.LearningSession}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/feedback [post]
func (h *LearningSessionHandler) Feedback(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "feedback"))
		return
	}
	session, err := h.service.SubmitFeedback(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Reschedule godoc
// @Summary Move a scheduled session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.RescheduleRequest true "New time"
// @Success 200 {object} response.Envelope{data=models.LearningSession}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/reschedule [post]
func (h *LearningSessionHandler) Reschedule(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "reschedule"))
		return
	}
	session, err := h.service.Reschedule(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Export godoc
// @Summary Download the caller's session history
// @Tags Sessions
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv|pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/export [get]
func (h *LearningSessionHandler) Export(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var query dto.ExportQuery
	_ = c.ShouldBindQuery(&query)
	result, err := h.exporter.Sessions(c.Request.Context(), userID, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
