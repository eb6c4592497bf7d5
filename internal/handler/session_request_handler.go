package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
	"github.com/AdityaXD007/LearnXchange/pkg/response"
)

type sessionRequestService interface {
	Create(ctx context.Context, requesterID string, req dto.CreateSessionRequest) (*models.SessionRequest, error)
	Respond(ctx context.Context, id, actorID string, req dto.RespondSessionRequest) (*models.SessionRequest, error)
	Cancel(ctx context.Context, id, actorID string) (*models.SessionRequest, error)
	List(ctx context.Context, actorID string, query dto.SessionRequestQuery) ([]models.SessionRequest, error)
}

// SessionRequestHandler exposes the session request workflow.
type SessionRequestHandler struct {
	service sessionRequestService
}

// NewSessionRequestHandler builds a new handler.
func NewSessionRequestHandler(service sessionRequestService) *SessionRequestHandler {
	return &SessionRequestHandler{service: service}
}

// Create godoc
// @Summary Request a session with another user
// @Description Returns 201 on creation. A pending request to the same partner yields 200 with meta.warning and the existing request.
// @Tags SessionRequests
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Request payload"
// @Success 201 {object} response.Envelope{data=models.SessionRequest}
// @Success 200 {object} response.Envelope{data=models.SessionRequest}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /session-requests [post]
func (h *SessionRequestHandler) Create(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "session request"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrDuplicate.Code {
			response.Warning(c, created, appErr)
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// List godoc
// @Summary List the caller's session requests
// @Tags SessionRequests
// @Produce json
// @Param box query string false "sent|received|all"
// @Param status query string false "pending|accepted|declined|cancelled"
// @Success 200 {object} response.Envelope{data=[]models.SessionRequest}
// @Security BearerAuth
// @Router /session-requests [get]
func (h *SessionRequestHandler) List(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var query dto.SessionRequestQuery
	_ = c.ShouldBindQuery(&query)
	items, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.SessionRequest{}
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Respond godoc
// @Summary Accept or decline a pending request
// @Tags SessionRequests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.RespondSessionRequest true "Action"
// @Success 200 {object} response.Envelope{data=models.SessionRequest}
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /session-requests/{id}/respond [post]
func (h *SessionRequestHandler) Respond(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.RespondSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "response"))
		return
	}
	updated, err := h.service.Respond(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Cancel godoc
// @Summary Withdraw a pending request
// @Tags SessionRequests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope{data=models.SessionRequest}
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /session-requests/{id}/cancel [post]
func (h *SessionRequestHandler) Cancel(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	updated, err := h.service.Cancel(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
