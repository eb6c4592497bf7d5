package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

type sessionRequestServiceMock struct {
	createResp  *models.SessionRequest
	createErr   error
	respondErr  error
	cancelErr   error
	lastCreate  dto.CreateSessionRequest
	lastRespond dto.RespondSessionRequest
	lastQuery   dto.SessionRequestQuery
	lastActor   string
	lastID      string
}

func (m *sessionRequestServiceMock) Create(ctx context.Context, requesterID string, req dto.CreateSessionRequest) (*models.SessionRequest, error) {
	m.lastActor = requesterID
	m.lastCreate = req
	return m.createResp, m.createErr
}

func (m *sessionRequestServiceMock) Respond(ctx context.Context, id, actorID string, req dto.RespondSessionRequest) (*models.SessionRequest, error) {
	m.lastID, m.lastActor, m.lastRespond = id, actorID, req
	if m.respondErr != nil {
		return nil, m.respondErr
	}
	return &models.SessionRequest{ID: id, Status: models.SessionRequestAccepted}, nil
}

func (m *sessionRequestServiceMock) Cancel(ctx context.Context, id, actorID string) (*models.SessionRequest, error) {
	m.lastID, m.lastActor = id, actorID
	if m.cancelErr != nil {
		return nil, m.cancelErr
	}
	return &models.SessionRequest{ID: id, Status: models.SessionRequestCancelled}, nil
}

func (m *sessionRequestServiceMock) List(ctx context.Context, actorID string, query dto.SessionRequestQuery) ([]models.SessionRequest, error) {
	m.lastActor, m.lastQuery = actorID, query
	return nil, nil
}

const createBody = `{"partner_username":"bob","skill_to_learn":"Guitar","skill_to_teach":"Python","length_minutes":60}`

func TestSessionRequestHandlerCreate(t *testing.T) {
	mockSvc := &sessionRequestServiceMock{createResp: &models.SessionRequest{ID: "req-1", Status: models.SessionRequestPending}}
	handler := NewSessionRequestHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/session-requests", createBody, "alice-id")
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice-id", mockSvc.lastActor)
	assert.Equal(t, "bob", mockSvc.lastCreate.PartnerUsername)
	assert.JSONEq(t, `60`, string(mockSvc.lastCreate.LengthMinutes))
}

func TestSessionRequestHandlerCreateDuplicateIsWarning(t *testing.T) {
	mockSvc := &sessionRequestServiceMock{
		createResp: &models.SessionRequest{ID: "req-1"},
		createErr:  appErrors.Clone(appErrors.ErrDuplicate, "you already have a pending request with this user"),
	}
	handler := NewSessionRequestHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/session-requests", createBody, "alice-id")
	handler.Create(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "DUPLICATE", env.Meta["code"])
	assert.Equal(t, "you already have a pending request with this user", env.Meta["warning"])
	assert.Nil(t, env.Error)
}

func TestSessionRequestHandlerCreateErrors(t *testing.T) {
	handler := NewSessionRequestHandler(&sessionRequestServiceMock{createErr: appErrors.Clone(appErrors.ErrNotFound, "user not found")})

	c, w := newTestContext(http.MethodPost, "/session-requests", createBody, "alice-id")
	handler.Create(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodPost, "/session-requests", `{"partner_username":`, "alice-id")
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodPost, "/session-requests", createBody, "")
	handler.Create(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionRequestHandlerRespond(t *testing.T) {
	mockSvc := &sessionRequestServiceMock{}
	handler := NewSessionRequestHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/session-requests/req-1/respond", `{"action":"accept"}`, "bob-id")
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	handler.Respond(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", mockSvc.lastID)
	assert.Equal(t, "accept", mockSvc.lastRespond.Action)

	mockSvc.respondErr = appErrors.Clone(appErrors.ErrInvalidState, "session request is no longer available")
	c, w = newTestContext(http.MethodPost, "/session-requests/req-1/respond", `{"action":"accept"}`, "bob-id")
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	handler.Respond(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestSessionRequestHandlerCancelForbidden(t *testing.T) {
	handler := NewSessionRequestHandler(&sessionRequestServiceMock{cancelErr: appErrors.ErrForbidden})

	c, w := newTestContext(http.MethodPost, "/session-requests/req-1/cancel", "", "bob-id")
	c.Params = gin.Params{{Key: "id", Value: "req-1"}}
	handler.Cancel(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSessionRequestHandlerList(t *testing.T) {
	mockSvc := &sessionRequestServiceMock{}
	handler := NewSessionRequestHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/session-requests?box=received&status=pending", "", "bob-id")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SessionRequestQuery{Box: "received", Status: "pending"}, mockSvc.lastQuery)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}
