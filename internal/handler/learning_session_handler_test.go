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
	"github.com/AdityaXD007/LearnXchange/internal/service"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

type learningSessionServiceMock struct {
	err          error
	calls        []string
	lastFeedback dto.FeedbackRequest
	lastQuery    dto.SessionQuery
}

func (m *learningSessionServiceMock) result(name, id string) (*models.LearningSession, error) {
	m.calls = append(m.calls, name)
	if m.err != nil {
		return nil, m.err
	}
	return &models.LearningSession{ID: id}, nil
}

func (m *learningSessionServiceMock) Schedule(ctx context.Context, actorID string, req dto.ScheduleSessionRequest) (*models.LearningSession, error) {
	return m.result("schedule", "sess-new")
}

func (m *learningSessionServiceMock) Start(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return m.result("start", id)
}

func (m *learningSessionServiceMock) Complete(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return m.result("complete", id)
}

func (m *learningSessionServiceMock) Cancel(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return m.result("cancel", id)
}

func (m *learningSessionServiceMock) MarkNoShow(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return m.result("no_show", id)
}

func (m *learningSessionServiceMock) SubmitFeedback(ctx context.Context, id, actorID string, req dto.FeedbackRequest) (*models.LearningSession, error) {
	m.lastFeedback = req
	return m.result("feedback", id)
}

func (m *learningSessionServiceMock) Reschedule(ctx context.Context, id, actorID string, req dto.RescheduleRequest) (*models.LearningSession, error) {
	return m.result("reschedule", id)
}

func (m *learningSessionServiceMock) List(ctx context.Context, actorID string, query dto.SessionQuery) ([]models.LearningSession, error) {
	m.lastQuery = query
	return []models.LearningSession{{ID: "sess-1"}}, m.err
}

func (m *learningSessionServiceMock) Get(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return m.result("get", id)
}

type exporterMock struct {
	format string
	err    error
}

func (m *exporterMock) Sessions(ctx context.Context, userID, format string) (*service.ExportResult, error) {
	m.format = format
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportResult{Filename: "sessions-20260101.csv", ContentType: "text/csv", Payload: []byte("Date\n")}, nil
}

func TestLearningSessionHandlerSchedule(t *testing.T) {
	mockSvc := &learningSessionServiceMock{}
	handler := NewLearningSessionHandler(mockSvc, &exporterMock{})

	c, w := newTestContext(http.MethodPost, "/sessions", `{"request_id":"r","scheduled_time":"2030-01-01T10:00:00Z"}`, "alice-id")
	handler.Schedule(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext(http.MethodPost, "/sessions", `[`, "alice-id")
	handler.Schedule(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLearningSessionHandlerTransitions(t *testing.T) {
	mockSvc := &learningSessionServiceMock{}
	handler := NewLearningSessionHandler(mockSvc, nil)

	for _, fn := range []gin.HandlerFunc{handler.Start, handler.Complete, handler.Cancel, handler.NoShow} {
		c, w := newTestContext(http.MethodPost, "/sessions/sess-1/x", "", "alice-id")
		c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
		fn(c)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, []string{"start", "complete", "cancel", "no_show"}, mockSvc.calls)

	mockSvc.err = appErrors.Clone(appErrors.ErrInvalidState, "session is no longer available")
	c, w := newTestContext(http.MethodPost, "/sessions/sess-1/start", "", "alice-id")
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.Start(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLearningSessionHandlerFeedback(t *testing.T) {
	mockSvc := &learningSessionServiceMock{}
	handler := NewLearningSessionHandler(mockSvc, nil)

	c, w := newTestContext(http.MethodPost, "/sessions/sess-1/feedback", `{"rating":"5","feedback":"great"}`, "alice-id")
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.Feedback(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"5"`, string(mockSvc.lastFeedback.Rating))

	mockSvc.err = appErrors.Field("rating", "rating must be between 1 and 5")
	c, w = newTestContext(http.MethodPost, "/sessions/sess-1/feedback", `{"rating":9}`, "alice-id")
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.Feedback(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "rating", env.Error.Field)
}

func TestLearningSessionHandlerListAndGet(t *testing.T) {
	mockSvc := &learningSessionServiceMock{}
	handler := NewLearningSessionHandler(mockSvc, nil)

	c, w := newTestContext(http.MethodGet, "/sessions?scope=upcoming", "", "alice-id")
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "upcoming", mockSvc.lastQuery.Scope)

	mockSvc.err = appErrors.ErrForbidden
	c, w = newTestContext(http.MethodGet, "/sessions/sess-1", "", "carol-id")
	c.Params = gin.Params{{Key: "id", Value: "sess-1"}}
	handler.Get(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLearningSessionHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	handler := NewLearningSessionHandler(&learningSessionServiceMock{}, exporter)

	c, w := newTestContext(http.MethodGet, "/sessions/export?format=csv", "", "alice-id")
	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, `attachment; filename="sessions-20260101.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Date\n", w.Body.String())

	exporter.err = appErrors.Field("format", "format must be csv or pdf")
	c, w = newTestContext(http.MethodGet, "/sessions/export?format=doc", "", "alice-id")
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
