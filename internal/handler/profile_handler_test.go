package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

type profileServiceMock struct {
	err error
}

func (m *profileServiceMock) View(ctx context.Context, username string) (*models.ProfileView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.ProfileView{Username: username}, nil
}

type presenceMock struct {
	touched string
}

func (m *presenceMock) Touch(ctx context.Context, userID string) bool {
	m.touched = userID
	return true
}

type statsRebuilderMock struct {
	err error
}

func (m *statsRebuilderMock) Enqueue(ctx context.Context, actorID string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "job-1", nil
}

func TestProfileHandlerView(t *testing.T) {
	handler := NewProfileHandler(&profileServiceMock{}, nil)

	c, w := newTestContext(http.MethodGet, "/users/bob/profile", "", "alice-id")
	c.Params = gin.Params{{Key: "username", Value: "bob"}}
	handler.View(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)

	handler = NewProfileHandler(&profileServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "user not found")}, nil)
	c, w = newTestContext(http.MethodGet, "/users/ghost/profile", "", "alice-id")
	c.Params = gin.Params{{Key: "username", Value: "ghost"}}
	handler.View(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileHandlerHeartbeat(t *testing.T) {
	presence := &presenceMock{}
	handler := NewProfileHandler(&profileServiceMock{}, presence)

	c, w := newTestContext(http.MethodPost, "/presence/heartbeat", "", "alice-id")
	handler.Heartbeat(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice-id", presence.touched)
	assert.JSONEq(t, `{"data":{"recorded":true}}`, w.Body.String())
}

func TestAdminHandlerRebuildStats(t *testing.T) {
	handler := NewAdminHandler(&statsRebuilderMock{})

	c, w := newTestContext(http.MethodPost, "/admin/profile-stats/rebuild", "", "root-id")
	handler.RebuildStats(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"data":{"job_id":"job-1"}}`, w.Body.String())

	handler = NewAdminHandler(&statsRebuilderMock{err: appErrors.Clone(appErrors.ErrConflict, "a rebuild is already queued")})
	c, w = newTestContext(http.MethodPost, "/admin/profile-stats/rebuild", "", "root-id")
	handler.RebuildStats(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	handler := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"postgres": func(ctx context.Context) error { return nil },
	})
	c, w := newTestContext(http.MethodGet, "/ready", "", "")
	handler.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	handler = NewMetricsHandler(nil, map[string]ReadinessCheck{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	c, w = newTestContext(http.MethodGet, "/ready", "", "")
	handler.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")

	c, w = newTestContext(http.MethodGet, "/metrics", "", "")
	handler.Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
