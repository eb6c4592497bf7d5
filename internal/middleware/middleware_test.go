package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/internal/service"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
}

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

type recorderStub struct {
	touched []string
}

func (r *recorderStub) Touch(ctx context.Context, userID string) bool {
	r.touched = append(r.touched, userID)
	return true
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWT(t *testing.T) {
	claims := &models.JWTClaims{UserID: "alice-id", Role: models.RoleUser}
	r := newEngine(JWT(validatorStub{claims: claims}))

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer bad").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "Bearer good").Code)
}

func TestRequireRoles(t *testing.T) {
	user := &models.JWTClaims{UserID: "alice-id", Role: models.RoleUser}
	admin := &models.JWTClaims{UserID: "root-id", Role: models.RoleAdmin}

	r := newEngine(JWT(validatorStub{claims: user}), RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, doGet(r, "Bearer good").Code)

	r = newEngine(JWT(validatorStub{claims: admin}), RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusOK, doGet(r, "Bearer good").Code)

	r = newEngine(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
}

func TestActivityTouchesAuthenticatedCaller(t *testing.T) {
	recorder := &recorderStub{}
	claims := &models.JWTClaims{UserID: "alice-id"}
	r := newEngine(JWT(validatorStub{claims: claims}), Activity(recorder))

	doGet(r, "Bearer good")
	doGet(r, "Bearer bad")
	assert.Equal(t, []string{"alice-id"}, recorder.touched)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := service.NewMetricsService()
	r := newEngine(Metrics(metrics))

	rec := doGet(r, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	out := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, out.Body.String(), `path="/protected"`)
}

func TestMetricsMiddlewareBucketsUnmatchedRoutes(t *testing.T) {
	metrics := service.NewMetricsService()
	r := newEngine()
	r.Use(Metrics(metrics))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/probe/abc123", nil))

	out := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, out.Body.String(), `path="unmatched"`)
	assert.NotContains(t, out.Body.String(), "abc123")
}
