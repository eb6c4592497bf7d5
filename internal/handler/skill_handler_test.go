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

type skillServiceMock struct {
	addErr     error
	removeErr  error
	lastAdd    dto.AddSkillRequest
	lastRecord string
	lastStatus string
}

func (m *skillServiceMock) Catalog(ctx context.Context) ([]models.Skill, error) {
	return []models.Skill{{ID: "s1", Name: "Python"}}, nil
}

func (m *skillServiceMock) Popular(ctx context.Context) ([]models.PopularSkill, error) {
	return []models.PopularSkill{}, nil
}

func (m *skillServiceMock) Inventory(ctx context.Context, userID string) (*service.SkillInventory, error) {
	return &service.SkillInventory{Teaching: []models.UserSkill{}, Learning: []models.UserSkill{}}, nil
}

func (m *skillServiceMock) AddSkill(ctx context.Context, userID string, req dto.AddSkillRequest) (*models.UserSkill, error) {
	m.lastAdd = req
	if m.addErr != nil {
		return nil, m.addErr
	}
	return &models.UserSkill{ID: "us-1", UserID: userID}, nil
}

func (m *skillServiceMock) UpdateSkillStatus(ctx context.Context, userID, recordID string, req dto.UpdateSkillStatusRequest) error {
	m.lastRecord, m.lastStatus = recordID, req.Status
	return nil
}

func (m *skillServiceMock) RemoveSkill(ctx context.Context, userID, recordID string) error {
	m.lastRecord = recordID
	return m.removeErr
}

func TestSkillHandlerCatalog(t *testing.T) {
	handler := NewSkillHandler(&skillServiceMock{})

	c, w := newTestContext(http.MethodGet, "/skills", "", "alice-id")
	handler.Catalog(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Python"`)

	c, w = newTestContext(http.MethodGet, "/skills/popular", "", "alice-id")
	handler.Popular(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/me/skills", "", "alice-id")
	handler.Inventory(c)
	assert.JSONEq(t, `{"data":{"teaching":[],"learning":[]}}`, w.Body.String())
}

func TestSkillHandlerAdd(t *testing.T) {
	mockSvc := &skillServiceMock{}
	handler := NewSkillHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/me/skills", `{"skill_name":"Go","role":"teaching","proficiency":"expert"}`, "alice-id")
	handler.Add(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Go", mockSvc.lastAdd.SkillName)

	mockSvc.addErr = appErrors.Clone(appErrors.ErrConflict, "skill already in your inventory for this role")
	c, w = newTestContext(http.MethodPost, "/me/skills", `{"skill_name":"Go","role":"teaching","proficiency":"expert"}`, "alice-id")
	handler.Add(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSkillHandlerUpdateAndRemove(t *testing.T) {
	mockSvc := &skillServiceMock{}
	handler := NewSkillHandler(mockSvc)

	c, w := newTestContext(http.MethodPatch, "/me/skills/us-1/status", `{"status":"paused"}`, "alice-id")
	c.Params = gin.Params{{Key: "id", Value: "us-1"}}
	handler.UpdateStatus(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "paused", mockSvc.lastStatus)

	mockSvc.removeErr = appErrors.Clone(appErrors.ErrNotFound, "skill record not found")
	c, w = newTestContext(http.MethodDelete, "/me/skills/us-9", "", "alice-id")
	c.Params = gin.Params{{Key: "id", Value: "us-9"}}
	handler.Remove(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "us-9", mockSvc.lastRecord)
}
