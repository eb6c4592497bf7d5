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

type skillService interface {
	Catalog(ctx context.Context) ([]models.Skill, error)
	Popular(ctx context.Context) ([]models.PopularSkill, error)
	Inventory(ctx context.Context, userID string) (*service.SkillInventory, error)
	AddSkill(ctx context.Context, userID string, req dto.AddSkillRequest) (*models.UserSkill, error)
	UpdateSkillStatus(ctx context.Context, userID, recordID string, req dto.UpdateSkillStatusRequest) error
	RemoveSkill(ctx context.Context, userID, recordID string) error
}

// SkillHandler exposes the catalog and the caller's inventory.
type SkillHandler struct {
	service skillService
}

// NewSkillHandler builds a new handler.
func NewSkillHandler(service skillService) *SkillHandler {
	return &SkillHandler{service: service}
}

// Catalog godoc
// @Summary List catalog skills
// @Tags Skills
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Skill}
// @Security BearerAuth
// @Router /skills [get]
func (h *SkillHandler) Catalog(c *gin.Context) {
	skills, err := h.service.Catalog(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skills, nil)
}

// Popular godoc
// @Summary List the most widely held skills
// @Tags Skills
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.PopularSkill}
// @Security BearerAuth
// @Router /skills/popular [get]
func (h *SkillHandler) Popular(c *gin.Context) {
	skills, err := h.service.Popular(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, skills, nil)
}

// Inventory godoc
// @Summary List the caller's skills
// @Tags Skills
// @Produce json
// @Success 200 {object} response.Envelope{data=service.SkillInventory}
// @Security BearerAuth
// @Router /me/skills [get]
func (h *SkillHandler) Inventory(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	inv, err := h.service.Inventory(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inv, nil)
}

// Add godoc
// @Summary Add a skill to the caller's inventory
// @Tags Skills
// @Accept json
// @Produce json
// @Param payload body dto.AddSkillRequest true "Skill payload"
// @Success 201 {object} response.Envelope{data=models.UserSkill}
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /me/skills [post]
func (h *SkillHandler) Add(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.AddSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "skill"))
		return
	}
	record, err := h.service.AddSkill(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// UpdateStatus godoc
// @Summary Change the status of one of the caller's skills
// @Tags Skills
// @Accept json
// @Param id path string true "Inventory record ID"
// @Param payload body dto.UpdateSkillStatusRequest true "Status payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /me/skills/{id}/status [patch]
func (h *SkillHandler) UpdateStatus(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req dto.UpdateSkillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "status"))
		return
	}
	if err := h.service.UpdateSkillStatus(c.Request.Context(), userID, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Remove godoc
// @Summary Remove one of the caller's skills
// @Tags Skills
// @Param id path string true "Inventory record ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /me/skills/{id} [delete]
func (h *SkillHandler) Remove(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveSkill(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
