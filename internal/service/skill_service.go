package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/pkg/database"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

const (
	catalogCacheKey   = "skills:catalog"
	popularCacheKey   = "skills:popular"
	popularSkillLimit = 4
)

type skillStore interface {
	ListCatalog(ctx context.Context) ([]models.Skill, error)
	Popular(ctx context.Context, limit int) ([]models.PopularSkill, error)
	FindByID(ctx context.Context, id string) (*models.Skill, error)
	GetOrCreate(ctx context.Context, name string) (*models.Skill, error)
	ListUserSkills(ctx context.Context, userID string) ([]models.UserSkill, error)
	AddUserSkill(ctx context.Context, record *models.UserSkill) error
	UpdateUserSkillStatus(ctx context.Context, id, userID string, status models.SkillStatus) error
	DeleteUserSkill(ctx context.Context, id, userID string) error
}

// SkillInventory is a user's records split by role.
type SkillInventory struct {
	Teaching []models.UserSkill `json:"teaching"`
	Learning []models.UserSkill `json:"learning"`
}

// SkillService manages the catalog and per-user inventories.
type SkillService struct {
	repo      skillStore
	cache     *CacheService
	cacheTTL  time.Duration
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSkillService constructs a SkillService. cache may be nil.
func NewSkillService(repo skillStore, cache *CacheService, cacheTTL time.Duration, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *SkillService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillService{repo: repo, cache: cache, cacheTTL: cacheTTL, audit: audit, validator: validate, logger: logger}
}

// Catalog lists every catalog skill ordered by name.
func (s *SkillService) Catalog(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if s.cache.Get(ctx, catalogCacheKey, &skills) {
		return skills, nil
	}
	skills, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list skills")
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	s.cache.Set(ctx, catalogCacheKey, skills, s.cacheTTL)
	return skills, nil
}

// Popular returns the most widely held skills.
func (s *SkillService) Popular(ctx context.Context) ([]models.PopularSkill, error) {
	var skills []models.PopularSkill
	if s.cache.Get(ctx, popularCacheKey, &skills) {
		return skills, nil
	}
	skills, err := s.repo.Popular(ctx, popularSkillLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list popular skills")
	}
	if skills == nil {
		skills = []models.PopularSkill{}
	}
	s.cache.Set(ctx, popularCacheKey, skills, s.cacheTTL)
	return skills, nil
}

// Inventory returns userID's records split by role.
func (s *SkillService) Inventory(ctx context.Context, userID string) (*SkillInventory, error) {
	records, err := s.repo.ListUserSkills(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load skills")
	}
	inv := splitByRole(records)
	return &inv, nil
}

func splitByRole(records []models.UserSkill) SkillInventory {
	inv := SkillInventory{Teaching: []models.UserSkill{}, Learning: []models.UserSkill{}}
	for _, r := range records {
		if r.Role == models.SkillRoleTeaching {
			inv.Teaching = append(inv.Teaching, r)
		} else {
			inv.Learning = append(inv.Learning, r)
		}
	}
	return inv
}

// AddSkill adds a catalog skill, or a custom one created by name, to userID's inventory.
func (s *SkillService) AddSkill(ctx context.Context, userID string, req dto.AddSkillRequest) (*models.UserSkill, error) {
	req.SkillID = strings.TrimSpace(req.SkillID)
	req.SkillName = strings.TrimSpace(req.SkillName)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	req.Proficiency = strings.ToLower(strings.TrimSpace(req.Proficiency))
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if req.SkillID == "" && req.SkillName == "" {
		return nil, appErrors.Field("skill_id", "skill_id or skill_name is required")
	}

	var (
		skill *models.Skill
		err   error
	)
	if req.SkillID != "" {
		skill, err = s.repo.FindByID(ctx, req.SkillID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "skill not found")
		}
	} else {
		skill, err = s.repo.GetOrCreate(ctx, req.SkillName)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve skill")
	}

	status := models.SkillStatus(req.Status)
	if status == "" {
		status = models.SkillStatusNew
	}
	record := &models.UserSkill{
		UserID:      userID,
		SkillID:     skill.ID,
		SkillName:   skill.Name,
		Role:        models.SkillRole(req.Role),
		Proficiency: models.Proficiency(req.Proficiency),
		Status:      status,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.AddUserSkill(ctx, record); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "skill already in your inventory for this role")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add skill")
	}

	s.cache.Invalidate(ctx, catalogCacheKey, popularCacheKey)
	s.emitAudit(ctx, userID, models.AuditActionSkillAdd, record.ID, map[string]string{
		"skill": record.SkillName,
		"role":  string(record.Role),
	})
	return record, nil
}

// UpdateSkillStatus changes the status of one of userID's records.
func (s *SkillService) UpdateSkillStatus(ctx context.Context, userID, recordID string, req dto.UpdateSkillStatusRequest) error {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	if err := s.repo.UpdateUserSkillStatus(ctx, recordID, userID, models.SkillStatus(req.Status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "skill record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update skill")
	}
	s.emitAudit(ctx, userID, models.AuditActionSkillUpdate, recordID, map[string]string{"status": req.Status})
	return nil
}

// RemoveSkill deletes one of userID's records.
func (s *SkillService) RemoveSkill(ctx context.Context, userID, recordID string) error {
	if err := s.repo.DeleteUserSkill(ctx, recordID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "skill record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove skill")
	}
	s.cache.Invalidate(ctx, popularCacheKey)
	s.emitAudit(ctx, userID, models.AuditActionSkillRemove, recordID, nil)
	return nil
}

func (s *SkillService) emitAudit(ctx context.Context, actorID, action, resourceID string, values map[string]string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   models.AuditResourceUserSkill,
		ResourceID: &resourceID,
		NewValues:  auditJSON(values),
		IPAddress:  "system",
		UserAgent:  "skill-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.String("action", action), zap.Error(err))
	}
}
