package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AdityaXD007/LearnXchange/internal/models"
)

const userSkillColumns = `us.id, us.user_id, us.skill_id, s.name AS skill_name, us.role, us.proficiency, us.status,
	us.session_count, us.description, us.created_at, us.updated_at`

// SkillRepository manages the skill catalog and user inventories.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository constructs the repository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// ListCatalog returns every catalog skill ordered by name.
func (r *SkillRepository) ListCatalog(ctx context.Context) ([]models.Skill, error) {
	const query = `SELECT id, name, category, icon_class, color_class, created_at FROM skills ORDER BY name`
	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills, query); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// Popular returns skills ordered by how many inventory records reference them.
func (r *SkillRepository) Popular(ctx context.Context, limit int) ([]models.PopularSkill, error) {
	const query = `SELECT s.id, s.name, s.category, s.icon_class, s.color_class, s.created_at, COUNT(us.id) AS user_count
	FROM skills s
	LEFT JOIN user_skills us ON us.skill_id = s.id
	GROUP BY s.id
	ORDER BY user_count DESC, s.name
	LIMIT $1`
	var skills []models.PopularSkill
	if err := r.db.SelectContext(ctx, &skills, query, limit); err != nil {
		return nil, fmt.Errorf("list popular skills: %w", err)
	}
	return skills, nil
}

// FindByID returns a catalog skill.
func (r *SkillRepository) FindByID(ctx context.Context, id string) (*models.Skill, error) {
	const query = `SELECT id, name, category, icon_class, color_class, created_at FROM skills WHERE id = $1`
	var skill models.Skill
	if err := r.db.GetContext(ctx, &skill, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find skill: %w", err)
	}
	return &skill, nil
}

// FindByName looks a skill up case-insensitively.
func (r *SkillRepository) FindByName(ctx context.Context, name string) (*models.Skill, error) {
	const query = `SELECT id, name, category, icon_class, color_class, created_at FROM skills WHERE LOWER(name) = LOWER($1)`
	var skill models.Skill
	if err := r.db.GetContext(ctx, &skill, query, strings.TrimSpace(name)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find skill by name: %w", err)
	}
	return &skill, nil
}

// GetOrCreate returns the catalog skill matching name, creating it under the
// "other" category when absent.
func (r *SkillRepository) GetOrCreate(ctx context.Context, name string) (*models.Skill, error) {
	name = strings.TrimSpace(name)
	const insert = `INSERT INTO skills (id, name, category, icon_class, color_class, created_at)
	VALUES ($1, $2, $3, 'fas fa-star', 'bg-gray-100', $4)
	ON CONFLICT ((LOWER(name))) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, uuid.NewString(), name, models.SkillCategoryOther, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return r.FindByName(ctx, name)
}

// ListUserSkills returns a user's inventory records.
func (r *SkillRepository) ListUserSkills(ctx context.Context, userID string) ([]models.UserSkill, error) {
	query := `SELECT ` + userSkillColumns + `
	FROM user_skills us JOIN skills s ON s.id = us.skill_id
	WHERE us.user_id = $1
	ORDER BY us.role, s.name`
	var records []models.UserSkill
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("list user skills: %w", err)
	}
	return records, nil
}

// ListRecordsByUsers loads the matching view of several inventories in one round trip.
func (r *SkillRepository) ListRecordsByUsers(ctx context.Context, userIDs []string) ([]models.SkillRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT us.user_id, s.name AS skill_name, us.role, us.proficiency
	FROM user_skills us JOIN skills s ON s.id = us.skill_id
	WHERE us.user_id = ANY($1)`
	var records []models.SkillRecord
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("list skill records: %w", err)
	}
	return records, nil
}

// AddUserSkill inserts an inventory record. A duplicate (user, skill, role)
// surfaces as a unique violation.
func (r *SkillRepository) AddUserSkill(ctx context.Context, record *models.UserSkill) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO user_skills (id, user_id, skill_id, role, proficiency, status, session_count, description, created_at, updated_at)
	VALUES (:id, :user_id, :skill_id, :role, :proficiency, :status, :session_count, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("add user skill: %w", err)
	}
	return nil
}

// UpdateUserSkillStatus changes the status of a record owned by userID.
func (r *SkillRepository) UpdateUserSkillStatus(ctx context.Context, id, userID string, status models.SkillStatus) error {
	const query = `UPDATE user_skills SET status = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID, status)
	if err != nil {
		return fmt.Errorf("update user skill status: %w", err)
	}
	return requireAffected(result)
}

// DeleteUserSkill removes a record owned by userID.
func (r *SkillRepository) DeleteUserSkill(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_skills WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete user skill: %w", err)
	}
	return requireAffected(result)
}

// requireAffected maps a zero-row write to sql.ErrNoRows.
func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
