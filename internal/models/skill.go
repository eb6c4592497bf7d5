package models

import "time"

// SkillCategory groups catalog skills.
type SkillCategory string

const (
	SkillCategoryProgramming SkillCategory = "programming"
	SkillCategoryDesign      SkillCategory = "design"
	SkillCategoryLanguage    SkillCategory = "language"
	SkillCategoryPhotography SkillCategory = "photography"
	SkillCategoryMusic       SkillCategory = "music"
	SkillCategoryOther       SkillCategory = "other"
)

// SkillRole says whether a user teaches or learns a skill.
type SkillRole string

const (
	SkillRoleTeaching SkillRole = "teaching"
	SkillRoleLearning SkillRole = "learning"
)

// Valid reports whether r is a known role.
func (r SkillRole) Valid() bool {
	return r == SkillRoleTeaching || r == SkillRoleLearning
}

// Proficiency is the self-declared mastery tier.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// Valid reports whether p is a known tier.
func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

// SkillStatus tracks a user's progress on a skill record.
type SkillStatus string

const (
	SkillStatusActive     SkillStatus = "active"
	SkillStatusLearning   SkillStatus = "learning"
	SkillStatusInProgress SkillStatus = "in_progress"
	SkillStatusNew        SkillStatus = "new"
	SkillStatusPaused     SkillStatus = "paused"
)

// Skill is a catalog entry.
type Skill struct {
	ID         string        `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	Category   SkillCategory `db:"category" json:"category"`
	IconClass  string        `db:"icon_class" json:"icon_class"`
	ColorClass string        `db:"color_class" json:"color_class"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// PopularSkill is a catalog entry with the number of user records referencing it.
type PopularSkill struct {
	Skill
	UserCount int `db:"user_count" json:"user_count"`
}

// UserSkill is one (skill, role) record in a user's inventory.
type UserSkill struct {
	ID           string      `db:"id" json:"id"`
	UserID       string      `db:"user_id" json:"user_id"`
	SkillID      string      `db:"skill_id" json:"skill_id"`
	SkillName    string      `db:"skill_name" json:"skill_name"`
	Role         SkillRole   `db:"role" json:"role"`
	Proficiency  Proficiency `db:"proficiency" json:"proficiency"`
	Status       SkillStatus `db:"status" json:"status"`
	SessionCount int         `db:"session_count" json:"session_count"`
	Description  string      `db:"description" json:"description"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// Valid reports whether s is a known status.
func (s SkillStatus) Valid() bool {
	switch s {
	case SkillStatusActive, SkillStatusLearning, SkillStatusInProgress, SkillStatusNew, SkillStatusPaused:
		return true
	}
	return false
}
