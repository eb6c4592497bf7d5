package dto

// AddSkillRequest adds a catalog skill, or a custom one by name, to the caller's inventory.
// One of SkillID or SkillName is required.
type AddSkillRequest struct {
	SkillID     string `json:"skill_id" validate:"omitempty,uuid"`
	SkillName   string `json:"skill_name" validate:"omitempty,max=100"`
	Role        string `json:"role" validate:"required,skill_role"`
	Proficiency string `json:"proficiency" validate:"required,proficiency"`
	Status      string `json:"status" validate:"omitempty,skill_status"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateSkillStatusRequest changes the status of one inventory record.
type UpdateSkillStatusRequest struct {
	Status string `json:"status" validate:"required,skill_status"`
}
