package dto

import "encoding/json"

// CreateSessionRequest proposes a session to another user.
// LengthMinutes stays raw so that non-numeric input maps to a field error.
type CreateSessionRequest struct {
	PartnerUsername string          `json:"partner_username" validate:"required,max=150"`
	SkillToLearn    string          `json:"skill_to_learn" validate:"required,max=100"`
	SkillToTeach    string          `json:"skill_to_teach" validate:"required,max=100"`
	LengthMinutes   json.RawMessage `json:"length_minutes" swaggertype:"integer"`
	Message         string          `json:"message" validate:"max=1000"`
}

// RespondSessionRequest accepts or declines a pending request.
type RespondSessionRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

// SessionRequestQuery filters the caller's requests.
type SessionRequestQuery struct {
	Box    string `form:"box"`
	Status string `form:"status"`
}
