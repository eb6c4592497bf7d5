package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionSessionRequestCreate  = "SESSION_REQUEST_CREATE"
	AuditActionSessionRequestAccept  = "SESSION_REQUEST_ACCEPT"
	AuditActionSessionRequestDecline = "SESSION_REQUEST_DECLINE"
	AuditActionSessionRequestCancel  = "SESSION_REQUEST_CANCEL"
	AuditActionSessionSchedule       = "SESSION_SCHEDULE"
	AuditActionSessionTransition     = "SESSION_TRANSITION"
	AuditActionSessionReschedule     = "SESSION_RESCHEDULE"
	AuditActionSessionFeedback       = "SESSION_FEEDBACK"
	AuditActionSkillAdd              = "SKILL_ADD"
	AuditActionSkillUpdate           = "SKILL_UPDATE"
	AuditActionSkillRemove           = "SKILL_REMOVE"
	AuditActionStatsRebuild          = "PROFILE_STATS_REBUILD"
)

// Audit resources.
const (
	AuditResourceSessionRequest  = "session_request"
	AuditResourceLearningSession = "learning_session"
	AuditResourceUserSkill       = "user_skill"
	AuditResourceProfile         = "profile"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
