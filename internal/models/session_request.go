package models

import "time"

// SessionRequestStatus captures the request workflow states.
type SessionRequestStatus string

const (
	SessionRequestPending   SessionRequestStatus = "pending"
	SessionRequestAccepted  SessionRequestStatus = "accepted"
	SessionRequestDeclined  SessionRequestStatus = "declined"
	SessionRequestCancelled SessionRequestStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s SessionRequestStatus) Valid() bool {
	switch s {
	case SessionRequestPending, SessionRequestAccepted, SessionRequestDeclined, SessionRequestCancelled:
		return true
	}
	return false
}

// SessionRequest is a proposal from requester to partner.
type SessionRequest struct {
	ID                string               `db:"id" json:"id"`
	RequesterID       string               `db:"requester_id" json:"requester_id"`
	PartnerID         string               `db:"partner_id" json:"partner_id"`
	RequesterUsername string               `db:"requester_username" json:"requester_username,omitempty"`
	PartnerUsername   string               `db:"partner_username" json:"partner_username,omitempty"`
	SkillToLearn      string               `db:"skill_to_learn" json:"skill_to_learn"`
	SkillToTeach      string               `db:"skill_to_teach" json:"skill_to_teach"`
	LengthMinutes     int                  `db:"length_minutes" json:"length_minutes"`
	Message           string               `db:"message" json:"message"`
	Status            SessionRequestStatus `db:"status" json:"status"`
	CreatedAt         time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time            `db:"updated_at" json:"updated_at"`
}

// SessionRequestBox selects which side of the requests a user sees.
type SessionRequestBox string

const (
	SessionRequestBoxSent     SessionRequestBox = "sent"
	SessionRequestBoxReceived SessionRequestBox = "received"
	SessionRequestBoxAll      SessionRequestBox = "all"
)

// SessionRequestFilter constrains listing queries.
type SessionRequestFilter struct {
	UserID string
	Box    SessionRequestBox
	Status SessionRequestStatus
}
