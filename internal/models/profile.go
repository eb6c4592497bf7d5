package models

import "time"

// Profile holds public profile fields plus derived stats.
// Rating and SessionCount are recomputed from learning sessions, never written from input.
type Profile struct {
	UserID       string     `db:"user_id" json:"user_id"`
	FullName     string     `db:"full_name" json:"full_name"`
	Bio          string     `db:"bio" json:"bio"`
	Location     string     `db:"location" json:"location"`
	Languages    string     `db:"languages" json:"languages"`
	Rating       float64    `db:"rating" json:"rating"`
	SessionCount int        `db:"session_count" json:"session_count"`
	LastActiveAt *time.Time `db:"last_active_at" json:"last_active_at,omitempty"`
	JoinedAt     time.Time  `db:"joined_at" json:"joined_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ProfileStats is the derived portion of a profile.
type ProfileStats struct {
	UserID       string  `db:"user_id" json:"user_id"`
	Rating       float64 `db:"rating" json:"rating"`
	SessionCount int     `db:"session_count" json:"session_count"`
}

// Review is a student's rating of a completed session taught by the profile owner.
type Review struct {
	SessionID       string    `db:"session_id" json:"session_id"`
	SkillName       string    `db:"skill_name" json:"skill_name"`
	Rating          int       `db:"rating" json:"rating"`
	Feedback        string    `db:"feedback" json:"feedback"`
	StudentUsername string    `db:"student_username" json:"student_username"`
	ScheduledTime   time.Time `db:"scheduled_time" json:"scheduled_time"`
}

// ProfileView is the public profile page payload.
type ProfileView struct {
	Username string      `json:"username"`
	Profile  Profile     `json:"profile"`
	IsOnline bool        `json:"is_online"`
	Teaching []UserSkill `json:"teaching"`
	Learning []UserSkill `json:"learning"`
	Reviews  []Review    `json:"reviews"`
}
