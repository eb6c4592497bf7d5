package dto

import "encoding/json"

// ScheduleSessionRequest turns an accepted request into a learning session.
type ScheduleSessionRequest struct {
	RequestID       string `json:"request_id" validate:"required,uuid"`
	ScheduledTime   string `json:"scheduled_time" validate:"required"`
	DurationMinutes *int   `json:"duration_minutes" validate:"omitempty,min=1,max=480"`
	Direction       string `json:"direction" validate:"omitempty,oneof=requester_learns requester_teaches"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// FeedbackRequest carries one participant's rating. Rating stays raw so it
// can be validated as an integer in [1,5] before anything is written.
type FeedbackRequest struct {
	Rating   json.RawMessage `json:"rating" swaggertype:"integer"`
	Feedback string          `json:"feedback" validate:"max=2000"`
}

// RescheduleRequest moves a scheduled session.
type RescheduleRequest struct {
	ScheduledTime string `json:"scheduled_time" validate:"required"`
}

// SessionQuery filters session listings.
type SessionQuery struct {
	Scope string `form:"scope"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format"`
}

// JobAccepted is returned when background work is queued.
type JobAccepted struct {
	JobID string `json:"job_id"`
}
