package models

import "time"

// LearningSessionStatus enumerates session lifecycle states.
type LearningSessionStatus string

const (
	SessionScheduled  LearningSessionStatus = "scheduled"
	SessionInProgress LearningSessionStatus = "in_progress"
	SessionCompleted  LearningSessionStatus = "completed"
	SessionCancelled  LearningSessionStatus = "cancelled"
	SessionNoShow     LearningSessionStatus = "no_show"
)

// Terminal reports whether no further transition is allowed.
func (s LearningSessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled || s == SessionNoShow
}

// LearningSession is a scheduled meeting between a student and a teacher.
type LearningSession struct {
	ID                string                `db:"id" json:"id"`
	RequestID         *string               `db:"request_id" json:"request_id,omitempty"`
	StudentID         string                `db:"student_id" json:"student_id"`
	TeacherID         string                `db:"teacher_id" json:"teacher_id"`
	StudentUsername   string                `db:"student_username" json:"student_username,omitempty"`
	TeacherUsername   string                `db:"teacher_username" json:"teacher_username,omitempty"`
	SkillID           string                `db:"skill_id" json:"skill_id"`
	SkillName         string                `db:"skill_name" json:"skill_name"`
	ScheduledTime     time.Time             `db:"scheduled_time" json:"scheduled_time"`
	DurationMinutes   int                   `db:"duration_minutes" json:"duration_minutes"`
	Status            LearningSessionStatus `db:"status" json:"status"`
	Notes             string                `db:"notes" json:"notes"`
	RatingByStudent   *int                  `db:"rating_by_student" json:"rating_by_student,omitempty"`
	RatingByTeacher   *int                  `db:"rating_by_teacher" json:"rating_by_teacher,omitempty"`
	FeedbackByStudent string                `db:"feedback_by_student" json:"feedback_by_student"`
	FeedbackByTeacher string                `db:"feedback_by_teacher" json:"feedback_by_teacher"`
	CreatedAt         time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time             `db:"updated_at" json:"updated_at"`
}

// IsParticipant reports whether userID is the student or the teacher.
func (s *LearningSession) IsParticipant(userID string) bool {
	return s.StudentID == userID || s.TeacherID == userID
}

// SessionTransition describes one guarded status change.
type SessionTransition struct {
	Name string
	From LearningSessionStatus
	To   LearningSessionStatus
}

// Supported session transitions.
var (
	TransitionStart    = SessionTransition{Name: "start", From: SessionScheduled, To: SessionInProgress}
	TransitionComplete = SessionTransition{Name: "complete", From: SessionInProgress, To: SessionCompleted}
	TransitionCancel   = SessionTransition{Name: "cancel", From: SessionScheduled, To: SessionCancelled}
	TransitionNoShow   = SessionTransition{Name: "no_show", From: SessionScheduled, To: SessionNoShow}
)

// SessionDirection decides who learns when scheduling from a request.
type SessionDirection string

const (
	DirectionRequesterLearns  SessionDirection = "requester_learns"
	DirectionRequesterTeaches SessionDirection = "requester_teaches"
)

// SessionScope filters session listings by time.
type SessionScope string

const (
	SessionScopeUpcoming SessionScope = "upcoming"
	SessionScopePast     SessionScope = "past"
	SessionScopeAll      SessionScope = "all"
)

// SessionFeedback is one participant's side of the feedback.
type SessionFeedback struct {
	SessionID string
	AsStudent bool
	Rating    int
	Feedback  string
}
