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

type learningSessionStore interface {
	Create(ctx context.Context, session *models.LearningSession) error
	GetByID(ctx context.Context, id string) (*models.LearningSession, error)
	ListForUser(ctx context.Context, userID string, scope models.SessionScope, now time.Time) ([]models.LearningSession, error)
	Transition(ctx context.Context, id string, tr models.SessionTransition) error
	SaveFeedback(ctx context.Context, fb models.SessionFeedback) error
	Reschedule(ctx context.Context, id string, at time.Time) error
}

type requestReader interface {
	GetByID(ctx context.Context, id string) (*models.SessionRequest, error)
}

type skillFinder interface {
	FindByName(ctx context.Context, name string) (*models.Skill, error)
}

// LearningSessionService schedules sessions from accepted requests and drives
// their lifecycle.
type LearningSessionService struct {
	sessions  learningSessionStore
	requests  requestReader
	skills    skillFinder
	audit     auditWriter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLearningSessionService constructs the service.
func NewLearningSessionService(sessions learningSessionStore, requests requestReader, skills skillFinder, audit auditWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LearningSessionService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LearningSessionService{
		sessions:  sessions,
		requests:  requests,
		skills:    skills,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Schedule creates the session for an accepted request.
func (s *LearningSessionService) Schedule(ctx context.Context, actorID string, req dto.ScheduleSessionRequest) (*models.LearningSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	at, err := parseFutureTime(req.ScheduledTime, "scheduled_time", s.now())
	if err != nil {
		return nil, err
	}

	request, err := s.requests.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session request")
	}
	if request.RequesterID != actorID && request.PartnerID != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not a party to this request")
	}
	if request.Status != models.SessionRequestAccepted {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "only accepted requests can be scheduled")
	}

	studentID, teacherID, skillName := request.RequesterID, request.PartnerID, request.SkillToLearn
	if models.SessionDirection(req.Direction) == models.DirectionRequesterTeaches {
		studentID, teacherID, skillName = request.PartnerID, request.RequesterID, request.SkillToTeach
	}

	skill, err := s.skills.FindByName(ctx, skillName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "skill not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve skill")
	}

	duration := request.LengthMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	requestID := request.ID
	session := &models.LearningSession{
		RequestID:       &requestID,
		StudentID:       studentID,
		TeacherID:       teacherID,
		SkillID:         skill.ID,
		SkillName:       skill.Name,
		ScheduledTime:   at,
		DurationMinutes: duration,
		Notes:           strings.TrimSpace(req.Notes),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a session is already scheduled for this request")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule session")
	}

	s.metrics.RecordSessionTransition("schedule", "ok")
	s.emitAudit(ctx, actorID, models.AuditActionSessionSchedule, session.ID, nil)
	return session, nil
}

// Start moves a scheduled session to in_progress.
func (s *LearningSessionService) Start(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return s.transition(ctx, id, actorID, models.TransitionStart)
}

// Complete moves an in-progress session to completed.
func (s *LearningSessionService) Complete(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return s.transition(ctx, id, actorID, models.TransitionComplete)
}

// Cancel moves a scheduled session to cancelled.
func (s *LearningSessionService) Cancel(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return s.transition(ctx, id, actorID, models.TransitionCancel)
}

// MarkNoShow moves a scheduled session to no_show.
func (s *LearningSessionService) MarkNoShow(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return s.transition(ctx, id, actorID, models.TransitionNoShow)
}

func (s *LearningSessionService) transition(ctx context.Context, id, actorID string, tr models.SessionTransition) (*models.LearningSession, error) {
	session, err := s.loadForParticipant(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if session.Status != tr.From {
		s.metrics.RecordSessionTransition(tr.Name, "stale")
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session cannot "+strings.ReplaceAll(tr.Name, "_", " ")+" from "+string(session.Status))
	}

	if err := s.sessions.Transition(ctx, id, tr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordSessionTransition(tr.Name, "stale")
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "session is no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}

	old := session.Status
	session.Status = tr.To
	s.metrics.RecordSessionTransition(tr.Name, "ok")
	s.emitAudit(ctx, actorID, models.AuditActionSessionTransition, session.ID, map[string]string{
		"from": string(old),
		"to":   string(tr.To),
	})
	return session, nil
}

// SubmitFeedback records the actor's rating on a completed session. The rating
// is validated before anything is read or written.
func (s *LearningSessionService) SubmitFeedback(ctx context.Context, id, actorID string, req dto.FeedbackRequest) (*models.LearningSession, error) {
	rating, err := parseRating(req.Rating)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	session, err := s.loadForParticipant(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "feedback is only accepted for completed sessions")
	}

	fb := models.SessionFeedback{
		SessionID: id,
		AsStudent: session.StudentID == actorID,
		Rating:    rating,
		Feedback:  strings.TrimSpace(req.Feedback),
	}
	if err := s.sessions.SaveFeedback(ctx, fb); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "session is no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save feedback")
	}

	side := "teacher"
	if fb.AsStudent {
		side = "student"
		session.RatingByStudent = &rating
		session.FeedbackByStudent = fb.Feedback
	} else {
		session.RatingByTeacher = &rating
		session.FeedbackByTeacher = fb.Feedback
	}
	s.metrics.RecordFeedback(side)
	s.emitAudit(ctx, actorID, models.AuditActionSessionFeedback, session.ID, map[string]string{"side": side})
	return session, nil
}

// Reschedule moves a scheduled session to a new future time.
func (s *LearningSessionService) Reschedule(ctx context.Context, id, actorID string, req dto.RescheduleRequest) (*models.LearningSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	at, err := parseFutureTime(req.ScheduledTime, "scheduled_time", s.now())
	if err != nil {
		return nil, err
	}

	session, err := s.loadForParticipant(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionScheduled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "only scheduled sessions can be rescheduled")
	}
	if err := s.sessions.Reschedule(ctx, id, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "session is no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reschedule session")
	}

	previous := session.ScheduledTime
	session.ScheduledTime = at
	s.metrics.RecordSessionTransition("reschedule", "ok")
	s.emitAudit(ctx, actorID, models.AuditActionSessionReschedule, session.ID, map[string]string{
		"from": previous.UTC().Format(time.RFC3339),
		"to":   at.Format(time.RFC3339),
	})
	return session, nil
}

// List returns the actor's sessions for scope (default all).
func (s *LearningSessionService) List(ctx context.Context, actorID string, query dto.SessionQuery) ([]models.LearningSession, error) {
	scope := models.SessionScope(strings.ToLower(strings.TrimSpace(query.Scope)))
	switch scope {
	case "":
		scope = models.SessionScopeAll
	case models.SessionScopeUpcoming, models.SessionScopePast, models.SessionScopeAll:
	default:
		return nil, appErrors.Field("scope", "scope must be one of upcoming, past, all")
	}
	sessions, err := s.sessions.ListForUser(ctx, actorID, scope, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Get returns one session visible to the actor.
func (s *LearningSessionService) Get(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	return s.loadForParticipant(ctx, id, actorID)
}

func (s *LearningSessionService) loadForParticipant(ctx context.Context, id, actorID string) (*models.LearningSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if !session.IsParticipant(actorID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not a participant in this session")
	}
	return session, nil
}

func (s *LearningSessionService) emitAudit(ctx context.Context, actorID, action, resourceID string, values map[string]string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   models.AuditResourceLearningSession,
		ResourceID: &resourceID,
		NewValues:  auditJSON(values),
		IPAddress:  "system",
		UserAgent:  "learning-session-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.String("action", action), zap.Error(err))
	}
}
