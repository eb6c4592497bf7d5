package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

var sessionNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type learningSessionRepoStub struct {
	sessions      map[string]*models.LearningSession
	created       []*models.LearningSession
	createErr     error
	transitionErr error
	transitions   []models.SessionTransition
	feedback      []models.SessionFeedback
	rescheduled   []time.Time
	listScope     models.SessionScope
}

func newLearningSessionRepoStub(sessions ...*models.LearningSession) *learningSessionRepoStub {
	stub := &learningSessionRepoStub{sessions: map[string]*models.LearningSession{}}
	for _, s := range sessions {
		stub.sessions[s.ID] = s
	}
	return stub
}

func (s *learningSessionRepoStub) Create(ctx context.Context, session *models.LearningSession) error {
	if s.createErr != nil {
		return s.createErr
	}
	session.ID = "sess-new"
	session.Status = models.SessionScheduled
	s.created = append(s.created, session)
	return nil
}

func (s *learningSessionRepoStub) GetByID(ctx context.Context, id string) (*models.LearningSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *session
	return &clone, nil
}

func (s *learningSessionRepoStub) ListForUser(ctx context.Context, userID string, scope models.SessionScope, now time.Time) ([]models.LearningSession, error) {
	s.listScope = scope
	return []models.LearningSession{}, nil
}

func (s *learningSessionRepoStub) Transition(ctx context.Context, id string, tr models.SessionTransition) error {
	if s.transitionErr != nil {
		return s.transitionErr
	}
	session := s.sessions[id]
	if session.Status != tr.From {
		return sql.ErrNoRows
	}
	session.Status = tr.To
	s.transitions = append(s.transitions, tr)
	return nil
}

func (s *learningSessionRepoStub) SaveFeedback(ctx context.Context, fb models.SessionFeedback) error {
	s.feedback = append(s.feedback, fb)
	return nil
}

func (s *learningSessionRepoStub) Reschedule(ctx context.Context, id string, at time.Time) error {
	s.rescheduled = append(s.rescheduled, at)
	return nil
}

type requestReaderStub struct {
	requests map[string]*models.SessionRequest
}

func (s *requestReaderStub) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	if r, ok := s.requests[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

type skillFinderStub struct {
	skills map[string]*models.Skill
}

func (s *skillFinderStub) FindByName(ctx context.Context, name string) (*models.Skill, error) {
	if sk, ok := s.skills[name]; ok {
		return sk, nil
	}
	return nil, sql.ErrNoRows
}

func newSessionService(sessions *learningSessionRepoStub, requests map[string]*models.SessionRequest, audit *auditStub) *LearningSessionService {
	skills := &skillFinderStub{skills: map[string]*models.Skill{
		"Guitar": {ID: "skill-guitar", Name: "Guitar"},
		"Python": {ID: "skill-python", Name: "Python"},
	}}
	var writer auditWriter
	if audit != nil {
		writer = audit
	}
	svc := NewLearningSessionService(sessions, &requestReaderStub{requests: requests}, skills, writer, NewMetricsService(), nil, nil)
	svc.now = func() time.Time { return sessionNow }
	return svc
}

func acceptedRequest() map[string]*models.SessionRequest {
	return map[string]*models.SessionRequest{
		"6f1c2a9e-3b1d-4c55-9a8e-1d2f3a4b5c6d": {
			ID:            "6f1c2a9e-3b1d-4c55-9a8e-1d2f3a4b5c6d",
			RequesterID:   "alice-id",
			PartnerID:     "bob-id",
			SkillToLearn:  "Guitar",
			SkillToTeach:  "Python",
			LengthMinutes: 45,
			Status:        models.SessionRequestAccepted,
		},
	}
}

const acceptedRequestID = "6f1c2a9e-3b1d-4c55-9a8e-1d2f3a4b5c6d"

func TestLearningSessionServiceSchedule(t *testing.T) {
	repo := newLearningSessionRepoStub()
	audit := &auditStub{}
	svc := newSessionService(repo, acceptedRequest(), audit)

	session, err := svc.Schedule(context.Background(), "bob-id", dto.ScheduleSessionRequest{
		RequestID:     acceptedRequestID,
		ScheduledTime: "2026-06-02T15:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice-id", session.StudentID)
	assert.Equal(t, "bob-id", session.TeacherID)
	assert.Equal(t, "skill-guitar", session.SkillID)
	assert.Equal(t, 45, session.DurationMinutes)
	assert.Equal(t, models.SessionScheduled, session.Status)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSessionSchedule, audit.logs[0].Action)
}

func TestLearningSessionServiceScheduleRequesterTeaches(t *testing.T) {
	repo := newLearningSessionRepoStub()
	svc := newSessionService(repo, acceptedRequest(), nil)
	duration := 90

	session, err := svc.Schedule(context.Background(), "alice-id", dto.ScheduleSessionRequest{
		RequestID:       acceptedRequestID,
		ScheduledTime:   "2026-06-02T15:00:00Z",
		DurationMinutes: &duration,
		Direction:       string(models.DirectionRequesterTeaches),
	})
	require.NoError(t, err)
	assert.Equal(t, "bob-id", session.StudentID)
	assert.Equal(t, "alice-id", session.TeacherID)
	assert.Equal(t, "Python", session.SkillName)
	assert.Equal(t, 90, session.DurationMinutes)
}

func TestLearningSessionServiceScheduleGuards(t *testing.T) {
	requests := acceptedRequest()
	repo := newLearningSessionRepoStub()
	svc := newSessionService(repo, requests, nil)
	base := dto.ScheduleSessionRequest{RequestID: acceptedRequestID, ScheduledTime: "2026-06-02T15:00:00Z"}

	_, err := svc.Schedule(context.Background(), "carol-id", base)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	past := base
	past.ScheduledTime = "2026-05-30T15:00:00Z"
	_, err = svc.Schedule(context.Background(), "alice-id", past)
	assert.Equal(t, "scheduled_time", fieldOf(t, err))

	unknown := base
	unknown.RequestID = "0b0b0b0b-0000-4000-8000-000000000000"
	_, err = svc.Schedule(context.Background(), "alice-id", unknown)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	requests[acceptedRequestID].Status = models.SessionRequestPending
	_, err = svc.Schedule(context.Background(), "alice-id", base)
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)

	requests[acceptedRequestID].Status = models.SessionRequestAccepted
	requests[acceptedRequestID].SkillToLearn = "Juggling"
	_, err = svc.Schedule(context.Background(), "alice-id", base)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Empty(t, repo.created)
}

func TestLearningSessionServiceScheduleTwice(t *testing.T) {
	repo := newLearningSessionRepoStub()
	repo.createErr = &pq.Error{Code: "23505"}
	svc := newSessionService(repo, acceptedRequest(), nil)

	_, err := svc.Schedule(context.Background(), "alice-id", dto.ScheduleSessionRequest{
		RequestID:     acceptedRequestID,
		ScheduledTime: "2026-06-02T15:00:00Z",
	})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func scheduledSession(status models.LearningSessionStatus) *models.LearningSession {
	return &models.LearningSession{
		ID:            "sess-1",
		StudentID:     "alice-id",
		TeacherID:     "bob-id",
		SkillName:     "Guitar",
		ScheduledTime: sessionNow.Add(24 * time.Hour),
		Status:        status,
	}
}

func TestLearningSessionServiceLifecycle(t *testing.T) {
	repo := newLearningSessionRepoStub(scheduledSession(models.SessionScheduled))
	audit := &auditStub{}
	svc := newSessionService(repo, nil, audit)
	ctx := context.Background()

	got, err := svc.Start(ctx, "sess-1", "bob-id")
	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, got.Status)

	_, err = svc.Cancel(ctx, "sess-1", "alice-id")
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)

	got, err = svc.Complete(ctx, "sess-1", "alice-id")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, got.Status)

	for _, fn := range []func(context.Context, string, string) (*models.LearningSession, error){svc.Start, svc.Complete, svc.Cancel, svc.MarkNoShow} {
		_, err := fn(ctx, "sess-1", "alice-id")
		assert.ErrorIs(t, err, appErrors.ErrInvalidState)
	}
	assert.Equal(t, []models.SessionTransition{models.TransitionStart, models.TransitionComplete}, repo.transitions)
	assert.Len(t, audit.logs, 2)
}

func TestLearningSessionServiceTransitionGuards(t *testing.T) {
	repo := newLearningSessionRepoStub(scheduledSession(models.SessionScheduled))
	svc := newSessionService(repo, nil, nil)

	_, err := svc.MarkNoShow(context.Background(), "sess-1", "carol-id")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.MarkNoShow(context.Background(), "missing", "alice-id")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	repo.transitionErr = sql.ErrNoRows
	_, err = svc.Cancel(context.Background(), "sess-1", "alice-id")
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)
}

func TestLearningSessionServiceSubmitFeedback(t *testing.T) {
	repo := newLearningSessionRepoStub(scheduledSession(models.SessionCompleted))
	svc := newSessionService(repo, nil, nil)

	got, err := svc.SubmitFeedback(context.Background(), "sess-1", "alice-id", dto.FeedbackRequest{Rating: json.RawMessage(`5`), Feedback: "great"})
	require.NoError(t, err)
	require.NotNil(t, got.RatingByStudent)
	assert.Equal(t, 5, *got.RatingByStudent)
	assert.Nil(t, got.RatingByTeacher)

	_, err = svc.SubmitFeedback(context.Background(), "sess-1", "bob-id", dto.FeedbackRequest{Rating: json.RawMessage(`"4"`)})
	require.NoError(t, err)

	require.Len(t, repo.feedback, 2)
	assert.True(t, repo.feedback[0].AsStudent)
	assert.False(t, repo.feedback[1].AsStudent)
	assert.Equal(t, 4, repo.feedback[1].Rating)
}

func TestLearningSessionServiceSubmitFeedbackRejects(t *testing.T) {
	repo := newLearningSessionRepoStub(scheduledSession(models.SessionCompleted))
	svc := newSessionService(repo, nil, nil)
	ctx := context.Background()

	for _, raw := range []string{`0`, `6`, `"abc"`, `3.5`, `null`} {
		_, err := svc.SubmitFeedback(ctx, "sess-1", "alice-id", dto.FeedbackRequest{Rating: json.RawMessage(raw)})
		assert.Equal(t, "rating", fieldOf(t, err), raw)
	}

	_, err := svc.SubmitFeedback(ctx, "sess-1", "carol-id", dto.FeedbackRequest{Rating: json.RawMessage(`4`)})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	repo.sessions["sess-1"].Status = models.SessionInProgress
	_, err = svc.SubmitFeedback(ctx, "sess-1", "alice-id", dto.FeedbackRequest{Rating: json.RawMessage(`4`)})
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)

	assert.Empty(t, repo.feedback)
}

func TestLearningSessionServiceReschedule(t *testing.T) {
	repo := newLearningSessionRepoStub(scheduledSession(models.SessionScheduled))
	svc := newSessionService(repo, nil, nil)
	ctx := context.Background()

	got, err := svc.Reschedule(ctx, "sess-1", "bob-id", dto.RescheduleRequest{ScheduledTime: "2026-06-03T10:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionScheduled, got.Status)
	assert.Equal(t, time.Date(2026, 6, 3, 10, 0, 0, 0, time.UTC), got.ScheduledTime)

	_, err = svc.Reschedule(ctx, "sess-1", "bob-id", dto.RescheduleRequest{ScheduledTime: "2026-05-03T10:00:00Z"})
	assert.Equal(t, "scheduled_time", fieldOf(t, err))

	_, err = svc.Reschedule(ctx, "sess-1", "carol-id", dto.RescheduleRequest{ScheduledTime: "2026-06-03T10:00:00Z"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	repo.sessions["sess-1"].Status = models.SessionCancelled
	_, err = svc.Reschedule(ctx, "sess-1", "bob-id", dto.RescheduleRequest{ScheduledTime: "2026-06-03T10:00:00Z"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)
	assert.Len(t, repo.rescheduled, 1)
}

func TestLearningSessionServiceListAndGet(t *testing.T) {
	repo := newLearningSessionRepoStub(scheduledSession(models.SessionScheduled))
	svc := newSessionService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "alice-id", dto.SessionQuery{})
	require.NoError(t, err)
	assert.Equal(t, models.SessionScopeAll, repo.listScope)

	_, err = svc.List(ctx, "alice-id", dto.SessionQuery{Scope: "Upcoming"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionScopeUpcoming, repo.listScope)

	_, err = svc.List(ctx, "alice-id", dto.SessionQuery{Scope: "someday"})
	assert.Equal(t, "scope", fieldOf(t, err))

	_, err = svc.Get(ctx, "sess-1", "carol-id")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	got, err := svc.Get(ctx, "sess-1", "alice-id")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
}
