package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/pkg/database"
)

const learningSessionSelect = `SELECT ls.id, ls.request_id, ls.student_id, ls.teacher_id,
	su.username AS student_username, tu.username AS teacher_username,
	ls.skill_id, ls.skill_name, ls.scheduled_time, ls.duration_minutes, ls.status, ls.notes,
	ls.rating_by_student, ls.rating_by_teacher, ls.feedback_by_student, ls.feedback_by_teacher,
	ls.created_at, ls.updated_at
FROM learning_sessions ls
JOIN users su ON su.id = ls.student_id
JOIN users tu ON tu.id = ls.teacher_id`

// LearningSessionRepository persists learning sessions. Every write that
// changes status or feedback recomputes both participants' profile stats in
// the same transaction.
type LearningSessionRepository struct {
	db *sqlx.DB
}

// NewLearningSessionRepository constructs the repository.
func NewLearningSessionRepository(db *sqlx.DB) *LearningSessionRepository {
	return &LearningSessionRepository{db: db}
}

// Create inserts a scheduled session. A second session for the same request
// surfaces as a unique violation.
func (r *LearningSessionRepository) Create(ctx context.Context, session *models.LearningSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.Status = models.SessionScheduled
	session.CreatedAt = now
	session.UpdatedAt = now
	const query = `INSERT INTO learning_sessions
	(id, request_id, student_id, teacher_id, skill_id, skill_name, scheduled_time, duration_minutes, status, notes, created_at, updated_at)
	VALUES (:id, :request_id, :student_id, :teacher_id, :skill_id, :skill_name, :scheduled_time, :duration_minutes, :status, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create learning session: %w", err)
	}
	return nil
}

// GetByID loads a session with participant usernames.
func (r *LearningSessionRepository) GetByID(ctx context.Context, id string) (*models.LearningSession, error) {
	var session models.LearningSession
	if err := r.db.GetContext(ctx, &session, learningSessionSelect+` WHERE ls.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get learning session: %w", err)
	}
	return &session, nil
}

// ListForUser returns sessions where userID participates, filtered by scope relative to now.
func (r *LearningSessionRepository) ListForUser(ctx context.Context, userID string, scope models.SessionScope, now time.Time) ([]models.LearningSession, error) {
	query := learningSessionSelect + ` WHERE (ls.student_id = $1 OR ls.teacher_id = $1)`
	args := []interface{}{userID}
	switch scope {
	case models.SessionScopeUpcoming:
		args = append(args, now)
		query += ` AND ls.scheduled_time >= $2 AND ls.status IN ('scheduled', 'in_progress') ORDER BY ls.scheduled_time ASC`
	case models.SessionScopePast:
		args = append(args, now)
		query += ` AND (ls.scheduled_time < $2 OR ls.status IN ('completed', 'cancelled', 'no_show')) ORDER BY ls.scheduled_time DESC`
	default:
		query += ` ORDER BY ls.scheduled_time DESC`
	}

	var sessions []models.LearningSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list learning sessions: %w", err)
	}
	return sessions, nil
}

// Transition applies tr when the session is still in tr.From and recomputes
// both participants' stats. Zero rows affected yields sql.ErrNoRows.
func (r *LearningSessionRepository) Transition(ctx context.Context, id string, tr models.SessionTransition) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `UPDATE learning_sessions SET status = $2, updated_at = $4
		WHERE id = $1 AND status = $3
		RETURNING student_id, teacher_id`
		var parties struct {
			StudentID string `db:"student_id"`
			TeacherID string `db:"teacher_id"`
		}
		if err := tx.GetContext(ctx, &parties, query, id, tr.To, tr.From, time.Now().UTC()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return err
			}
			return fmt.Errorf("transition learning session: %w", err)
		}
		return recomputeStats(ctx, tx, parties.StudentID, parties.TeacherID)
	})
}

// SaveFeedback writes one side's rating and comment on a completed session and
// recomputes both participants' stats. Zero rows affected yields sql.ErrNoRows.
func (r *LearningSessionRepository) SaveFeedback(ctx context.Context, fb models.SessionFeedback) error {
	ratingCol, feedbackCol := "rating_by_teacher", "feedback_by_teacher"
	if fb.AsStudent {
		ratingCol, feedbackCol = "rating_by_student", "feedback_by_student"
	}
	query := fmt.Sprintf(`UPDATE learning_sessions SET %s = $2, %s = $3, updated_at = $4
		WHERE id = $1 AND status = '%s'
		RETURNING student_id, teacher_id`, ratingCol, feedbackCol, models.SessionCompleted)

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var parties struct {
			StudentID string `db:"student_id"`
			TeacherID string `db:"teacher_id"`
		}
		if err := tx.GetContext(ctx, &parties, query, fb.SessionID, fb.Rating, fb.Feedback, time.Now().UTC()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return err
			}
			return fmt.Errorf("save session feedback: %w", err)
		}
		return recomputeStats(ctx, tx, parties.StudentID, parties.TeacherID)
	})
}

// Reschedule moves a scheduled session. Status is unchanged.
func (r *LearningSessionRepository) Reschedule(ctx context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE learning_sessions SET scheduled_time = $2, updated_at = $3 WHERE id = $1 AND status = '%s'`, models.SessionScheduled)
	result, err := r.db.ExecContext(ctx, query, id, at, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reschedule learning session: %w", err)
	}
	return requireAffected(result)
}
