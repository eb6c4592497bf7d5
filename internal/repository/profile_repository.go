package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AdityaXD007/LearnXchange/internal/models"
)

// recomputeStatsQuery derives rating and session_count for the given users.
// Only students' ratings of their teacher count toward the teacher's rating.
const recomputeStatsQuery = `UPDATE profiles p SET
	rating = COALESCE((
		SELECT ROUND(AVG(ls.rating_by_student)::numeric, 1)
		FROM learning_sessions ls
		WHERE ls.teacher_id = p.user_id AND ls.status = 'completed' AND ls.rating_by_student IS NOT NULL
	), 0),
	session_count = (
		SELECT COUNT(*)
		FROM learning_sessions ls
		WHERE ls.status = 'completed' AND (ls.student_id = p.user_id OR ls.teacher_id = p.user_id)
	),
	updated_at = NOW()
WHERE p.user_id = ANY($1)`

// recomputeStats runs inside whatever transaction ext belongs to.
func recomputeStats(ctx context.Context, ext sqlx.ExecerContext, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := ext.ExecContext(ctx, recomputeStatsQuery, pq.Array(userIDs)); err != nil {
		return fmt.Errorf("recompute profile stats: %w", err)
	}
	return nil
}

// ProfileRepository reads profiles and maintains their derived stats.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID returns the profile for userID.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	const query = `SELECT user_id, full_name, bio, location, languages, rating, session_count, last_active_at, joined_at, updated_at
	FROM profiles WHERE user_id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// ListCandidates returns every active user with a profile except excludeUserID.
// Skills are not populated.
func (r *ProfileRepository) ListCandidates(ctx context.Context, excludeUserID string) ([]models.Candidate, error) {
	const query = `SELECT u.id AS user_id, u.username,
		COALESCE(NULLIF(p.full_name, ''), NULLIF(u.full_name, ''), u.username) AS display_name,
		p.bio, p.rating, p.session_count, u.last_login, p.joined_at, p.last_active_at
	FROM users u
	JOIN profiles p ON p.user_id = u.id
	WHERE u.active = TRUE AND u.id <> $1
	ORDER BY u.username`
	var candidates []models.Candidate
	if err := r.db.SelectContext(ctx, &candidates, query, excludeUserID); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, nil
}

// TouchLastActive stamps the presence timestamp.
func (r *ProfileRepository) TouchLastActive(ctx context.Context, userID string, at time.Time) error {
	const query = `UPDATE profiles SET last_active_at = $2 WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID, at); err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}
	return nil
}

// RecomputeStats recalculates derived stats for the given users.
func (r *ProfileRepository) RecomputeStats(ctx context.Context, userIDs ...string) error {
	return recomputeStats(ctx, r.db, userIDs...)
}

// ListUserIDs returns all profile owners.
func (r *ProfileRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM profiles ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("list profile ids: %w", err)
	}
	return ids, nil
}

// RecentReviews returns student ratings of sessions taught by userID, newest first.
func (r *ProfileRepository) RecentReviews(ctx context.Context, userID string, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT ls.id AS session_id, ls.skill_name, ls.rating_by_student AS rating,
		ls.feedback_by_student AS feedback, u.username AS student_username, ls.scheduled_time
	FROM learning_sessions ls
	JOIN users u ON u.id = ls.student_id
	WHERE ls.teacher_id = $1 AND ls.status = 'completed' AND ls.rating_by_student IS NOT NULL
	ORDER BY ls.scheduled_time DESC
	LIMIT $2`
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list recent reviews: %w", err)
	}
	return reviews, nil
}
