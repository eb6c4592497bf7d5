package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AdityaXD007/LearnXchange/internal/models"
)

const sessionRequestSelect = `SELECT sr.id, sr.requester_id, sr.partner_id, ru.username AS requester_username,
	pu.username AS partner_username, sr.skill_to_learn, sr.skill_to_teach, sr.length_minutes, sr.message,
	sr.status, sr.created_at, sr.updated_at
FROM session_requests sr
JOIN users ru ON ru.id = sr.requester_id
JOIN users pu ON pu.id = sr.partner_id`

// SessionRequestRepository persists session requests.
type SessionRequestRepository struct {
	db *sqlx.DB
}

// NewSessionRequestRepository constructs the repository.
func NewSessionRequestRepository(db *sqlx.DB) *SessionRequestRepository {
	return &SessionRequestRepository{db: db}
}

// Create inserts a pending request. A concurrent duplicate pending request
// for the same pair surfaces as a unique violation.
func (r *SessionRequestRepository) Create(ctx context.Context, req *models.SessionRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	req.Status = models.SessionRequestPending
	req.CreatedAt = now
	req.UpdatedAt = now
	const query = `INSERT INTO session_requests
	(id, requester_id, partner_id, skill_to_learn, skill_to_teach, length_minutes, message, status, created_at, updated_at)
	VALUES (:id, :requester_id, :partner_id, :skill_to_learn, :skill_to_teach, :length_minutes, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create session request: %w", err)
	}
	return nil
}

// GetByID loads a request with both usernames.
func (r *SessionRequestRepository) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	query := sessionRequestSelect + ` WHERE sr.id = $1`
	var req models.SessionRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get session request: %w", err)
	}
	return &req, nil
}

// FindPending returns the pending request from requesterID to partnerID, if any.
func (r *SessionRequestRepository) FindPending(ctx context.Context, requesterID, partnerID string) (*models.SessionRequest, error) {
	query := sessionRequestSelect + ` WHERE sr.requester_id = $1 AND sr.partner_id = $2 AND sr.status = 'pending' LIMIT 1`
	var req models.SessionRequest
	if err := r.db.GetContext(ctx, &req, query, requesterID, partnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find pending session request: %w", err)
	}
	return &req, nil
}

// List returns requests visible to filter.UserID, newest first.
func (r *SessionRequestRepository) List(ctx context.Context, filter models.SessionRequestFilter) ([]models.SessionRequest, error) {
	args := []interface{}{filter.UserID}
	conditions := make([]string, 0, 2)
	switch filter.Box {
	case models.SessionRequestBoxSent:
		conditions = append(conditions, "sr.requester_id = $1")
	case models.SessionRequestBoxReceived:
		conditions = append(conditions, "sr.partner_id = $1")
	default:
		conditions = append(conditions, "(sr.requester_id = $1 OR sr.partner_id = $1)")
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("sr.status = $%d", len(args)))
	}
	query := sessionRequestSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY sr.created_at DESC LIMIT 200"

	var requests []models.SessionRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list session requests: %w", err)
	}
	return requests, nil
}

// TransitionPending moves a pending request to status. Zero rows affected,
// meaning the request already left pending, yields sql.ErrNoRows.
func (r *SessionRequestRepository) TransitionPending(ctx context.Context, id string, status models.SessionRequestStatus) error {
	query := fmt.Sprintf("UPDATE session_requests SET status = $2, updated_at = $3 WHERE id = $1 AND status = '%s'", models.SessionRequestPending)
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update session request status: %w", err)
	}
	return requireAffected(result)
}
