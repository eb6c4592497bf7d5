package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	"github.com/AdityaXD007/LearnXchange/pkg/database"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

const defaultSessionLength = 60

type sessionRequestStore interface {
	Create(ctx context.Context, req *models.SessionRequest) error
	GetByID(ctx context.Context, id string) (*models.SessionRequest, error)
	FindPending(ctx context.Context, requesterID, partnerID string) (*models.SessionRequest, error)
	List(ctx context.Context, filter models.SessionRequestFilter) ([]models.SessionRequest, error)
	TransitionPending(ctx context.Context, id string, status models.SessionRequestStatus) error
}

type userLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SessionRequestService drives the pending -> accepted|declined|cancelled workflow.
type SessionRequestService struct {
	repo      sessionRequestStore
	users     userLookup
	audit     auditWriter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionRequestService constructs the service.
func NewSessionRequestService(repo sessionRequestStore, users userLookup, audit auditWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SessionRequestService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRequestService{repo: repo, users: users, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// Create proposes a session from requesterID to the named partner. An existing
// pending request in the same direction is returned together with a DUPLICATE error.
func (s *SessionRequestService) Create(ctx context.Context, requesterID string, req dto.CreateSessionRequest) (*models.SessionRequest, error) {
	req.PartnerUsername = strings.TrimSpace(req.PartnerUsername)
	req.SkillToLearn = strings.TrimSpace(req.SkillToLearn)
	req.SkillToTeach = strings.TrimSpace(req.SkillToTeach)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	length, err := parsePositiveInt(req.LengthMinutes, "length_minutes")
	if err != nil {
		return nil, err
	}
	if length == 0 {
		length = defaultSessionLength
	}

	partner, err := s.users.FindByUsername(ctx, req.PartnerUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load partner")
	}
	if partner.ID == requesterID {
		return nil, appErrors.Field("partner_username", "cannot request a session with yourself")
	}

	existing, err := s.repo.FindPending(ctx, requesterID, partner.ID)
	switch {
	case err == nil:
		s.metrics.RecordRequestTransition("create", "duplicate")
		return existing, appErrors.Clone(appErrors.ErrDuplicate, "you already have a pending request with this user")
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check pending requests")
	}

	request := &models.SessionRequest{
		RequesterID:     requesterID,
		PartnerID:       partner.ID,
		PartnerUsername: partner.Username,
		SkillToLearn:    req.SkillToLearn,
		SkillToTeach:    req.SkillToTeach,
		LengthMinutes:   length,
		Message:         strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, request); err != nil {
		if database.IsUniqueViolation(err) {
			s.metrics.RecordRequestTransition("create", "duplicate")
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "you already have a pending request with this user")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session request")
	}

	s.metrics.RecordRequestTransition("create", "ok")
	s.emitAudit(ctx, requesterID, models.AuditActionSessionRequestCreate, request.ID)
	return request, nil
}

// Respond lets the partner accept or decline a pending request.
func (s *SessionRequestService) Respond(ctx context.Context, id, actorID string, req dto.RespondSessionRequest) (*models.SessionRequest, error) {
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	target, action := models.SessionRequestAccepted, models.AuditActionSessionRequestAccept
	if req.Action == "decline" {
		target, action = models.SessionRequestDeclined, models.AuditActionSessionRequestDecline
	}
	return s.transition(ctx, id, actorID, req.Action, target, action, func(r *models.SessionRequest) bool {
		return r.PartnerID == actorID
	})
}

// Cancel lets the requester withdraw a pending request.
func (s *SessionRequestService) Cancel(ctx context.Context, id, actorID string) (*models.SessionRequest, error) {
	return s.transition(ctx, id, actorID, "cancel", models.SessionRequestCancelled, models.AuditActionSessionRequestCancel, func(r *models.SessionRequest) bool {
		return r.RequesterID == actorID
	})
}

func (s *SessionRequestService) transition(ctx context.Context, id, actorID, label string, target models.SessionRequestStatus, action string, allowed func(*models.SessionRequest) bool) (*models.SessionRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session request")
	}
	if !allowed(request) {
		s.metrics.RecordRequestTransition(label, "forbidden")
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you cannot "+label+" this request")
	}
	if request.Status != models.SessionRequestPending {
		s.metrics.RecordRequestTransition(label, "stale")
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session request is no longer available")
	}

	if err := s.repo.TransitionPending(ctx, id, target); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordRequestTransition(label, "stale")
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "session request is no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session request")
	}

	request.Status = target
	s.metrics.RecordRequestTransition(label, "ok")
	s.emitAudit(ctx, actorID, action, request.ID)
	return request, nil
}

// List returns the actor's requests, newest first.
func (s *SessionRequestService) List(ctx context.Context, actorID string, query dto.SessionRequestQuery) ([]models.SessionRequest, error) {
	filter := models.SessionRequestFilter{UserID: actorID, Box: models.SessionRequestBoxAll}
	switch box := models.SessionRequestBox(strings.ToLower(strings.TrimSpace(query.Box))); box {
	case "":
	case models.SessionRequestBoxSent, models.SessionRequestBoxReceived, models.SessionRequestBoxAll:
		filter.Box = box
	default:
		return nil, appErrors.Field("box", "box must be one of sent, received, all")
	}
	if raw := strings.ToLower(strings.TrimSpace(query.Status)); raw != "" {
		status := models.SessionRequestStatus(raw)
		if !status.Valid() {
			return nil, appErrors.Field("status", "status must be one of pending, accepted, declined, cancelled")
		}
		filter.Status = status
	}

	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session requests")
	}
	return requests, nil
}

func (s *SessionRequestService) emitAudit(ctx context.Context, actorID, action, resourceID string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   models.AuditResourceSessionRequest,
		ResourceID: &resourceID,
		IPAddress:  "system",
		UserAgent:  "session-request-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.String("action", action), zap.Error(err))
	}
}
