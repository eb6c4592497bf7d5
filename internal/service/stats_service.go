package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
	"github.com/AdityaXD007/LearnXchange/pkg/jobs"
)

// StatsRebuildJob is the job type handled by StatsService.HandleJob.
const StatsRebuildJob = "profile_stats_rebuild"

type statsStore interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	RecomputeStats(ctx context.Context, userIDs ...string) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) (string, error)
}

// StatsService recomputes derived profile stats from session history.
type StatsService struct {
	store  statsStore
	queue  jobEnqueuer
	audit  auditWriter
	logger *zap.Logger
}

// NewStatsService constructs a StatsService.
func NewStatsService(store statsStore, audit auditWriter, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{store: store, audit: audit, logger: logger}
}

// UseQueue attaches the background queue used by Enqueue.
func (s *StatsService) UseQueue(q jobEnqueuer) {
	s.queue = q
}

// RebuildAll recomputes every profile, one user per statement. It keeps going
// past individual failures and returns how many profiles were refreshed.
func (s *StatsService) RebuildAll(ctx context.Context) (int, error) {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list profiles: %w", err)
	}

	start := time.Now()
	var (
		done int
		errs []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.store.RecomputeStats(ctx, id); err != nil {
			s.logger.Warn("profile stats recompute failed", zap.String("user_id", id), zap.Error(err))
			errs = append(errs, fmt.Errorf("user %s: %w", id, err))
			continue
		}
		done++
	}

	s.logger.Info("profile stats rebuilt",
		zap.Int("profiles", len(ids)),
		zap.Int("updated", done),
		zap.Int("failed", len(ids)-done),
		zap.Duration("elapsed", time.Since(start)),
	)
	return done, errors.Join(errs...)
}

// HandleJob is the jobs.Handler for StatsRebuildJob.
func (s *StatsService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != StatsRebuildJob {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	_, err := s.RebuildAll(ctx)
	return err
}

// Enqueue schedules a rebuild on the background queue.
func (s *StatsService) Enqueue(ctx context.Context, actorID string) (string, error) {
	if s.queue == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "background queue unavailable")
	}
	id, err := s.queue.Enqueue(jobs.Job{Type: StatsRebuildJob, Payload: actorID})
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			return "", appErrors.Clone(appErrors.ErrConflict, "a rebuild is already queued")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue rebuild")
	}

	if s.audit != nil {
		log := &models.AuditLog{
			UserID:     &actorID,
			Action:     models.AuditActionStatsRebuild,
			Resource:   models.AuditResourceProfile,
			ResourceID: &id,
			IPAddress:  "system",
			UserAgent:  "stats-service",
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to persist audit log", zap.Error(err))
		}
	}
	return id, nil
}
