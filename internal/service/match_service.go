package service

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
	"github.com/AdityaXD007/LearnXchange/pkg/tracing"
)

type matchCandidateStore interface {
	ListCandidates(ctx context.Context, excludeUserID string) ([]models.Candidate, error)
}

type matchSkillStore interface {
	ListRecordsByUsers(ctx context.Context, userIDs []string) ([]models.SkillRecord, error)
}

// MatchService loads the candidate pool and ranks it for the caller.
type MatchService struct {
	candidates matchCandidateStore
	skills     matchSkillStore
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// NewMatchService constructs a MatchService.
func NewMatchService(candidates matchCandidateStore, skills matchSkillStore, metrics *MetricsService, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		candidates: candidates,
		skills:     skills,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Find returns ranked matches for userID. Reads are a point-in-time snapshot;
// concurrent inventory changes may or may not be visible.
func (s *MatchService) Find(ctx context.Context, userID string, query dto.MatchQuery) (*models.MatchPage, error) {
	filter, err := ParseMatchFilter(query)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.Tracer().Start(ctx, "MatchService.Find")
	defer span.End()
	span.SetAttributes(
		attribute.String("match.sort", string(filter.Sort)),
		attribute.Bool("match.filtered", filter.Search != "" || filter.Skill != "" || filter.Level != "" || filter.MinRating != nil),
	)
	start := time.Now()

	var (
		selfRecords []models.SkillRecord
		pool        []models.Candidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.skills.ListRecordsByUsers(gctx, []string{userID})
		selfRecords = records
		return err
	})
	g.Go(func() error {
		loadStart := time.Now()
		candidates, err := s.candidates.ListCandidates(gctx, userID)
		s.metrics.ObserveDBQuery("match_candidates", time.Since(loadStart))
		pool = candidates
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load match inputs")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match candidates")
	}

	if len(pool) > 0 {
		ids := make([]string, 0, len(pool))
		for _, c := range pool {
			ids = append(ids, c.UserID)
		}
		loadStart := time.Now()
		records, err := s.skills.ListRecordsByUsers(ctx, ids)
		s.metrics.ObserveDBQuery("match_candidate_skills", time.Since(loadStart))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load candidate skills")
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate skills")
		}
		byUser := make(map[string][]models.SkillRecord, len(pool))
		for _, rec := range records {
			byUser[rec.UserID] = append(byUser[rec.UserID], rec)
		}
		for i := range pool {
			pool[i].Skills = byUser[pool[i].UserID]
		}
	}

	self := models.Inventory{UserID: userID, Records: selfRecords}
	matches, stats := RankCandidates(self, pool, filter, s.now())

	span.SetAttributes(
		attribute.Int("match.pool_size", len(pool)),
		attribute.Int("match.results", stats.Total),
	)
	s.metrics.ObserveMatchQuery(stats.Total, time.Since(start))
	s.logger.Debug("match query ranked",
		zap.String("user_id", userID),
		zap.Int("pool", len(pool)),
		zap.Int("results", stats.Total),
	)

	return &models.MatchPage{
		Matches:  matches,
		Stats:    stats,
		Teaching: sortedNames(self.Names(models.SkillRoleTeaching)),
		Learning: sortedNames(self.Names(models.SkillRoleLearning)),
	}, nil
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
