package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const presenceClaimPrefix = "presence:throttle:"

type presenceWriter interface {
	TouchLastActive(ctx context.Context, userID string, at time.Time) error
}

type presenceThrottle interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ActivityService stamps last_active_at for authenticated users. Writes are
// throttled per user through a short-lived claim; failures never reach callers.
type ActivityService struct {
	profiles presenceWriter
	throttle presenceThrottle
	window   time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewActivityService constructs an ActivityService. throttle may be nil, in
// which case every touch writes.
func NewActivityService(profiles presenceWriter, throttle presenceThrottle, window time.Duration, metrics *MetricsService, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{profiles: profiles, throttle: throttle, window: window, metrics: metrics, logger: logger, now: time.Now}
}

// Touch records activity for userID and reports whether a write happened.
func (s *ActivityService) Touch(ctx context.Context, userID string) bool {
	if s == nil || userID == "" {
		return false
	}
	if s.throttle != nil && s.window > 0 {
		claimed, err := s.throttle.Claim(ctx, presenceClaimPrefix+userID, s.window)
		if err != nil {
			// write anyway
			s.logger.Warn("presence throttle unavailable", zap.String("user_id", userID), zap.Error(err))
		} else if !claimed {
			s.metrics.RecordPresence("throttled")
			return false
		}
	}

	if err := s.profiles.TouchLastActive(ctx, userID, s.now().UTC()); err != nil {
		s.metrics.RecordPresence("failed")
		s.logger.Warn("failed to record presence", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	s.metrics.RecordPresence("written")
	return true
}
