package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

const profileReviewLimit = 5

type profileReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	RecentReviews(ctx context.Context, userID string, limit int) ([]models.Review, error)
}

type userSkillLister interface {
	ListUserSkills(ctx context.Context, userID string) ([]models.UserSkill, error)
}

// ProfileService assembles the public profile page.
type ProfileService struct {
	users    userLookup
	profiles profileReader
	skills   userSkillLister
	logger   *zap.Logger
	now      func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(users userLookup, profiles profileReader, skills userSkillLister, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{users: users, profiles: profiles, skills: skills, logger: logger, now: time.Now}
}

// View returns the profile of username with its inventory and recent reviews.
func (s *ProfileService) View(ctx context.Context, username string) (*models.ProfileView, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	records, err := s.skills.ListUserSkills(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load skills")
	}
	reviews, err := s.profiles.RecentReviews(ctx, user.ID, profileReviewLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviews")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	if profile.FullName == "" {
		profile.FullName = user.FullName
	}

	inv := splitByRole(records)
	return &models.ProfileView{
		Username: user.Username,
		Profile:  *profile,
		IsOnline: IsOnline(profile.LastActiveAt, s.now()),
		Teaching: inv.Teaching,
		Learning: inv.Learning,
		Reviews:  reviews,
	}, nil
}
