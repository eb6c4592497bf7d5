package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

type profileReaderStub struct {
	profiles map[string]*models.Profile
	reviews  []models.Review
	limit    int
}

func (s *profileReaderStub) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := s.profiles[userID]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *profileReaderStub) RecentReviews(ctx context.Context, userID string, limit int) ([]models.Review, error) {
	s.limit = limit
	return s.reviews, nil
}

func TestProfileServiceView(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	active := now.Add(-10 * time.Minute)
	profiles := &profileReaderStub{
		profiles: map[string]*models.Profile{
			"bob-id": {UserID: "bob-id", Rating: 4.5, SessionCount: 3, LastActiveAt: &active},
		},
		reviews: []models.Review{{SessionID: "s1", Rating: 5, StudentUsername: "alice"}},
	}
	skills := newSkillStore()
	skills.records = []models.UserSkill{
		{ID: "1", SkillName: "Guitar", Role: models.SkillRoleTeaching},
		{ID: "2", SkillName: "Python", Role: models.SkillRoleLearning},
	}
	users := newUsers()
	users.users["bob"].FullName = "Bob Builder"

	svc := NewProfileService(users, profiles, skills, nil)
	svc.now = func() time.Time { return now }

	view, err := svc.View(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", view.Username)
	assert.Equal(t, "Bob Builder", view.Profile.FullName)
	assert.True(t, view.IsOnline)
	assert.Len(t, view.Teaching, 1)
	assert.Len(t, view.Learning, 1)
	assert.Len(t, view.Reviews, 1)
	assert.Equal(t, profileReviewLimit, profiles.limit)
}

func TestProfileServiceViewNotFound(t *testing.T) {
	profiles := &profileReaderStub{profiles: map[string]*models.Profile{}}
	svc := NewProfileService(newUsers(), profiles, newSkillStore(), nil)

	_, err := svc.View(context.Background(), "nobody")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	// user exists but has no profile
	_, err = svc.View(context.Background(), "alice")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
