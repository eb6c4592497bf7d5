package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
	"github.com/AdityaXD007/LearnXchange/pkg/export"
)

type sessionLister interface {
	ListForUser(ctx context.Context, userID string, scope models.SessionScope, now time.Time) ([]models.LearningSession, error)
}

// ExportResult is a rendered file ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders a user's session history.
type ExportService struct {
	sessions sessionLister
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(sessions sessionLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{sessions: sessions, logger: logger, now: time.Now}
}

// Sessions renders every session userID took part in. An empty format means CSV.
func (s *ExportService) Sessions(ctx context.Context, userID, rawFormat string) (*ExportResult, error) {
	format, ok := export.ParseFormat(rawFormat)
	if !ok {
		return nil, appErrors.Field("format", "format must be csv or pdf")
	}

	now := s.now().UTC()
	sessions, err := s.sessions.ListForUser(ctx, userID, models.SessionScopeAll, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}

	data := export.Dataset{
		Title:   "Learning sessions",
		Headers: sessionExportHeaders,
		Rows:    make([]map[string]string, 0, len(sessions)),
	}
	for _, session := range sessions {
		data.Rows = append(data.Rows, sessionRow(session, userID))
	}

	payload, err := export.Render(format, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("sessions exported",
		zap.String("user_id", userID),
		zap.String("format", string(format)),
		zap.Int("rows", len(data.Rows)),
	)
	return &ExportResult{
		Filename:    fmt.Sprintf("sessions-%s.%s", now.Format("20060102"), format),
		ContentType: format.ContentType(),
		Payload:     payload,
	}, nil
}

var sessionExportHeaders = []string{"Date", "Skill", "Role", "Partner", "Status", "Duration", "Rating Given", "Rating Received"}

func sessionRow(session models.LearningSession, userID string) map[string]string {
	role, partner := "student", session.TeacherUsername
	given, received := session.RatingByStudent, session.RatingByTeacher
	if session.TeacherID == userID {
		role, partner = "teacher", session.StudentUsername
		given, received = session.RatingByTeacher, session.RatingByStudent
	}
	return map[string]string{
		"Date":            session.ScheduledTime.UTC().Format("2006-01-02 15:04"),
		"Skill":           session.SkillName,
		"Role":            role,
		"Partner":         partner,
		"Status":          strings.ReplaceAll(string(session.Status), "_", " "),
		"Duration":        strconv.Itoa(session.DurationMinutes) + " min",
		"Rating Given":    ratingCell(given),
		"Rating Received": ratingCell(received),
	}
}

func ratingCell(rating *int) string {
	if rating == nil {
		return ""
	}
	return strconv.Itoa(*rating)
}
