package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaXD007/LearnXchange/internal/dto"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	return appErr.Field
}

func TestNewValidatorCustomTags(t *testing.T) {
	v := NewValidator()

	ok := dto.AddSkillRequest{SkillName: "Go", Role: "teaching", Proficiency: "expert", Status: "active"}
	require.NoError(t, v.Struct(ok))

	bad := ok
	bad.Role = "mentoring"
	err := validationError(v.Struct(bad))
	assert.Equal(t, "role", fieldOf(t, err))

	bad = ok
	bad.Proficiency = "guru"
	assert.Equal(t, "proficiency", fieldOf(t, validationError(v.Struct(bad))))

	bad = ok
	bad.Status = "archived"
	assert.Equal(t, "status", fieldOf(t, validationError(v.Struct(bad))))
}

func TestParseRating(t *testing.T) {
	for _, raw := range []string{`1`, `5`, `"3"`, ` 4 `} {
		v, err := parseRating(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.GreaterOrEqual(t, v, 1)
	}

	for _, raw := range []string{``, `null`, `0`, `6`, `4.5`, `"five"`, `true`, `-1`} {
		_, err := parseRating(json.RawMessage(raw))
		require.Error(t, err, raw)
		assert.Equal(t, "rating", fieldOf(t, err))
	}
}

func TestParsePositiveInt(t *testing.T) {
	v, err := parsePositiveInt(nil, "length_minutes")
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	v, err = parsePositiveInt(json.RawMessage(`"90"`), "length_minutes")
	require.NoError(t, err)
	assert.Equal(t, 90, v)

	for _, raw := range []string{`0`, `"abc"`, `1.5`} {
		_, err := parsePositiveInt(json.RawMessage(raw), "length_minutes")
		assert.Equal(t, "length_minutes", fieldOf(t, err), raw)
	}
}

func TestParseFutureTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	at, err := parseFutureTime("2026-03-02T09:30:00+02:00", "scheduled_time", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC), at)

	_, err = parseFutureTime("2026-03-01T12:00:00Z", "scheduled_time", now)
	assert.Equal(t, "scheduled_time", fieldOf(t, err))

	_, err = parseFutureTime("tomorrow", "scheduled_time", now)
	assert.Equal(t, "scheduled_time", fieldOf(t, err))
}
