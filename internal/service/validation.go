package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
)

// NewValidator returns a validator with the domain enum tags registered and
// field names reported by their JSON keys.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("skill_role", func(fl validator.FieldLevel) bool {
		return models.SkillRole(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("proficiency", func(fl validator.FieldLevel) bool {
		return models.Proficiency(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("skill_status", func(fl validator.FieldLevel) bool {
		return models.SkillStatus(fl.Field().String()).Valid()
	})
	return v
}

// validationError maps the first failing field to a VALIDATION_ERROR.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	fe := fieldErrs[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return appErrors.Field(field, msg)
}

// rawNumber extracts the literal text of a JSON number or numeric string.
func rawNumber(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", true
		}
		return strings.TrimSpace(s), true
	}
	return string(trimmed), true
}

// parseRating accepts an integer in [1,5], given as a JSON number or string.
func parseRating(raw json.RawMessage) (int, error) {
	text, present := rawNumber(raw)
	if !present {
		return 0, appErrors.Field("rating", "rating is required")
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, appErrors.Field("rating", "rating must be a whole number")
	}
	if v < 1 || v > 5 {
		return 0, appErrors.Field("rating", "rating must be between 1 and 5")
	}
	return v, nil
}

// parsePositiveInt accepts an integer >= 1. Absent input returns 0 and no error.
func parsePositiveInt(raw json.RawMessage, field string) (int, error) {
	text, present := rawNumber(raw)
	if !present {
		return 0, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil || v < 1 {
		return 0, appErrors.Field(field, field+" must be a positive whole number")
	}
	return v, nil
}

// parseFutureTime requires an RFC3339 timestamp strictly after now.
func parseFutureTime(raw, field string, now time.Time) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, appErrors.Field(field, field+" must be an RFC3339 timestamp")
	}
	if !t.After(now) {
		return time.Time{}, appErrors.Field(field, field+" must be in the future")
	}
	return t.UTC(), nil
}
