package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/api/middleware"
	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// actor returns the authenticated user placed in the context by the Auth
// middleware. Its absence means the route was mounted without Auth.
func actor(c echo.Context) (*domain.User, error) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("request body must be valid JSON")
	}
	return c.Validate(req)
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// An empty value yields the zero time.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewValidationError(field + " must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
}

// parseOptionalDate is parseDate for update requests where nil means unchanged.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, domain.NewValidationError(field + " cannot be empty")
	}
	return &t, nil
}
