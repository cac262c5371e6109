package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

const userContextKey = "user"

// Auth resolves the session token to a live user and stores it in the echo
// context. The token is read from the session cookie, falling back to an
// Authorization: Bearer header for non-browser clients.
func Auth(authService ports.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c, cookieName)
			if token == "" {
				return domain.ErrUnauthenticated
			}

			user, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SetUser attaches the authenticated user to c.
func SetUser(c echo.Context, user *domain.User) {
	c.Set(userContextKey, user)
}

// UserFrom returns the user stored by Auth, if any.
func UserFrom(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok && user != nil
}
