package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// Require admits the request only when the authenticated user's role may
// perform op. It must run after Auth.
func Require(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !user.Role.Can(op) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
