package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campusboard/board-api/internal/api/metrics"
	"github.com/campusboard/board-api/internal/core/domain"
)

// RequireRole admits only identities whose role is exactly role. It must run
// after Auth.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingCredential
			}
			if err := domain.Authorize(id, role); err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
				return err
			}
			return next(c)
		}
	}
}
