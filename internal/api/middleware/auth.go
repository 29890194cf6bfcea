package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/campusboard/board-api/internal/api/metrics"
	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the bearer token and injects the caller's identity into the
// context. Rejections are returned as domain errors for the HTTP error
// handler to render.
func Auth(tokens ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := tokens.ValidateHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
				return err
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// SetIdentity stores id on the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity injected by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
