package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusboard/board-api/internal/api/middleware"
	"github.com/campusboard/board-api/internal/core/domain"
)

// actor returns the identity injected by the Auth middleware. Its absence
// means the route was registered without Auth, which is reported as a
// missing credential rather than trusted.
func actor(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingCredential
	}
	return id, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation(name + " must be a positive integer")
	}
	return id, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("invalid request body")
	}
	return c.Validate(req)
}
