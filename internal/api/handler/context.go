package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fromagerie-alioui/invoicing-api/internal/api/middleware"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// currentUser extracts the user resolved by the Auth middleware. Its absence
// on a protected route means the middleware chain is miswired; fail closed.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
