package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// actorUsername extracts the authenticated username injected by the Auth
// middleware. An empty value means the middleware did not run (or the token
// carried no identity); fail fast with 401 before touching any service.
func actorUsername(c echo.Context) (string, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}
