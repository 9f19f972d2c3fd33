package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxCaller extracts the claims injected by the Auth middleware. A non-empty
// role and a positive id prove the middleware ran; anything else means the
// route was wired without it.
func ctxCaller(c echo.Context) (callerID int64, role string, err error) {
	callerID, _ = c.Get("user_id").(int64)
	role, _ = c.Get("role").(string)
	if callerID <= 0 || role == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return callerID, role, nil
}
