package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userhive/account-api/internal/core/domain"
)

// Allow is the authorization decision for acting on a target account:
// admins may act on anyone, everyone else only on themselves.
func Allow(callerID int64, role string, targetID int64) bool {
	return role == domain.RoleAdmin || callerID == targetID
}

// RequireAdmin restricts a route to admin callers, with no self exception.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != domain.RoleAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// SelfOrAdmin guards routes carrying a numeric user id in the named path
// parameter. The id is parsed here so every guarded route rejects malformed
// ids the same way.
func SelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			targetID, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil || targetID <= 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
			}

			callerID, _ := c.Get("user_id").(int64)
			role, _ := c.Get("role").(string)
			if !Allow(callerID, role, targetID) {
				return domain.ErrForbidden
			}

			return next(c)
		}
	}
}
