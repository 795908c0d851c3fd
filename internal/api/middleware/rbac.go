package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brewbase/coffee-catalog/internal/api/metrics"
	"github.com/brewbase/coffee-catalog/internal/core/domain"
)

// RBAC is the admission gate: a coarse check that the actor's role is in the
// route's allowed set at all. Fine-grained ownership checks happen later, in
// the handlers, via domain.Authorize.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				metrics.AuthzDecisionsTotal.WithLabelValues("admission_denied").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
