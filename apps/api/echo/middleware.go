package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stiedu/loggedin/core/access"
	"github.com/stiedu/loggedin/core/session"
)

// requireRoles guards an API endpoint behind the access gate, resolving the
// identity from the request's token claims. API consumers get a plain 403;
// redirect targets are a page-navigation concern.
func requireRoles(roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			ident := claims.Identity()
			if d := access.Authorize(&ident, roles...); !d.Allowed {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func studentMiddleware() echo.MiddlewareFunc {
	return requireRoles(session.RoleStudent)
}

func adminMiddleware() echo.MiddlewareFunc {
	return requireRoles(session.RoleAdmin)
}
