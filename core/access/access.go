// Package access decides, for a navigation to a protected route, whether the
// current identity may see it or where it must be redirected instead.
package access

import (
	"strings"

	"github.com/stiedu/loggedin/core/session"
)

// Route surface
const (
	LoginRoute     = "/login"
	RegisterRoute  = "/register"
	DashboardRoute = "/dashboard"
	EventRoute     = "/events/:id"
	ProfileRoute   = "/profile"
	AdminRoute     = "/admin"
	AnalyticsRoute = "/admin/analytics"
)

// HomeRoute maps a role to its landing page.
func HomeRoute(role session.Role) string {
	if role == session.RoleAdmin {
		return AdminRoute
	}
	return DashboardRoute
}

type (
	// Decision is the outcome of an authorization check: render, or
	// redirect to Target.
	Decision struct {
		Allowed bool
		Target  string
	}

	// Rule binds a path pattern to the set of roles allowed to see it.
	// An empty role set means the route is public.
	Rule struct {
		Pattern string
		Roles   []session.Role
	}
)

func Allow() Decision                   { return Decision{Allowed: true} }
func RedirectTo(target string) Decision { return Decision{Target: target} }

// Rules is the static route authorization table, defined once and
// consulted per navigation.
var Rules = []Rule{
	{Pattern: LoginRoute},
	{Pattern: RegisterRoute},
	{Pattern: DashboardRoute, Roles: []session.Role{session.RoleStudent}},
	{Pattern: EventRoute, Roles: []session.Role{session.RoleStudent}},
	{Pattern: ProfileRoute, Roles: []session.Role{session.RoleStudent}},
	{Pattern: AnalyticsRoute, Roles: []session.Role{session.RoleAdmin}},
	{Pattern: AdminRoute, Roles: []session.Role{session.RoleAdmin}},
}

// Authorize is a pure check: no identity redirects to the login route,
// a role outside the required set redirects to that identity's own home
// route, anything else renders. Callers must re-evaluate on every
// navigation since the identity can change between renders.
func Authorize(ident *session.Identity, required ...session.Role) Decision {
	if len(required) == 0 {
		return Allow()
	}
	if ident == nil {
		return RedirectTo(LoginRoute)
	}
	for _, role := range required {
		if ident.Role == role {
			return Allow()
		}
	}
	return RedirectTo(HomeRoute(ident.Role))
}

// Match finds the rule for a navigation path. The bool reports whether the
// path is part of the route surface at all; unmatched paths are the
// caller's not-found view.
func Match(path string) (Rule, bool) {
	if path == "/" {
		return Rule{Pattern: "/"}, true
	}
	for _, rule := range Rules {
		if matchPattern(rule.Pattern, path) {
			return rule, true
		}
	}
	return Rule{}, false
}

func matchPattern(pattern, path string) bool {
	pp := strings.Split(strings.Trim(pattern, "/"), "/")
	sp := strings.Split(strings.Trim(path, "/"), "/")
	if len(pp) != len(sp) {
		return false
	}
	for i, seg := range pp {
		if strings.HasPrefix(seg, ":") {
			if sp[i] == "" {
				return false
			}
			continue
		}
		if seg != sp[i] {
			return false
		}
	}
	return true
}
