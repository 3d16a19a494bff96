package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stiedu/loggedin/core/access"
	"github.com/stiedu/loggedin/core/session"
)

// pageApi serves the navigable route surface. Every protected page consults
// the access gate against the live session store on each render; decisions
// are never cached because the identity can change between navigations.
type pageApi struct {
	deps Deps
}

func registerPages(app *echo.Echo, deps Deps) {
	api := pageApi{deps: deps}

	app.GET("/", func(ctx echo.Context) error {
		return ctx.Redirect(http.StatusFound, access.LoginRoute)
	})
	app.GET(access.LoginRoute, api.loginPage)
	app.GET(access.RegisterRoute, api.registerPage)

	app.GET(access.DashboardRoute, api.gate(api.dashboard, session.RoleStudent))
	app.GET(access.EventRoute, api.gate(api.eventDetail, session.RoleStudent))
	app.GET(access.ProfileRoute, api.gate(api.profile, session.RoleStudent))
	app.GET(access.AdminRoute, api.gate(api.adminDashboard, session.RoleAdmin))
	app.GET(access.AnalyticsRoute, api.gate(api.adminAnalytics, session.RoleAdmin))

	app.GET("/*", api.notFound)
}

// gate wraps a page handler with the access decision for the given roles.
func (api *pageApi) gate(next echo.HandlerFunc, roles ...session.Role) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if d := access.Authorize(api.deps.Store.Current(), roles...); !d.Allowed {
			return ctx.Redirect(http.StatusFound, d.Target)
		}
		return next(ctx)
	}
}

// Handlers

func (api *pageApi) loginPage(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"page": "login"})
}

func (api *pageApi) registerPage(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"page": "register", "roles": session.AllRoles})
}

func (api *pageApi) dashboard(ctx echo.Context) error {
	// re-read the session; it can end between the gate and the render
	ident := api.deps.Store.Current()
	if ident == nil {
		return ctx.Redirect(http.StatusFound, access.LoginRoute)
	}
	events, err := api.deps.EventSvc.Events(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching events")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"page":   "dashboard",
		"user":   ident,
		"events": events,
		"unread": api.deps.Engine.UnreadCount(),
	})
}

func (api *pageApi) eventDetail(ctx echo.Context) error {
	ev, err := api.deps.EventSvc.Event(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching event")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"page": "event", "event": ev})
}

func (api *pageApi) profile(ctx echo.Context) error {
	ident := api.deps.Store.Current()
	if ident == nil {
		return ctx.Redirect(http.StatusFound, access.LoginRoute)
	}
	joined, err := api.deps.EventSvc.UserEvents(ctx.Request().Context(), ident.ID)
	if err != nil {
		return errors.Wrap(err, "fetching user events")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"page":   "profile",
		"user":   ident,
		"events": joined,
	})
}

func (api *pageApi) adminDashboard(ctx echo.Context) error {
	ident := api.deps.Store.Current()
	if ident == nil {
		return ctx.Redirect(http.StatusFound, access.LoginRoute)
	}
	stats, err := api.deps.EventSvc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching admin stats")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"page":  "admin",
		"user":  ident,
		"stats": stats,
	})
}

func (api *pageApi) adminAnalytics(ctx echo.Context) error {
	analytics, err := api.deps.EventSvc.Analytics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching analytics")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"page": "analytics", "data": analytics})
}

func (api *pageApi) notFound(ctx echo.Context) error {
	return ctx.JSON(http.StatusNotFound, echo.Map{"page": "not-found"})
}
