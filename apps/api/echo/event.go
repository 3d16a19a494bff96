package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stiedu/loggedin/core/event"
	"github.com/stiedu/loggedin/core/notification"
)

type eventApi struct {
	deps Deps
}

func registerEventAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps Deps) {
	api := eventApi{deps: deps}

	eg := g.Group("/events", jwt)
	eg.GET("", api.list)
	eg.POST("", api.create, adminMiddleware())
	eg.GET("/:id", api.retrieve)
	eg.POST("/:id/join", api.join, studentMiddleware())
	eg.GET("/:id/attendees", api.attendees, adminMiddleware())

	g.GET("/me/events", api.userEvents, jwt, studentMiddleware())

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.GET("/stats", api.stats)
	ag.GET("/analytics", api.analytics)
}

// Handlers

func (api *eventApi) list(ctx echo.Context) error {
	events, err := api.deps.EventSvc.Events(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	ev, err := api.deps.EventSvc.Event(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching event")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *eventApi) join(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ev, err := api.deps.EventSvc.Event(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching event")
	}

	res, err := api.deps.EventSvc.Join(ctx.Request().Context(), ev.ID, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "joining event")
	}

	api.deps.Engine.Post(
		notification.KindSystem,
		"You're in!",
		fmt.Sprintf("Successfully joined %s. Your check-in code is ready.", ev.Title),
		ev.ID,
	)
	return ctx.JSON(http.StatusOK, res)
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ev, err := api.deps.EventSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}

	api.deps.Engine.Post(
		notification.KindAdminAlert,
		"New Event Created",
		fmt.Sprintf("Event %q has been created successfully.", ev.Title),
		ev.ID,
	)
	return ctx.JSON(http.StatusCreated, ev)
}

func (api *eventApi) userEvents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	joined, err := api.deps.EventSvc.UserEvents(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "fetching user events")
	}
	if joined == nil {
		joined = []event.JoinedEvent{}
	}
	return ctx.JSON(http.StatusOK, joined)
}

func (api *eventApi) attendees(ctx echo.Context) error {
	attendees, err := api.deps.EventSvc.Attendees(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "fetching attendees")
	}
	if attendees == nil {
		attendees = []event.Attendee{}
	}
	return ctx.JSON(http.StatusOK, attendees)
}

func (api *eventApi) stats(ctx echo.Context) error {
	stats, err := api.deps.EventSvc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching admin stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *eventApi) analytics(ctx echo.Context) error {
	analytics, err := api.deps.EventSvc.Analytics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching analytics")
	}
	return ctx.JSON(http.StatusOK, analytics)
}
