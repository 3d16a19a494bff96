package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stiedu/loggedin/core/access"
	"github.com/stiedu/loggedin/core/session"
)

type sessionApi struct {
	deps Deps
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps Deps) {
	api := sessionApi{deps: deps}

	sg := g.Group("/session")

	// un-authed endpoints
	sg.POST("/login", api.login)
	sg.POST("/register", api.register)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.GET("", api.current)
	ag.POST("/logout", api.logout)
}

// Handlers

type (
	SessionResponse struct {
		User     session.Identity `json:"user"`
		Redirect string           `json:"redirect,omitempty"`
	}

	RedirectResponse struct {
		Redirect string `json:"redirect"`
	}
)

func (api *sessionApi) login(ctx echo.Context) error {
	var data session.LoginInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginInput")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ident, err := api.deps.Store.Login(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}

	return ctx.JSON(http.StatusOK, SessionResponse{
		User:     ident,
		Redirect: access.HomeRoute(ident.Role),
	})
}

func (api *sessionApi) register(ctx echo.Context) error {
	var data session.RegisterInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterInput")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ident, err := api.deps.Store.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering")
	}

	return ctx.JSON(http.StatusCreated, SessionResponse{
		User:     ident,
		Redirect: access.HomeRoute(ident.Role),
	})
}

func (api *sessionApi) current(ctx echo.Context) error {
	ident := api.deps.Store.Current()
	if ident == nil {
		return session.ErrNotAuthenticated
	}
	return ctx.JSON(http.StatusOK, SessionResponse{User: *ident})
}

// logout ends the session unconditionally; it cannot fail.
func (api *sessionApi) logout(ctx echo.Context) error {
	api.deps.Store.Logout()
	return ctx.JSON(http.StatusOK, RedirectResponse{Redirect: access.LoginRoute})
}
