package echoapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/stiedu/loggedin/core/notification"
)

type notificationApi struct {
	deps Deps
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps Deps) {
	api := notificationApi{deps: deps}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.list)
	ng.GET("/unread-count", api.unreadCount)
	ng.POST("/:id/read", api.markRead)
	ng.POST("/read-all", api.markAllRead)
	ng.DELETE("", api.clearAll)

	// the toast stream carries no mailbox state; a dropped socket loses
	// only ephemeral toasts
	g.GET("/ws/toasts", api.toastStream)
}

// Handlers

type UnreadCountResponse struct {
	Count int `json:"count"`
}

func (api *notificationApi) list(ctx echo.Context) error {
	mailbox := api.deps.Engine.All()
	if mailbox == nil {
		mailbox = []notification.Notification{}
	}
	return ctx.JSON(http.StatusOK, mailbox)
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, UnreadCountResponse{Count: api.deps.Engine.UnreadCount()})
}

// markRead is idempotent; an unknown id is a no-op, not an error.
func (api *notificationApi) markRead(ctx echo.Context) error {
	api.deps.Engine.MarkRead(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	api.deps.Engine.MarkAllRead()
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) clearAll(ctx echo.Context) error {
	api.deps.Engine.ClearAll()
	return ctx.NoContent(http.StatusNoContent)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (api *notificationApi) toastStream(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}
	api.deps.Hub.Register(conn)

	// reads are discarded; the loop only detects the client going away
	go func() {
		defer api.deps.Hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				api.deps.Logger.Debug(fmt.Sprintf("toast stream closed: %v", err))
				return
			}
		}
	}()
	return nil
}
