// Package toastsvc delivers the ephemeral toast side effect of a
// notification post: a console printer for development and a websocket hub
// broadcasting to connected browsers. Toasts are fire-and-forget; a lost
// toast never affects the mailbox.
package toastsvc

import (
	"fmt"
	"log"

	"github.com/stiedu/loggedin/core/notification"
)

// icon maps a notification kind to the glyph shown on its toast.
func icon(kind notification.Kind) string {
	switch kind {
	case notification.KindEventReminder:
		return "🔔"
	case notification.KindAdminAlert:
		return "👤"
	default:
		return "ℹ️"
	}
}

type consoleToaster struct {
	std *log.Logger
}

var _ notification.Toaster = (*consoleToaster)(nil)

func NewConsoleToaster(std *log.Logger) notification.Toaster {
	return &consoleToaster{std: std}
}

func (t consoleToaster) Toast(n notification.Notification) {
	t.std.Println(fmt.Sprintf("%s %s: %s", icon(n.Kind), n.Title, n.Body))
}
