package notification

import (
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/session"
)

type (
	// Toaster delivers the ephemeral, auto-dismissing side effect of a
	// post. Delivery is fire-and-forget and never touches the mailbox.
	Toaster interface {
		Toast(n Notification)
	}

	// Markers is the durable storage for the one-time welcome gates.
	Markers interface {
		Marker(key string) (bool, error)
		SetMarker(key string) error
	}

	// Engine is the per-session mailbox of event-triggered messages,
	// newest first. It is scoped 1:1 to the active session; the wiring
	// clears it whenever the identity changes.
	Engine struct {
		markers      Markers
		logger       core.Logger
		welcomeDelay time.Duration

		// admin alerts are optionally forwarded by email
		emailSvc core.EmailService
		emailTo  mail.Address

		mu       sync.RWMutex
		mailbox  []Notification
		toasters []Toaster
	}
)

func NewEngine(markers Markers, logger core.Logger, welcomeDelay time.Duration) *Engine {
	return &Engine{markers: markers, logger: logger, welcomeDelay: welcomeDelay}
}

// AddToaster registers a delivery channel for post side effects.
func (e *Engine) AddToaster(t Toaster) {
	e.mu.Lock()
	e.toasters = append(e.toasters, t)
	e.mu.Unlock()
}

// ForwardAdminAlerts mirrors admin_alert posts to the given address.
func (e *Engine) ForwardAdminAlerts(svc core.EmailService, to mail.Address) {
	e.emailSvc = svc
	e.emailTo = to
}

// Post appends a new unread notification at the head of the mailbox and
// fires the toast side effect. An in-memory append cannot fail.
func (e *Engine) Post(kind Kind, title, body, eventID string) Notification {
	n := Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
		EventID:   eventID,
	}

	e.mu.Lock()
	e.mailbox = append([]Notification{n}, e.mailbox...)
	toasters := e.toasters
	e.mu.Unlock()

	for _, t := range toasters {
		go t.Toast(n)
	}
	if kind == KindAdminAlert && e.emailSvc != nil {
		e.emailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{e.emailTo},
			Subject: title,
			BodyStr: body,
		})
	}
	return n
}

// MarkRead transitions the notification with the given id to read.
// Marking an already-read or absent id is a no-op, not an error.
func (e *Engine) MarkRead(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.mailbox {
		if e.mailbox[i].ID == id {
			e.mailbox[i].Read = true
			return
		}
	}
}

// MarkAllRead transitions every unread notification to read. No partial
// state is observable: readers block until the whole pass is done.
func (e *Engine) MarkAllRead() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.mailbox {
		e.mailbox[i].Read = true
	}
}

// ClearAll empties the mailbox unconditionally.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	e.mailbox = nil
	e.mu.Unlock()
}

// UnreadCount is recomputed from the mailbox on every call, never cached.
func (e *Engine) UnreadCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var count int
	for _, n := range e.mailbox {
		if !n.Read {
			count++
		}
	}
	return count
}

// All returns a snapshot of the mailbox, newest first.
func (e *Engine) All() []Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Notification, len(e.mailbox))
	copy(out, e.mailbox)
	return out
}

// Welcome schedules the one-shot welcome notification shortly after a
// session begins. The durable per-role marker keeps it from repeating
// across reloads of the same identity.
func (e *Engine) Welcome(ident session.Identity) {
	time.AfterFunc(e.welcomeDelay, func() {
		marker := session.WelcomeMarker(ident.Role)
		shown, err := e.markers.Marker(marker)
		if err != nil {
			e.logger.Error(fmt.Sprintf("reading welcome marker: %v", err), err)
			return
		}
		if shown {
			return
		}

		body := fmt.Sprintf("Hello %s! Browse and join events to get started.", ident.Name)
		if ident.IsAdmin() {
			body = fmt.Sprintf("Hello %s! Create events and track attendance from here.", ident.Name)
		}
		e.Post(KindSystem, "Welcome to LoggedIn!", body, "")

		if err := e.markers.SetMarker(marker); err != nil {
			e.logger.Error(fmt.Sprintf("setting welcome marker: %v", err), err)
		}
	})
}
