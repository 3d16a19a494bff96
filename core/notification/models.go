package notification

import "time"

// Kinds
type Kind string

const (
	KindEventReminder Kind = "event_reminder"
	KindAdminAlert    Kind = "admin_alert"
	KindSystem        Kind = "system"
)

// Notification is one entry of the session mailbox. Its only mutation is
// the unread→read transition; entries leave the mailbox only by bulk clear.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
	EventID   string    `json:"event_id,omitempty"`
}
