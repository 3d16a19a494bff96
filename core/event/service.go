package event

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("event not found")
)

// Service is the remote data source boundary supplying events, attendance
// and analytics. Every call is asynchronous from the caller's point of
// view: it may carry latency, fail with a core.TransportError, and must be
// abandoned when the originating ctx is torn down.
type Service interface {
	Events(ctx context.Context) ([]Event, error)
	Event(ctx context.Context, id string) (Event, error)
	Join(ctx context.Context, eventID, userID string) (JoinResult, error)
	Create(ctx context.Context, ne NewEvent) (Event, error)
	UserEvents(ctx context.Context, userID string) ([]JoinedEvent, error)
	Attendees(ctx context.Context, eventID string) ([]Attendee, error)
	Stats(ctx context.Context) (AdminStats, error)
	Analytics(ctx context.Context) (Analytics, error)
}
