package notification

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/event"
)

var NowFunc = time.Now // mockable

const tickTimeout = 30 * time.Second

// EventSource is the slice of the remote data source the reminder scan needs.
type EventSource interface {
	Events(ctx context.Context) ([]event.Event, error)
}

// Scanner is the recurring background check generating event_reminder
// notifications while a student session is active. Start and Stop are
// explicit operations; the session wiring arms the scanner when a student
// session begins and cancels it when the session ends, so no timer
// outlives the session.
type Scanner struct {
	engine     *Engine
	src        EventSource
	interval   time.Duration
	windowDays int
	logger     core.Logger

	mu   sync.Mutex
	stop chan struct{}
}

func NewScanner(engine *Engine, src EventSource, interval time.Duration, windowDays int, logger core.Logger) *Scanner {
	return &Scanner{
		engine:     engine,
		src:        src,
		interval:   interval,
		windowDays: windowDays,
		logger:     logger,
	}
}

// Start arms the scan. Calling it on a running scanner is a no-op.
func (s *Scanner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	go s.run(s.stop)
}

// Stop cancels future ticks. An in-flight tick is not aborted; its posts
// are tolerable strays. Calling Stop on a stopped scanner is a no-op.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

func (s *Scanner) run(stop chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
			s.scan(ctx)
			cancel()
		}
	}
}

// scan posts a reminder for every known event in the reminder window.
// Ticks do not deduplicate against earlier ticks: a nearby event is
// re-announced every interval.
func (s *Scanner) scan(ctx context.Context) {
	events, err := s.src.Events(ctx)
	if err != nil {
		// skip silently; the next interval retries
		s.logger.Debug(fmt.Sprintf("reminder scan: %v", err))
		return
	}

	now := NowFunc()
	for _, ev := range events {
		days := daysUntil(now, ev.Date)
		if days <= 0 || days > s.windowDays {
			continue
		}
		s.engine.Post(
			KindEventReminder,
			"Event Reminder: "+ev.Title,
			fmt.Sprintf("Don't forget! %s is happening %s on %s",
				ev.Title, timePhrase(now, ev.Date, days), ev.Date.Format("January 2, 2006")),
			ev.ID,
		)
	}
}

func daysUntil(now, date time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// timePhrase renders the human distance to the event: "today" and
// "tomorrow" follow calendar days, everything further is "in N days".
func timePhrase(now, date time.Time, days int) string {
	ny, nm, nd := now.Date()
	ey, em, ed := date.Date()
	switch {
	case ny == ey && nm == em && nd == ed:
		return "today"
	case isSameDay(now.AddDate(0, 0, 1), date):
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

func isSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
