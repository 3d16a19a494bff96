package mockapi

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/event"
)

func newAPI(t *testing.T) *API {
	t.Helper()
	return New(core.NewTestConfig())
}

func TestAPIEvents(t *testing.T) {
	api := newAPI(t)
	ctx := context.Background()

	events, err := api.Events(ctx)
	if err != nil {
		t.Fatalf("Events(): %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("len(Events()) = %d; want 4", len(events))
	}
	for _, ev := range events {
		if ev.Organizer != "" {
			t.Errorf("event %s carries organizer %q in the list view", ev.ID, ev.Organizer)
		}
	}

	t.Run("detail view carries the organizer", func(t *testing.T) {
		ev, err := api.Event(ctx, "1")
		if err != nil {
			t.Fatalf("Event(): %v", err)
		}
		if ev.Title != "Tech Workshop" || ev.Organizer != "IT Department" {
			t.Errorf("Event(1) = %q by %q; want Tech Workshop by IT Department", ev.Title, ev.Organizer)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := api.Event(ctx, "999"); err != event.ErrNotFound {
			t.Errorf("Event(999) err = %v; want ErrNotFound", err)
		}
	})
}

func TestAPIJoin(t *testing.T) {
	api := newAPI(t)
	ctx := context.Background()

	before, err := api.Event(ctx, "1")
	if err != nil {
		t.Fatalf("Event(): %v", err)
	}

	res, err := api.Join(ctx, "1", "42")
	if err != nil {
		t.Fatalf("Join(): %v", err)
	}
	if !strings.HasPrefix(res.CheckinToken, "42-1-") {
		t.Errorf("CheckinToken = %q; want the 42-1- prefix", res.CheckinToken)
	}

	after, err := api.Event(ctx, "1")
	if err != nil {
		t.Fatalf("Event(): %v", err)
	}
	if after.Registered != before.Registered+1 {
		t.Errorf("Registered = %d; want %d", after.Registered, before.Registered+1)
	}

	t.Run("unknown event", func(t *testing.T) {
		if _, err := api.Join(ctx, "999", "42"); err != event.ErrNotFound {
			t.Errorf("Join(999) err = %v; want ErrNotFound", err)
		}
	})
}

func TestAPICreate(t *testing.T) {
	api := newAPI(t)
	ctx := context.Background()

	ev, err := api.Create(ctx, event.NewEvent{
		Title:       "Hackathon",
		Description: "24 hours of building.",
		Date:        time.Now().AddDate(0, 0, 10),
		Location:    "STI Main Campus - Computer Lab",
		Capacity:    40,
		Organizer:   "Computer Science Club",
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if ev.ID == "" {
		t.Error("created event has no id")
	}

	events, err := api.Events(ctx)
	if err != nil {
		t.Fatalf("Events(): %v", err)
	}
	if len(events) != 5 {
		t.Errorf("len(Events()) = %d; want 5", len(events))
	}
}

func TestAPIUserEvents(t *testing.T) {
	api := newAPI(t)

	joined, err := api.UserEvents(context.Background(), "42")
	if err != nil {
		t.Fatalf("UserEvents(): %v", err)
	}
	if len(joined) != 2 {
		t.Fatalf("len(UserEvents()) = %d; want 2", len(joined))
	}
	for _, je := range joined {
		if !strings.HasPrefix(je.CheckinToken, "42-") {
			t.Errorf("CheckinToken = %q; want the caller's 42- prefix", je.CheckinToken)
		}
		if je.JoinedAt.After(time.Now()) {
			t.Errorf("JoinedAt = %v; want a past time", je.JoinedAt)
		}
	}
}

func TestAPIAttendees(t *testing.T) {
	api := newAPI(t)
	ctx := context.Background()

	attendees, err := api.Attendees(ctx, "1")
	if err != nil {
		t.Fatalf("Attendees(): %v", err)
	}
	if len(attendees) != 5 {
		t.Errorf("len(Attendees()) = %d; want 5", len(attendees))
	}
	for _, a := range attendees {
		if !core.StudentIDRegex.MatchString(a.StudentID) {
			t.Errorf("StudentID = %q; want STI-xxxxx", a.StudentID)
		}
	}

	t.Run("unknown event", func(t *testing.T) {
		if _, err := api.Attendees(ctx, "999"); err != event.ErrNotFound {
			t.Errorf("Attendees(999) err = %v; want ErrNotFound", err)
		}
	})
}

func TestAPIStatsAndAnalytics(t *testing.T) {
	api := newAPI(t)
	ctx := context.Background()

	stats, err := api.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats(): %v", err)
	}
	if stats.TotalEvents != 4 || stats.UpcomingEvents != 4 {
		t.Errorf("Stats() = %d total, %d upcoming; want 4 and 4", stats.TotalEvents, stats.UpcomingEvents)
	}
	if len(stats.RecentJoins) == 0 {
		t.Error("Stats() has no recent joins")
	}

	analytics, err := api.Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics(): %v", err)
	}
	if len(analytics.AttendanceTrends) != 7 {
		t.Errorf("len(AttendanceTrends) = %d; want 7", len(analytics.AttendanceTrends))
	}
	if len(analytics.DailyEngagement) != 7 {
		t.Errorf("len(DailyEngagement) = %d; want 7", len(analytics.DailyEngagement))
	}
	if len(analytics.PopularTimes) != 12 {
		t.Errorf("len(PopularTimes) = %d; want 12", len(analytics.PopularTimes))
	}
}

func TestAPIAbandonedCall(t *testing.T) {
	conf := core.NewTestConfig()
	conf.MockAPI.MinLatency = 200 * time.Millisecond
	conf.MockAPI.MaxLatency = 200 * time.Millisecond
	api := New(conf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.Events(ctx)
	if !core.IsTransportError(err) {
		t.Errorf("Events() err = %v; want TransportError", err)
	}
}
