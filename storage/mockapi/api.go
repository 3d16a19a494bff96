// Package mockapi is the in-memory stand-in for the remote data source and
// identity boundary. Every call sleeps an artificial latency and honors the
// caller's context, so responses for torn-down callers are abandoned rather
// than applied.
package mockapi

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/event"
)

type API struct {
	conf *core.Config

	mu     sync.RWMutex
	events []event.Event
}

var _ event.Service = (*API)(nil)

func New(conf *core.Config) *API {
	return &API{conf: conf, events: seedEvents(time.Now())}
}

// latency simulates the transport delay of a remote call. It returns a
// TransportError when ctx is torn down before the response would arrive.
func (a *API) latency(ctx context.Context, op string) error {
	d := a.conf.MockAPI.MinLatency
	if jitter := a.conf.MockAPI.MaxLatency - d; jitter > 0 {
		d += time.Duration(rand.Int63n(int64(jitter)))
	}
	select {
	case <-ctx.Done():
		return core.NewTransportError(op, ctx.Err())
	case <-time.After(d):
		return nil
	}
}

func (a *API) Events(ctx context.Context) ([]event.Event, error) {
	if err := a.latency(ctx, "fetching events"); err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]event.Event, len(a.events))
	copy(out, a.events)
	for i := range out {
		out[i].Organizer = "" // list views omit the organizer
	}
	return out, nil
}

func (a *API) Event(ctx context.Context, id string) (event.Event, error) {
	if err := a.latency(ctx, "fetching event"); err != nil {
		return event.Event{}, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, ev := range a.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return event.Event{}, event.ErrNotFound
}

func (a *API) Join(ctx context.Context, eventID, userID string) (event.JoinResult, error) {
	if err := a.latency(ctx, "joining event"); err != nil {
		return event.JoinResult{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.events {
		if a.events[i].ID == eventID {
			a.events[i].Registered++
			return event.JoinResult{
				CheckinToken: fmt.Sprintf("%s-%s-%d", userID, eventID, time.Now().UnixMilli()),
			}, nil
		}
	}
	return event.JoinResult{}, event.ErrNotFound
}

func (a *API) Create(ctx context.Context, ne event.NewEvent) (event.Event, error) {
	if err := a.latency(ctx, "creating event"); err != nil {
		return event.Event{}, err
	}
	ev := event.Event{
		ID:          uuid.New().String(),
		Title:       ne.Title,
		Description: ne.Description,
		Date:        ne.Date,
		Location:    ne.Location,
		Capacity:    ne.Capacity,
		Image:       ne.Image,
		Organizer:   ne.Organizer,
	}
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
	return ev, nil
}

func (a *API) UserEvents(ctx context.Context, userID string) ([]event.JoinedEvent, error) {
	if err := a.latency(ctx, "fetching user events"); err != nil {
		return nil, err
	}
	now := time.Now()
	a.mu.RLock()
	defer a.mu.RUnlock()
	joined := make([]event.JoinedEvent, 0, 2)
	for i, offset := range []time.Duration{-48 * time.Hour, -24 * time.Hour} {
		idx := i * 2 // canned roster: first and third seed events
		if idx >= len(a.events) {
			break
		}
		ev := a.events[idx]
		joined = append(joined, event.JoinedEvent{
			ID:           ev.ID,
			Title:        ev.Title,
			Date:         ev.Date,
			Location:     ev.Location,
			CheckinToken: fmt.Sprintf("%s-%s-%d", userID, ev.ID, now.Add(offset).UnixMilli()),
			JoinedAt:     now.Add(offset),
		})
	}
	return joined, nil
}

func (a *API) Attendees(ctx context.Context, eventID string) ([]event.Attendee, error) {
	if err := a.latency(ctx, "fetching attendees"); err != nil {
		return nil, err
	}
	a.mu.RLock()
	known := false
	for _, ev := range a.events {
		if ev.ID == eventID {
			known = true
			break
		}
	}
	a.mu.RUnlock()
	if !known {
		return nil, event.ErrNotFound
	}

	now := time.Now()
	return []event.Attendee{
		{ID: "101", Name: "John Doe", StudentID: "STI-12345", JoinedAt: now.Add(-48 * time.Hour), Status: event.StatusAttended},
		{ID: "102", Name: "Jane Smith", StudentID: "STI-23456", JoinedAt: now.Add(-24 * time.Hour), Status: event.StatusAttended},
		{ID: "103", Name: "Mike Johnson", StudentID: "STI-34567", JoinedAt: now.Add(-12 * time.Hour), Status: event.StatusJoined},
		{ID: "104", Name: "Sarah Williams", StudentID: "STI-45678", JoinedAt: now.Add(-6 * time.Hour), Status: event.StatusAbsent},
		{ID: "105", Name: "Chris Davis", StudentID: "STI-56789", JoinedAt: now.Add(-time.Hour), Status: event.StatusJoined},
	}, nil
}

func (a *API) Stats(ctx context.Context) (event.AdminStats, error) {
	if err := a.latency(ctx, "fetching admin stats"); err != nil {
		return event.AdminStats{}, err
	}
	now := time.Now()
	a.mu.RLock()
	total := len(a.events)
	var upcoming int
	for _, ev := range a.events {
		if ev.Date.After(now) {
			upcoming++
		}
	}
	a.mu.RUnlock()

	return event.AdminStats{
		TotalStudents:   256,
		TotalEvents:     total,
		UpcomingEvents:  upcoming,
		TotalAttendance: 478,
		RecentJoins: []event.RecentJoin{
			{StudentName: "John Doe", EventTitle: "Tech Workshop", Time: now.Add(-30 * time.Minute)},
			{StudentName: "Jane Smith", EventTitle: "Career Fair", Time: now.Add(-time.Hour)},
			{StudentName: "Mike Johnson", EventTitle: "Programming Contest", Time: now.Add(-2 * time.Hour)},
		},
	}, nil
}

func (a *API) Analytics(ctx context.Context) (event.Analytics, error) {
	if err := a.latency(ctx, "fetching analytics"); err != nil {
		return event.Analytics{}, err
	}
	now := time.Now()

	trends := make([]event.TrendPoint, 7)
	for i := range trends {
		trends[i] = event.TrendPoint{
			Date:       now.AddDate(0, 0, i-6),
			Attendance: 30 + rand.Intn(50),
		}
	}

	popular := make([]event.HourAttendance, 12)
	for i := range popular {
		popular[i] = event.HourAttendance{
			Hour:       fmt.Sprintf("%d:00", i+8),
			Attendance: 10 + rand.Intn(40),
		}
	}

	return event.Analytics{
		Overview: event.AnalyticsOverview{
			TotalStudents:   256,
			ActiveEvents:    12,
			TotalCheckins:   478,
			AvgResponseTime: 5,
		},
		AttendanceTrends: trends,
		EventCategories: []event.CategoryShare{
			{Name: "Tech Workshops", Value: 35},
			{Name: "Career Events", Value: 25},
			{Name: "Social Gatherings", Value: 20},
			{Name: "Academic Seminars", Value: 20},
		},
		DailyEngagement: []event.DayEngagement{
			{Day: "Mon", Joins: 45, Checkins: 40},
			{Day: "Tue", Joins: 52, Checkins: 48},
			{Day: "Wed", Joins: 38, Checkins: 35},
			{Day: "Thu", Joins: 65, Checkins: 60},
			{Day: "Fri", Joins: 48, Checkins: 44},
			{Day: "Sat", Joins: 25, Checkins: 22},
			{Day: "Sun", Joins: 20, Checkins: 18},
		},
		PopularTimes: popular,
		EventPerformance: []event.EventPerformance{
			{ID: "1", Name: "Tech Workshop", Date: now, Registered: 50, CheckedIn: 45, AttendanceRate: 90},
			{ID: "2", Name: "Career Fair", Date: now.AddDate(0, 0, -1), Registered: 200, CheckedIn: 180, AttendanceRate: 90},
			{ID: "3", Name: "Programming Contest", Date: now.AddDate(0, 0, -2), Registered: 30, CheckedIn: 25, AttendanceRate: 83},
			{ID: "4", Name: "Networking Night", Date: now.AddDate(0, 0, -3), Registered: 100, CheckedIn: 75, AttendanceRate: 75},
		},
	}, nil
}

func seedEvents(now time.Time) []event.Event {
	return []event.Event{
		{
			ID:          "1",
			Title:       "Tech Workshop",
			Description: "Learn the latest in web development technologies.",
			Date:        now.AddDate(0, 0, 1),
			Location:    "STI Main Campus - Room 301",
			Capacity:    50,
			Registered:  32,
			Organizer:   "IT Department",
		},
		{
			ID:          "2",
			Title:       "Career Fair",
			Description: "Meet representatives from top tech companies.",
			Date:        now.AddDate(0, 0, 3),
			Location:    "STI Main Campus - Auditorium",
			Capacity:    200,
			Registered:  150,
			Organizer:   "Career Services",
		},
		{
			ID:          "3",
			Title:       "Programming Contest",
			Description: "Test your coding skills and win prizes.",
			Date:        now.AddDate(0, 0, 5),
			Location:    "STI Main Campus - Computer Lab",
			Capacity:    30,
			Registered:  25,
			Organizer:   "Computer Science Club",
		},
		{
			ID:          "4",
			Title:       "Networking Night",
			Description: "Build connections with industry professionals.",
			Date:        now.AddDate(0, 0, 7),
			Location:    "STI Main Campus - Function Hall",
			Capacity:    100,
			Registered:  45,
			Organizer:   "Alumni Association",
		},
	}
}
