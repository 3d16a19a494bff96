package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stiedu/loggedin/core"
)

// Attendee statuses
const (
	StatusJoined   = "joined"
	StatusAttended = "attended"
	StatusAbsent   = "absent"
)

type (
	Event struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
		Location    string    `json:"location"`
		Capacity    int       `json:"capacity"`
		Registered  int       `json:"registered"`
		Image       string    `json:"image,omitempty"`
		Organizer   string    `json:"organizer,omitempty"` // detail views only
	}

	// JoinResult is returned on a successful event registration; the
	// checkin token is what the QR code encodes.
	JoinResult struct {
		CheckinToken string `json:"checkin_token"`
	}

	JoinedEvent struct {
		ID           string    `json:"id"`
		Title        string    `json:"title"`
		Date         time.Time `json:"date"`
		Location     string    `json:"location"`
		CheckinToken string    `json:"checkin_token"`
		JoinedAt     time.Time `json:"joined_at"`
	}

	Attendee struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		StudentID string    `json:"student_id"`
		JoinedAt  time.Time `json:"joined_at"`
		Status    string    `json:"status"`
	}

	RecentJoin struct {
		StudentName string    `json:"student_name"`
		EventTitle  string    `json:"event_title"`
		Time        time.Time `json:"time"`
	}

	AdminStats struct {
		TotalStudents   int          `json:"total_students"`
		TotalEvents     int          `json:"total_events"`
		UpcomingEvents  int          `json:"upcoming_events"`
		TotalAttendance int          `json:"total_attendance"`
		RecentJoins     []RecentJoin `json:"recent_joins"`
	}

	AnalyticsOverview struct {
		TotalStudents   int `json:"total_students"`
		ActiveEvents    int `json:"active_events"`
		TotalCheckins   int `json:"total_checkins"`
		AvgResponseTime int `json:"avg_response_time"`
	}

	TrendPoint struct {
		Date       time.Time `json:"date"`
		Attendance int       `json:"attendance"`
	}

	CategoryShare struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	DayEngagement struct {
		Day      string `json:"day"`
		Joins    int    `json:"joins"`
		Checkins int    `json:"checkins"`
	}

	HourAttendance struct {
		Hour       string `json:"hour"`
		Attendance int    `json:"attendance"`
	}

	EventPerformance struct {
		ID             string    `json:"id"`
		Name           string    `json:"name"`
		Date           time.Time `json:"date"`
		Registered     int       `json:"registered"`
		CheckedIn      int       `json:"checked_in"`
		AttendanceRate int       `json:"attendance_rate"`
	}

	Analytics struct {
		Overview         AnalyticsOverview  `json:"overview"`
		AttendanceTrends []TrendPoint       `json:"attendance_trends"`
		EventCategories  []CategoryShare    `json:"event_categories"`
		DailyEngagement  []DayEngagement    `json:"daily_engagement"`
		PopularTimes     []HourAttendance   `json:"popular_times"`
		EventPerformance []EventPerformance `json:"event_performance"`
	}
)

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Capacity    int       `json:"capacity" validate:"required,gt=0"`
	Image       string    `json:"image" validate:"omitempty,url"`
	Organizer   string    `json:"organizer"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Location = core.CleanString(ne.Location)
	ne.Organizer = core.CleanString(ne.Organizer)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	if !ne.Date.After(time.Now()) {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a date in the future"})
	}
	return nil
}
