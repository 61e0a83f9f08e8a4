package ticket

import "time"

// Ticket statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Ticket priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// GeohashPrecision is the number of geohash characters stored per ticket
// (cells of roughly 150m x 150m).
const GeohashPrecision = 7

// Ticket is a reported streetlight problem.
type Ticket struct {
	ID             string
	Title          string
	Description    string
	Status         string
	Priority       string
	Latitude       *float64
	Longitude      *float64
	Geohash        string
	Address        string
	PhotoURL       string
	CitizenPhone   string
	CitizenName    string
	AssignedTeamID *string
	DueDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateInput carries a new report.
type CreateInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	Latitude       *float64
	Longitude      *float64
	Address        string
	PhotoURL       string
	CitizenPhone   string
	CitizenName    string
	AssignedTeamID string
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	Latitude       *float64
	Longitude      *float64
	Address        *string
	PhotoURL       *string
	CitizenName    *string
	AssignedTeamID *string
}

// Filter narrows ticket listings. Empty fields match everything.
type Filter struct {
	Status        string
	TeamID        string
	GeohashPrefix string
}

// KPIs summarizes the ticket backlog.
type KPIs struct {
	TotalTickets      int64   `json:"total_tickets"`
	OpenTickets       int64   `json:"open_tickets"`
	InProgressTickets int64   `json:"in_progress_tickets"`
	ResolvedTickets   int64   `json:"resolved_tickets"`
	ClosedTickets     int64   `json:"closed_tickets"`
	OverdueTickets    int64   `json:"overdue_tickets"`
	AvgResolutionTime float64 `json:"avg_resolution_time"`
}

func validStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	default:
		return false
	}
}

func validPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// finished reports whether a status no longer counts towards the SLA.
func finished(status string) bool {
	return status == StatusClosed || status == StatusResolved
}

// slaDays maps a priority to the number of days until the ticket is due.
func slaDays(priority string) int {
	switch priority {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 7
	default:
		return 3
	}
}
