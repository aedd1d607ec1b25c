package backend

import "time"

// User is an administrable platform account.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// Event is a moderatable listing on the ticketing platform.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Category    string    `json:"category"`
	Organizer   string    `json:"organizer"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
	TicketsSold int       `json:"tickets_sold"`
	Price       float64   `json:"price"`
}

// FillRate reports the sold/capacity ratio in [0, 1].
func (e Event) FillRate() float64 {
	if e.Capacity <= 0 {
		return 0
	}
	return float64(e.TicketsSold) / float64(e.Capacity)
}

// Refund is a ticket refund request awaiting administrative review.
type Refund struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	UserEmail   string    `json:"user_email"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// Category groups events for browsing and filtering.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	EventCount  int    `json:"event_count"`
}

// Tag is a free-form label attached to events.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	UsageCount int    `json:"usage_count"`
}

// Registration records a ticket purchase against an event.
type Registration struct {
	ID        int64     `json:"id"`
	UserEmail string    `json:"user_email"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ModerationEntry is one historical moderation decision on an event.
type ModerationEntry struct {
	Action    string    `json:"action"`
	Moderator string    `json:"moderator"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// EventDetail is the expanded event record returned by the detail endpoint.
// Nested collections may be empty or missing; callers must treat nil slices
// as empty rather than as an error.
type EventDetail struct {
	Event          Event             `json:"event"`
	Registrations  []Registration    `json:"registrations"`
	RefundRequests []Refund          `json:"refund_requests"`
	History        []ModerationEntry `json:"history"`
}

// ListQuery captures the pagination and filter parameters accepted by every
// collection endpoint.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Role     string
	Category string
}

// Page is one page of a remote collection.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// ActionRequest is the uniform mutation payload sent to the moderation
// endpoints. Reason is optional for kinds that do not require justification.
type ActionRequest struct {
	EntityID int64
	Action   string
	Reason   string
}

// CreateUserInput is the payload for the user creation endpoint.
type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// TimePoint is a dated scalar used by report series.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// CategorySlice is one wedge of a category breakdown.
type CategorySlice struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// AnalyticsReport aggregates the read-only analytics endpoint payload.
type AnalyticsReport struct {
	RevenueByMonth   []TimePoint     `json:"revenue_by_month"`
	TicketsByMonth   []TimePoint     `json:"tickets_by_month"`
	EventsByCategory []CategorySlice `json:"events_by_category"`
}

// FillForecast is a predicted fill rate for a single event.
type FillForecast struct {
	EventID    int64   `json:"event_id"`
	EventTitle string  `json:"event_title"`
	Predicted  float64 `json:"predicted_fill_rate"`
}

// PredictiveReport carries ML-derived projections from the backend.
type PredictiveReport struct {
	Forecasts    []FillForecast `json:"forecasts"`
	ModelVersion string         `json:"model_version"`
	TrainedAt    time.Time      `json:"trained_at"`
}

// HealthCheck is one subsystem probe result.
type HealthCheck struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	LatencyMS float64   `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
}

// SystemHealth is the aggregate health endpoint payload.
type SystemHealth struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

// GlobalStats summarizes platform-wide counters for the dashboard header.
type GlobalStats struct {
	TotalUsers      int     `json:"total_users"`
	ActiveUsers     int     `json:"active_users"`
	TotalEvents     int     `json:"total_events"`
	PublishedEvents int     `json:"published_events"`
	PendingRefunds  int     `json:"pending_refunds"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// PredictionRequest parametrizes the on-demand fill rate prediction trigger.
type PredictionRequest struct {
	EventID int64 `json:"event_id"`
}

// PricingRequest parametrizes the pricing optimization trigger.
type PricingRequest struct {
	EventID int64 `json:"event_id"`
}

// PricingSuggestion is the backend's recommended price for an event.
type PricingSuggestion struct {
	EventID        int64   `json:"event_id"`
	CurrentPrice   float64 `json:"current_price"`
	SuggestedPrice float64 `json:"suggested_price"`
}
