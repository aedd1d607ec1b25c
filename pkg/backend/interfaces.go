package backend

import (
	"context"
	"io"
)

// UserDirectory exposes the user administration endpoints.
type UserDirectory interface {
	ListUsers(ctx context.Context, query ListQuery) (Page[User], error)
	ManageUser(ctx context.Context, req ActionRequest) error
	CreateUser(ctx context.Context, input CreateUserInput) (User, error)
}

// EventCatalog exposes event moderation, detail, and deletion endpoints.
type EventCatalog interface {
	ListEvents(ctx context.Context, query ListQuery) (Page[Event], error)
	ModerateEvent(ctx context.Context, req ActionRequest) error
	DeleteEvent(ctx context.Context, eventID int64) error
	EventDetail(ctx context.Context, eventID int64) (EventDetail, error)
	EventHistory(ctx context.Context, eventID int64) ([]ModerationEntry, error)
}

// RefundDesk exposes refund review endpoints.
type RefundDesk interface {
	ListRefunds(ctx context.Context, query ListQuery) (Page[Refund], error)
	ProcessRefund(ctx context.Context, req ActionRequest) error
}

// Taxonomy exposes category and tag management endpoints.
type Taxonomy interface {
	ListCategories(ctx context.Context, query ListQuery) (Page[Category], error)
	ListTags(ctx context.Context, query ListQuery) (Page[Tag], error)
	DeleteCategory(ctx context.Context, categoryID int64) error
	DeleteTag(ctx context.Context, tagID int64) error
}

// Reports exposes the read-only aggregate endpoints.
type Reports interface {
	Analytics(ctx context.Context) (AnalyticsReport, error)
	PredictiveAnalytics(ctx context.Context) (PredictiveReport, error)
	SystemHealth(ctx context.Context) (SystemHealth, error)
	GlobalStats(ctx context.Context) (GlobalStats, error)
}

// MLOps exposes the model training and inference triggers.
type MLOps interface {
	TrainModels(ctx context.Context) error
	PredictFillRate(ctx context.Context, req PredictionRequest) (FillForecast, error)
	OptimizePricing(ctx context.Context, req PricingRequest) (PricingSuggestion, error)
}

// Exporter streams event exports produced by the backend to a local writer.
type Exporter interface {
	ExportEventCSV(ctx context.Context, eventID int64, out io.Writer) error
	ExportEventExcel(ctx context.Context, eventID int64, out io.Writer) error
}

// Client is a convenience union for implementations covering the full API.
type Client interface {
	UserDirectory
	EventCatalog
	RefundDesk
	Taxonomy
	Reports
	MLOps
	Exporter
}
