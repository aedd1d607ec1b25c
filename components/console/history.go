package console

import (
	"context"
	"fmt"
	"time"

	"github.com/eventops/go-admin-console/pkg/backend"
)

// HistoryItem is one moderation trail entry prepared for rendering.
type HistoryItem struct {
	Moderator string
	Action    string
	Reason    string
	Ago       time.Duration
}

// HistoryFeed fetches recent moderation entries for the console sidebar.
type HistoryFeed interface {
	Recent(ctx context.Context, session SessionContext, limit int) ([]HistoryItem, error)
}

// StaticHistoryFeed returns fixed entries useful for demos and tests.
type StaticHistoryFeed struct {
	Items []HistoryItem
}

// Recent returns up to limit items from the static list.
func (f StaticHistoryFeed) Recent(_ context.Context, _ SessionContext, limit int) ([]HistoryItem, error) {
	if limit <= 0 || limit >= len(f.Items) {
		return append([]HistoryItem{}, f.Items...), nil
	}
	return append([]HistoryItem{}, f.Items[:limit]...), nil
}

// HistoryItems converts backend moderation entries into renderable items
// relative to now.
func HistoryItems(entries []backend.ModerationEntry, now time.Time) []HistoryItem {
	items := make([]HistoryItem, 0, len(entries))
	for _, entry := range entries {
		ago := now.Sub(entry.CreatedAt)
		if ago < 0 {
			ago = 0
		}
		items = append(items, HistoryItem{
			Moderator: entry.Moderator,
			Action:    entry.Action,
			Reason:    entry.Reason,
			Ago:       ago,
		})
	}
	return items
}

// FormatAgo renders a duration the way the history sidebar shows it.
func FormatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// DefaultHistoryFeed provides placeholder entries for the demo console.
func DefaultHistoryFeed() HistoryFeed {
	return StaticHistoryFeed{
		Items: []HistoryItem{
			{Moderator: "Candice Reed", Action: "approved event Spring Gala", Ago: 5 * time.Minute},
			{Moderator: "Noah Patel", Action: "suspended organizer account", Reason: "Repeated chargebacks", Ago: 22 * time.Minute},
			{Moderator: "Marcos Valle", Action: "approved 14 refund requests", Ago: 49 * time.Minute},
			{Moderator: "Sara Ndlovu", Action: "rejected event Midnight Rave", Reason: "Venue capacity unverified", Ago: 2 * time.Hour},
			{Moderator: "Elena Ibarra", Action: "deleted duplicate category", Ago: 6 * time.Hour},
		},
	}
}
