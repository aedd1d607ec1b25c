package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/eventops/go-admin-console/pkg/backend"
)

type detailCatalog interface {
	EventDetail(ctx context.Context, eventID int64) (backend.EventDetail, error)
}

// EventDetailQuery fetches the expanded record for one event.
type EventDetailQuery struct {
	catalog detailCatalog
}

// NewEventDetailQuery builds the query.
func NewEventDetailQuery(catalog detailCatalog) *EventDetailQuery {
	return &EventDetailQuery{catalog: catalog}
}

var _ gocommand.Querier[int64, backend.EventDetail] = (*EventDetailQuery)(nil)

// Query resolves the detail record for the event.
func (q *EventDetailQuery) Query(ctx context.Context, eventID int64) (backend.EventDetail, error) {
	return q.catalog.EventDetail(ctx, eventID)
}
