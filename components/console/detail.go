package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/eventops/go-admin-console/pkg/backend"
)

var errDetailClosed = errors.New("console: detail view is not open")

// DetailActionFunc is invoked after a secondary action inside the detail
// view succeeds, so the owning list can refresh without the detail view
// knowing anything about list internals.
type DetailActionFunc func(kind ActionKind, entityID int64)

// DetailConfig wires an EventDetailController to its collaborators.
type DetailConfig struct {
	Catalog   backend.EventCatalog
	Exporter  backend.Exporter
	Notifier  *Notifier
	Telemetry Telemetry
	OnAction  DetailActionFunc
}

// EventDetailController owns the lazily fetched expanded record shown in the
// event detail modal. The record is never merged back into list state; the
// list only changes by re-fetching.
type EventDetailController struct {
	cfg DetailConfig

	mu      sync.Mutex
	open    bool
	eventID int64
	phase   FetchPhase
	record  backend.EventDetail
	err     error
}

// NewEventDetailController builds a detail controller.
func NewEventDetailController(cfg DetailConfig) (*EventDetailController, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("console: detail config requires an event catalog")
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewNotifier()
	}
	cfg.Telemetry = normalizeTelemetry(cfg.Telemetry)
	return &EventDetailController{cfg: cfg}, nil
}

// Open fetches the nested record for the event. The loading indicator is
// scoped to the modal: the phase here never touches any list state.
func (c *EventDetailController) Open(ctx context.Context, eventID int64) error {
	c.mu.Lock()
	c.open = true
	c.eventID = eventID
	c.phase = PhaseLoading
	c.err = nil
	c.mu.Unlock()

	record, err := c.cfg.Catalog.EventDetail(ctx, eventID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open || c.eventID != eventID {
		// Closed or reopened for another event while the fetch was in flight.
		return nil
	}
	if err != nil {
		c.phase = PhaseFailed
		c.err = err
		return err
	}
	normalizeDetail(&record)
	c.record = record
	c.phase = PhaseLoaded
	c.cfg.Telemetry.Record(ctx, "console.detail.opened", map[string]any{
		"event_id": eventID,
	})
	return nil
}

// Close discards the record. Closing without an action leaves the owning
// list untouched: OnAction is not invoked.
func (c *EventDetailController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.eventID = 0
	c.phase = PhaseIdle
	c.record = backend.EventDetail{}
	c.err = nil
}

// Record returns the fetched detail plus the current phase. Nested
// collections are always non-nil so templates can render explicit empty
// states.
func (c *EventDetailController) Record() (backend.EventDetail, FetchPhase, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record, c.phase, c.err
}

// IsOpen reports whether the modal is showing.
func (c *EventDetailController) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Reject applies the reject moderation action to the opened event. Reject
// requires a non-empty reason; nothing reaches the backend without one. On
// success the modal closes and the owner is notified via OnAction.
func (c *EventDetailController) Reject(ctx context.Context, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errReasonRequired
	}
	return c.act(ctx, ActionReject, func(eventID int64) error {
		return c.cfg.Catalog.ModerateEvent(ctx, backend.ActionRequest{
			EntityID: eventID,
			Action:   string(ActionReject),
			Reason:   reason,
		})
	})
}

// Delete hard-deletes the opened event. On success the modal closes and the
// owner is notified via OnAction.
func (c *EventDetailController) Delete(ctx context.Context) error {
	return c.act(ctx, ActionDelete, func(eventID int64) error {
		return c.cfg.Catalog.DeleteEvent(ctx, eventID)
	})
}

// ExportCSV streams the backend's CSV export for the opened event into out.
// Exports do not close the modal or refresh the list.
func (c *EventDetailController) ExportCSV(ctx context.Context, out io.Writer) error {
	return c.export(ctx, out, func(eventID int64) error {
		return c.cfg.Exporter.ExportEventCSV(ctx, eventID, out)
	})
}

// ExportExcel streams the backend's Excel export for the opened event.
func (c *EventDetailController) ExportExcel(ctx context.Context, out io.Writer) error {
	return c.export(ctx, out, func(eventID int64) error {
		return c.cfg.Exporter.ExportEventExcel(ctx, eventID, out)
	})
}

func (c *EventDetailController) act(ctx context.Context, kind ActionKind, call func(int64) error) error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return errDetailClosed
	}
	eventID := c.eventID
	c.mu.Unlock()

	if err := call(eventID); err != nil {
		c.cfg.Notifier.Notify(backend.UserMessage(err), SeverityError)
		return err
	}
	c.Close()
	c.cfg.Notifier.Notify(successMessage(PendingAction{EntityID: eventID, Kind: kind}), SeveritySuccess)
	c.cfg.Telemetry.Record(ctx, "console.detail.action", map[string]any{
		"event_id": eventID,
		"action":   string(kind),
	})
	if c.cfg.OnAction != nil {
		c.cfg.OnAction(kind, eventID)
	}
	return nil
}

func (c *EventDetailController) export(ctx context.Context, _ io.Writer, call func(int64) error) error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return errDetailClosed
	}
	if c.cfg.Exporter == nil {
		c.mu.Unlock()
		return errors.New("console: detail config has no exporter")
	}
	eventID := c.eventID
	c.mu.Unlock()

	if err := call(eventID); err != nil {
		c.cfg.Notifier.Notify(backend.UserMessage(err), SeverityError)
		return err
	}
	c.cfg.Telemetry.Record(ctx, "console.detail.export", map[string]any{
		"event_id": eventID,
	})
	return nil
}

// normalizeDetail replaces nil nested collections with empty slices so a
// partial backend response renders as an empty state, not a failure.
func normalizeDetail(detail *backend.EventDetail) {
	if detail.Registrations == nil {
		detail.Registrations = []backend.Registration{}
	}
	if detail.RefundRequests == nil {
		detail.RefundRequests = []backend.Refund{}
	}
	if detail.History == nil {
		detail.History = []backend.ModerationEntry{}
	}
}
