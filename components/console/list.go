package console

import (
	"context"
	"errors"
	"sync"

	"github.com/eventops/go-admin-console/pkg/backend"
)

var (
	errMissingFetcher   = errors.New("console: list config requires a fetch function")
	errMissingID        = errors.New("console: list config requires an id function")
	errUnknownAction    = errors.New("console: action not supported by this resource")
	errNoPendingAction  = errors.New("console: no action awaiting confirmation")
	errReasonRequired   = errors.New("console: a reason is required for this action")
	errSubmitInProgress = errors.New("console: submission already in flight")
)

// DefaultPageSize is used when neither the resource definition nor the
// viewer preferences set one.
const DefaultPageSize = 20

// ListConfig parameterizes a ListController for one entity type. One generic
// controller instantiated per resource replaces the per-screen copies the
// original dashboard carried.
type ListConfig[T any] struct {
	Definition ResourceDefinition
	Fetch      func(ctx context.Context, query backend.ListQuery) (backend.Page[T], error)
	Submit     func(ctx context.Context, req backend.ActionRequest) error
	ID         func(T) int64
	Label      func(T) string
	Status     func(T) string
	Notifier   *Notifier
	Telemetry  Telemetry
	PageSize   int
}

// ListState is the controller-owned view state for one resource collection.
// Items reflect exactly the last successful fetch for (Filters, Page); any
// change to either invalidates them until the next fetch resolves.
type ListState[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Filters    Filters
	Phase      FetchPhase
	Err        error
}

// ListController owns the list state for one resource and the confirmation
// flow for its row actions. All methods are safe for concurrent use; stale
// fetch responses are discarded by sequence number so a slow earlier request
// can never overwrite newer state.
type ListController[T any] struct {
	cfg  ListConfig[T]
	flow *ActionFlow

	mu    sync.Mutex
	seq   uint64
	state ListState[T]
}

// NewListController validates the config and builds a controller with an
// armed (but closed) action flow.
func NewListController[T any](cfg ListConfig[T]) (*ListController[T], error) {
	if cfg.Fetch == nil {
		return nil, errMissingFetcher
	}
	if cfg.ID == nil {
		return nil, errMissingID
	}
	if cfg.Label == nil {
		cfg.Label = func(T) string { return "" }
	}
	if cfg.Status == nil {
		cfg.Status = func(T) string { return "" }
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewNotifier()
	}
	cfg.Telemetry = normalizeTelemetry(cfg.Telemetry)
	if cfg.PageSize <= 0 {
		cfg.PageSize = cfg.Definition.PageSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	c := &ListController[T]{
		cfg:   cfg,
		state: ListState[T]{Page: 1, TotalPages: 1},
	}
	c.flow = newActionFlow(flowConfig{
		definition: cfg.Definition,
		submit:     cfg.Submit,
		notifier:   cfg.Notifier,
		telemetry:  cfg.Telemetry,
		onSuccess:  c.refreshCurrent,
	})
	return c, nil
}

// Load fetches the given (filters, page) tuple and replaces the list state
// when the response is still the newest one issued.
func (c *ListController[T]) Load(ctx context.Context, filters Filters, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Filters = filters
	c.state.Page = page
	c.state.Phase = PhaseLoading
	c.state.Err = nil
	c.mu.Unlock()

	result, err := c.cfg.Fetch(ctx, filters.Query(page, c.cfg.PageSize))

	c.mu.Lock()
	if seq != c.seq {
		// A newer request was issued while this one was in flight.
		c.mu.Unlock()
		c.cfg.Telemetry.Record(ctx, "console.list.stale_response", map[string]any{
			"resource": c.cfg.Definition.Code,
		})
		return nil
	}
	if err != nil {
		c.state.Phase = PhaseFailed
		c.state.Err = err
		c.mu.Unlock()
		c.cfg.Notifier.Notify(backend.UserMessage(err), SeverityError)
		c.cfg.Telemetry.Record(ctx, "console.list.fetch_failed", map[string]any{
			"resource": c.cfg.Definition.Code,
			"error":    err.Error(),
		})
		return err
	}
	c.state.Items = result.Items
	c.state.TotalPages = result.TotalPages
	c.state.Phase = PhaseLoaded
	c.mu.Unlock()
	c.cfg.Telemetry.Record(ctx, "console.list.loaded", map[string]any{
		"resource": c.cfg.Definition.Code,
		"page":     page,
		"count":    len(result.Items),
	})
	return nil
}

// Refresh re-runs the fetch for the current filters and page. Called after
// every successful mutation; never merges records in place.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	filters := c.state.Filters
	page := c.state.Page
	c.mu.Unlock()
	return c.Load(ctx, filters, page)
}

func (c *ListController[T]) refreshCurrent(ctx context.Context) {
	_ = c.Refresh(ctx)
}

// State returns a snapshot of the current list state.
func (c *ListController[T]) State() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := c.state
	snapshot.Items = append([]T(nil), c.state.Items...)
	return snapshot
}

// RequestAction creates a PendingAction for the entity and opens the
// confirmation flow. The entity must currently be in the list.
func (c *ListController[T]) RequestAction(entityID int64, kind ActionKind) error {
	if !c.cfg.Definition.Supports(kind) {
		return errUnknownAction
	}
	label := ""
	c.mu.Lock()
	for _, item := range c.state.Items {
		if c.cfg.ID(item) == entityID {
			label = c.cfg.Label(item)
			break
		}
	}
	c.mu.Unlock()
	return c.flow.Open(PendingAction{
		EntityID:    entityID,
		EntityLabel: label,
		Kind:        kind,
	})
}

// Flow exposes the confirmation flow so transports and templates can drive
// the dialog.
func (c *ListController[T]) Flow() *ActionFlow {
	return c.flow
}

// Definition returns the resource definition backing this controller.
func (c *ListController[T]) Definition() ResourceDefinition {
	return c.cfg.Definition
}

// Rows projects the current items for rendering.
func (c *ListController[T]) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]Row, 0, len(c.state.Items))
	for _, item := range c.state.Items {
		rows = append(rows, Row{
			ID:     c.cfg.ID(item),
			Label:  c.cfg.Label(item),
			Status: c.cfg.Status(item),
		})
	}
	return rows
}

// Section is the shell-facing view of a list controller; it hides the
// concrete entity type so heterogeneous controllers can share one tab strip.
type Section interface {
	Code() string
	Definition() ResourceDefinition
	Refresh(ctx context.Context) error
}

// Code implements Section.
func (c *ListController[T]) Code() string {
	return c.cfg.Definition.Code
}
