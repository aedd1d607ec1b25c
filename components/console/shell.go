package console

import (
	"context"
	"errors"
	"sync"

	"github.com/eventops/go-admin-console/pkg/backend"
)

var errUnknownSection = errors.New("console: unknown section code")

// MetricsState holds the header metrics shared by every tab. They are loaded
// once on shell start and only change through an explicit refresh; switching
// tabs never re-fetches them.
type MetricsState struct {
	Stats  backend.GlobalStats
	Health backend.SystemHealth
	Phase  FetchPhase
	Err    error
}

// TabInfo is the rendering projection of one section tab.
type TabInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ShellConfig wires the shell to its service and the metrics endpoints.
type ShellConfig struct {
	Service  *Service
	Reports  backend.Reports
	Catalog  backend.EventCatalog
	Exporter backend.Exporter
	Session  SessionContext
}

// Shell is the top-level console surface: an ordered tab strip of resource
// sections over a shared metrics header, one detail controller, and one
// notification slot. Exactly one section is active at a time; inactive
// sections keep their state so returning to a tab restores it without a
// network round trip.
type Shell struct {
	service  *Service
	reports  backend.Reports
	session  SessionContext
	notifier *Notifier
	detail   *EventDetailController

	mu       sync.Mutex
	sections map[string]*ListController[Row]
	order    []string
	active   string
	metrics  MetricsState
}

// NewShell builds section controllers for every registered resource binding
// and wires the detail controller for drill-down on events.
func NewShell(cfg ShellConfig) (*Shell, error) {
	if cfg.Service == nil {
		return nil, errors.New("console: shell requires a service")
	}
	svc := cfg.Service
	shell := &Shell{
		service:  svc,
		reports:  cfg.Reports,
		session:  cfg.Session,
		notifier: svc.Notifier(),
		sections: map[string]*ListController[Row]{},
	}
	reg := svc.Registry()
	for _, code := range reg.SectionCodes() {
		binding, ok := reg.Binding(code)
		if !ok {
			continue
		}
		controller, err := shell.newSectionController(binding)
		if err != nil {
			return nil, err
		}
		shell.sections[code] = controller
		shell.order = append(shell.order, code)
	}
	if len(shell.order) > 0 {
		shell.active = shell.order[0]
	}
	if cfg.Catalog != nil {
		detail, err := NewEventDetailController(DetailConfig{
			Catalog:  cfg.Catalog,
			Exporter: cfg.Exporter,
			Notifier: shell.notifier,
			OnAction: shell.refreshAfterDetail,
		})
		if err != nil {
			return nil, err
		}
		shell.detail = detail
	}
	return shell, nil
}

func (s *Shell) newSectionController(binding ResourceBinding) (*ListController[Row], error) {
	code := binding.Definition.Code
	return NewListController(ListConfig[Row]{
		Definition: binding.Definition,
		Fetch: func(ctx context.Context, query backend.ListQuery) (backend.Page[Row], error) {
			page, err := binding.List(ctx, query)
			if err != nil {
				return backend.Page[Row]{}, err
			}
			return backend.Page[Row]{Items: page.Rows, TotalPages: page.TotalPages}, nil
		},
		Submit: func(ctx context.Context, req backend.ActionRequest) error {
			return s.service.SubmitAction(ctx, SubmitActionInput{
				Resource: code,
				EntityID: req.EntityID,
				Kind:     ActionKind(req.Action),
				Reason:   req.Reason,
				Session:  s.session,
			})
		},
		ID:       func(r Row) int64 { return r.ID },
		Label:    func(r Row) string { return r.Label },
		Status:   func(r Row) string { return r.Status },
		Notifier: s.notifier,
	})
}

// Start loads the shared metrics and the initially active section. Metrics
// failures do not block section loading.
func (s *Shell) Start(ctx context.Context) error {
	s.loadMetrics(ctx)
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active == "" {
		return nil
	}
	return s.sections[active].Load(ctx, Filters{}, 1)
}

// SelectTab activates a section, loading it on first visit. The metrics
// header is not touched.
func (s *Shell) SelectTab(ctx context.Context, code string) error {
	s.mu.Lock()
	controller, ok := s.sections[code]
	if !ok {
		s.mu.Unlock()
		return errUnknownSection
	}
	s.active = code
	s.mu.Unlock()
	if controller.State().Phase == PhaseIdle {
		return controller.Load(ctx, Filters{}, 1)
	}
	return nil
}

// ActiveSection returns the controller for the currently selected tab.
func (s *Shell) ActiveSection() *ListController[Row] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections[s.active]
}

// Section returns the controller for a specific resource code.
func (s *Shell) Section(code string) (*ListController[Row], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	controller, ok := s.sections[code]
	return controller, ok
}

// Tabs returns the ordered tab strip with localized section names.
func (s *Shell) Tabs() []TabInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	tabs := make([]TabInfo, 0, len(s.order))
	for _, code := range s.order {
		def := s.sections[code].Definition()
		tabs = append(tabs, TabInfo{
			Code:   code,
			Name:   def.NameForLocale(s.session.Locale),
			Active: code == s.active,
		})
	}
	return tabs
}

// Metrics returns a snapshot of the shared header metrics.
func (s *Shell) Metrics() MetricsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// RefreshMetrics re-fetches the global stats and system health on demand.
func (s *Shell) RefreshMetrics(ctx context.Context) error {
	s.loadMetrics(ctx)
	s.mu.Lock()
	err := s.metrics.Err
	s.mu.Unlock()
	return err
}

func (s *Shell) loadMetrics(ctx context.Context) {
	if s.reports == nil {
		return
	}
	s.mu.Lock()
	s.metrics.Phase = PhaseLoading
	s.metrics.Err = nil
	s.mu.Unlock()

	stats, err := s.reports.GlobalStats(ctx)
	if err != nil {
		s.failMetrics(err)
		return
	}
	health, err := s.reports.SystemHealth(ctx)
	if err != nil {
		s.failMetrics(err)
		return
	}
	s.mu.Lock()
	s.metrics = MetricsState{Stats: stats, Health: health, Phase: PhaseLoaded}
	s.mu.Unlock()
}

func (s *Shell) failMetrics(err error) {
	s.mu.Lock()
	s.metrics.Phase = PhaseFailed
	s.metrics.Err = err
	s.mu.Unlock()
	s.notifier.Notify(backend.UserMessage(err), SeverityError)
}

// Detail returns the event drill-down controller, nil when no catalog was
// configured.
func (s *Shell) Detail() *EventDetailController {
	return s.detail
}

func (s *Shell) refreshAfterDetail(ActionKind, int64) {
	s.mu.Lock()
	controller, ok := s.sections[ResourceEvents]
	s.mu.Unlock()
	if ok {
		_ = controller.Refresh(context.Background())
	}
}

// CreateUser submits the cross-tab user creation form through the service
// and refreshes the users section on success.
func (s *Shell) CreateUser(ctx context.Context, input CreateUserInput) (backend.User, error) {
	input.Session = s.session
	created, err := s.service.CreateUser(ctx, input)
	if err != nil {
		s.notifier.Notify(backend.UserMessage(err), SeverityError)
		return backend.User{}, err
	}
	s.notifier.Notify("User "+created.Email+" created", SeveritySuccess)
	s.mu.Lock()
	controller, ok := s.sections[ResourceUsers]
	s.mu.Unlock()
	if ok {
		_ = controller.Refresh(ctx)
	}
	return created, nil
}

// Notifier exposes the shared notification slot for transports.
func (s *Shell) Notifier() *Notifier {
	return s.notifier
}

// Session reports the signed-in administrator the shell renders for.
func (s *Shell) Session() SessionContext {
	return s.session
}
