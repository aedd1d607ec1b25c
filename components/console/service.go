package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eventops/go-admin-console/pkg/activity"
	"github.com/eventops/go-admin-console/pkg/backend"
)

var (
	errMissingClient   = errors.New("console: backend client not configured")
	errMissingRegistry = errors.New("console: resource registry not configured")
	errUnknownResource = errors.New("console: unknown resource code")
)

// Options configures the console Service. Every collaborator is provided via
// interface so applications can swap implementations without importing
// internal packages.
type Options struct {
	Client         backend.Client
	Registry       ResourceRegistry
	Notifier       *Notifier
	Validator      FormValidator
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	Preferences    PreferenceStore
	Translator     TranslationService
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
}

// Service orchestrates the console's mutations and reads on top of the
// ticketing backend. Screen controllers own view state; the service owns
// dispatch, validation, auditing, and refresh broadcasting.
type Service struct {
	opts    Options
	emitter *activity.Emitter
}

// NewService builds a Service instance with safe defaults. When a client is
// provided and the registry is empty, the built-in resources are bound
// automatically.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		reg := NewRegistry()
		if opts.Client != nil {
			_ = RegisterDefaultResources(reg, opts.Client)
		}
		opts.Registry = reg
	}
	if opts.Notifier == nil {
		opts.Notifier = NewNotifier()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:    opts,
		emitter: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
	}
}

// Registry exposes the resource registry for transports and shells.
func (s *Service) Registry() ResourceRegistry {
	return s.opts.Registry
}

// Notifier exposes the shared notification channel.
func (s *Service) Notifier() *Notifier {
	return s.opts.Notifier
}

// ResolveSection fetches one page of a resource collection by code.
func (s *Service) ResolveSection(ctx context.Context, code string, filters Filters, page int) (SectionPage, error) {
	binding, err := s.binding(code)
	if err != nil {
		return SectionPage{}, err
	}
	pageSize := binding.Definition.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	resolved, err := binding.List(ctx, filters.Query(page, pageSize))
	if err != nil {
		return SectionPage{}, err
	}
	resolved.Resource = code
	resolved.Page = page
	s.opts.Telemetry.Record(ctx, "console.section.resolve", map[string]any{
		"resource": code,
		"page":     page,
		"count":    len(resolved.Rows),
	})
	return resolved, nil
}

// SubmitActionInput captures a confirmed moderation action.
type SubmitActionInput struct {
	Resource string         `json:"resource"`
	EntityID int64          `json:"entity_id"`
	Kind     ActionKind     `json:"action"`
	Reason   string         `json:"reason,omitempty"`
	Session  SessionContext `json:"-"`
}

// SubmitAction dispatches a confirmed action to the resource's backend
// endpoint, then broadcasts the change and records it in the audit trail.
// The reason guard is enforced here as well as in the dialog, so transports
// that bypass the flow cannot submit an unjustified action.
func (s *Service) SubmitAction(ctx context.Context, input SubmitActionInput) error {
	binding, err := s.binding(input.Resource)
	if err != nil {
		return err
	}
	def := binding.Definition
	if !def.Supports(input.Kind) {
		return errUnknownAction
	}
	reason := strings.TrimSpace(input.Reason)
	if def.RequiresReason(input.Kind) && reason == "" {
		return errReasonRequired
	}
	switch {
	case input.Kind == ActionDelete && binding.Delete != nil:
		err = binding.Delete(ctx, input.EntityID)
	case binding.Submit != nil:
		err = binding.Submit(ctx, backend.ActionRequest{
			EntityID: input.EntityID,
			Action:   string(input.Kind),
			Reason:   reason,
		})
	default:
		return errMissingSubmit
	}
	if err != nil {
		s.opts.Telemetry.Record(ctx, "console.action.error", map[string]any{
			"resource": input.Resource,
			"action":   string(input.Kind),
			"error":    err.Error(),
		})
		return err
	}
	event := ResourceEvent{
		Resource: input.Resource,
		EntityID: input.EntityID,
		Action:   string(input.Kind),
		Reason:   reason,
	}
	if err := s.opts.RefreshHook.ResourceUpdated(ctx, event); err != nil {
		return err
	}
	s.emitActivity(ctx, input.Session, activity.Event{
		Verb:           string(input.Kind),
		ObjectType:     objectType(input.Resource),
		ObjectID:       strconv.FormatInt(input.EntityID, 10),
		DefinitionCode: input.Resource,
		Metadata:       activityMetadata(reason),
	})
	s.opts.Telemetry.Record(ctx, "console.action.submit", map[string]any{
		"resource":  input.Resource,
		"action":    string(input.Kind),
		"entity_id": input.EntityID,
	})
	return nil
}

// CreateUserInput carries the user-creation form plus the acting session.
type CreateUserInput struct {
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Role      string         `json:"role"`
	Session   SessionContext `json:"-"`
}

// CreateUser validates the form against the users schema (client-side, so
// invalid input never produces a request) and posts the creation endpoint.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (backend.User, error) {
	if s.opts.Client == nil {
		return backend.User{}, errMissingClient
	}
	def, ok := s.opts.Registry.Definition(ResourceUsers)
	if !ok {
		return backend.User{}, errUnknownResource
	}
	payload := map[string]any{
		"email":      input.Email,
		"password":   input.Password,
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"role":       input.Role,
	}
	if err := s.opts.Validator.Validate(def, payload); err != nil {
		return backend.User{}, err
	}
	created, err := s.opts.Client.CreateUser(ctx, backend.CreateUserInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
	})
	if err != nil {
		return backend.User{}, err
	}
	event := ResourceEvent{Resource: ResourceUsers, EntityID: created.ID, Action: "create"}
	if err := s.opts.RefreshHook.ResourceUpdated(ctx, event); err != nil {
		return created, err
	}
	s.emitActivity(ctx, input.Session, activity.Event{
		Verb:           "create",
		ObjectType:     "user",
		ObjectID:       strconv.FormatInt(created.ID, 10),
		DefinitionCode: ResourceUsers,
	})
	s.opts.Telemetry.Record(ctx, "console.user.create", map[string]any{
		"user_id": created.ID,
		"role":    created.Role,
	})
	return created, nil
}

// ExportFormat selects the backend export flavor.
type ExportFormat string

// Export formats offered by the backend.
const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "excel"
)

// ExportEvent streams the backend's rendered export for an event into out.
func (s *Service) ExportEvent(ctx context.Context, eventID int64, format ExportFormat, out io.Writer) error {
	if s.opts.Client == nil {
		return errMissingClient
	}
	var err error
	switch format {
	case ExportCSV:
		err = s.opts.Client.ExportEventCSV(ctx, eventID, out)
	case ExportExcel:
		err = s.opts.Client.ExportEventExcel(ctx, eventID, out)
	default:
		return fmt.Errorf("console: unknown export format %q", format)
	}
	if err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "console.event.export", map[string]any{
		"event_id": eventID,
		"format":   string(format),
	})
	return nil
}

// TrainModels triggers backend model retraining.
func (s *Service) TrainModels(ctx context.Context, session SessionContext) error {
	if s.opts.Client == nil {
		return errMissingClient
	}
	if err := s.opts.Client.TrainModels(ctx); err != nil {
		return err
	}
	s.emitActivity(ctx, session, activity.Event{
		Verb:       "train",
		ObjectType: "ml_models",
		ObjectID:   "all",
	})
	s.opts.Telemetry.Record(ctx, "console.ml.train", nil)
	return nil
}

// PredictFillRate requests an on-demand fill rate forecast for an event.
func (s *Service) PredictFillRate(ctx context.Context, eventID int64) (backend.FillForecast, error) {
	if s.opts.Client == nil {
		return backend.FillForecast{}, errMissingClient
	}
	forecast, err := s.opts.Client.PredictFillRate(ctx, backend.PredictionRequest{EventID: eventID})
	if err != nil {
		return backend.FillForecast{}, err
	}
	s.opts.Telemetry.Record(ctx, "console.ml.predict", map[string]any{"event_id": eventID})
	return forecast, nil
}

// OptimizePricing requests a pricing suggestion for an event.
func (s *Service) OptimizePricing(ctx context.Context, eventID int64) (backend.PricingSuggestion, error) {
	if s.opts.Client == nil {
		return backend.PricingSuggestion{}, errMissingClient
	}
	suggestion, err := s.opts.Client.OptimizePricing(ctx, backend.PricingRequest{EventID: eventID})
	if err != nil {
		return backend.PricingSuggestion{}, err
	}
	s.opts.Telemetry.Record(ctx, "console.ml.pricing", map[string]any{"event_id": eventID})
	return suggestion, nil
}

// NotifyResourceUpdated exposes refresh hook invocation for commands and
// transports.
func (s *Service) NotifyResourceUpdated(ctx context.Context, event ResourceEvent) error {
	if err := s.opts.RefreshHook.ResourceUpdated(ctx, event); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "console.resource.event", map[string]any{
		"resource":  event.Resource,
		"entity_id": event.EntityID,
		"action":    event.Action,
	})
	return nil
}

// SavePreferences persists per-administrator view preferences.
func (s *Service) SavePreferences(ctx context.Context, session SessionContext, prefs ViewPreferences) error {
	if session.UserID == "" {
		return errors.New("console: session missing user id")
	}
	return s.opts.Preferences.SaveViewPreferences(ctx, session, prefs)
}

// Preferences returns the stored view preferences for the session.
func (s *Service) Preferences(ctx context.Context, session SessionContext) (ViewPreferences, error) {
	return s.opts.Preferences.ViewPreferences(ctx, session)
}

func (s *Service) binding(code string) (ResourceBinding, error) {
	if s.opts.Registry == nil {
		return ResourceBinding{}, errMissingRegistry
	}
	binding, ok := s.opts.Registry.Binding(code)
	if !ok {
		return ResourceBinding{}, fmt.Errorf("%w: %s", errUnknownResource, code)
	}
	return binding, nil
}

func (s *Service) emitActivity(ctx context.Context, session SessionContext, evt activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if session.UserID == "" {
		session = SessionFromContext(ctx)
	}
	evt.ActorID = session.UserID
	_ = s.emitter.Emit(ctx, evt)
}

func objectType(resource string) string {
	if idx := strings.LastIndex(resource, "."); idx >= 0 && idx+1 < len(resource) {
		return strings.TrimSuffix(resource[idx+1:], "s")
	}
	return resource
}

func activityMetadata(reason string) map[string]any {
	if reason == "" {
		return nil
	}
	return map[string]any{"reason": reason}
}

type noopRefreshHook struct{}

func (noopRefreshHook) ResourceUpdated(context.Context, ResourceEvent) error {
	return nil
}
