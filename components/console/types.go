package console

import (
	"context"

	"github.com/eventops/go-admin-console/pkg/backend"
)

// ActionKind is one of the enumerated backend-mutating operations an
// administrator can apply to a row.
type ActionKind string

// Action kinds shared across resources. The per-resource definition lists
// which of these a given resource supports and which require a reason.
const (
	ActionApprove    ActionKind = "approve"
	ActionReject     ActionKind = "reject"
	ActionSuspend    ActionKind = "suspend"
	ActionActivate   ActionKind = "activate"
	ActionDelete     ActionKind = "delete"
	ActionChangeRole ActionKind = "change_role"
)

// Severity classifies a notification message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// FetchPhase is the tagged state of any remote read. Data is only meaningful
// in PhaseLoaded; the phase replaces the loading booleans the original UI
// scattered across screens.
type FetchPhase int

const (
	PhaseIdle FetchPhase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

// String reports the phase name for telemetry payloads.
func (p FetchPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Filters mirrors the query parameters accepted by every collection endpoint.
type Filters struct {
	Search   string
	Status   string
	Role     string
	Category string
}

// Query converts filters plus pagination into a backend list query.
func (f Filters) Query(page, pageSize int) backend.ListQuery {
	return backend.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   f.Search,
		Status:   f.Status,
		Role:     f.Role,
		Category: f.Category,
	}
}

// PendingAction is the unit of work created when an administrator initiates
// a row action. It lives from the action click until confirm-success or
// cancel; a failed confirmation keeps it (and its reason text) alive.
type PendingAction struct {
	EntityID    int64
	EntityLabel string
	Kind        ActionKind
	Reason      string
}

// NotificationMessage is the single transient message the console shows.
type NotificationMessage struct {
	Text     string
	Severity Severity
}

// SessionContext identifies the signed-in administrator for auditing,
// preferences, and localization.
type SessionContext struct {
	UserID string
	Email  string
	Roles  []string
	Locale string
}

// ResourceDefinition describes one administrable collection: its identity,
// the actions its rows support, and the schema its forms validate against.
type ResourceDefinition struct {
	Code                 string            `json:"code" yaml:"code"`
	Name                 string            `json:"name" yaml:"name"`
	NameLocalized        map[string]string `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string            `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Actions              []ActionKind      `json:"actions,omitempty" yaml:"actions,omitempty"`
	ReasonRequired       []ActionKind      `json:"reason_required,omitempty" yaml:"reason_required,omitempty"`
	FormSchema           map[string]any    `json:"form_schema,omitempty" yaml:"form_schema,omitempty"`
	PageSize             int               `json:"page_size,omitempty" yaml:"page_size,omitempty"`
}

// RequiresReason reports whether the kind needs a justification before the
// confirmation dialog may submit.
func (def ResourceDefinition) RequiresReason(kind ActionKind) bool {
	for _, k := range def.ReasonRequired {
		if k == kind {
			return true
		}
	}
	return false
}

// Supports reports whether the resource offers the action at all.
func (def ResourceDefinition) Supports(kind ActionKind) bool {
	for _, k := range def.Actions {
		if k == kind {
			return true
		}
	}
	return false
}

// Row is the type-erased projection of one list item used by transports and
// templates. Typed controllers keep the concrete record; Row is only for
// rendering.
type Row struct {
	ID     int64          `json:"id"`
	Label  string         `json:"label"`
	Status string         `json:"status"`
	Fields map[string]any `json:"fields,omitempty"`
}

// SectionPage is one resolved page of a resource collection.
type SectionPage struct {
	Resource   string `json:"resource"`
	Rows       []Row  `json:"rows"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

// ResourceEvent describes a mutation transports might care about; it feeds
// the refresh broadcast so other sessions re-fetch their lists.
type ResourceEvent struct {
	Resource string `json:"resource"`
	EntityID int64  `json:"entity_id"`
	Action   string `json:"action"`
	Reason   string `json:"reason,omitempty"`
}

// RefreshHook notifies transports (WebSocket/SSE) about resource changes.
type RefreshHook interface {
	ResourceUpdated(ctx context.Context, event ResourceEvent) error
}

// PreferenceStore persists per-administrator view preferences.
type PreferenceStore interface {
	ViewPreferences(ctx context.Context, session SessionContext) (ViewPreferences, error)
	SaveViewPreferences(ctx context.Context, session SessionContext, prefs ViewPreferences) error
}

// ViewPreferences captures per-administrator adjustments to the console.
type ViewPreferences struct {
	DefaultSection string              `json:"default_section"`
	PageSize       int                 `json:"page_size"`
	HiddenColumns  map[string][]string `json:"hidden_columns"`
	Locale         string              `json:"locale"`
}

// ResourceRegistry stores resource bindings discoverable via hooks or
// manifests.
type ResourceRegistry interface {
	RegisterDefinition(def ResourceDefinition) error
	RegisterBinding(binding ResourceBinding) error
	Definition(code string) (ResourceDefinition, bool)
	Binding(code string) (ResourceBinding, bool)
	Definitions() []ResourceDefinition
	SectionCodes() []string
}

// ResourceBinding connects a definition to the backend calls that serve it.
// List and Submit are required; Delete is optional for resources whose only
// destructive operation goes through Submit.
type ResourceBinding struct {
	Definition ResourceDefinition
	List       func(ctx context.Context, query backend.ListQuery) (SectionPage, error)
	Submit     func(ctx context.Context, req backend.ActionRequest) error
	Delete     func(ctx context.Context, entityID int64) error
}

// FormValidator validates form payloads against a resource schema before any
// request leaves the client.
type FormValidator interface {
	Validate(def ResourceDefinition, payload map[string]any) error
}
