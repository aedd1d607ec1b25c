package console

import (
	"context"
	"fmt"
	"io"

	"github.com/eventops/go-admin-console/pkg/backend"
)

// Controller prepares shell state for rendering and exposes JSON payloads
// for the client runtime.
type Controller struct {
	shell      *Shell
	renderer   Renderer
	translator TranslationService
	analytics  *AnalyticsController
}

// ControllerOption customizes the controller.
type ControllerOption func(*Controller)

// WithTranslator localizes tab names and dialog prompts.
func WithTranslator(svc TranslationService) ControllerOption {
	return func(c *Controller) {
		c.translator = svc
	}
}

// WithAnalytics attaches the analytics tab controller.
func WithAnalytics(analytics *AnalyticsController) ControllerOption {
	return func(c *Controller) {
		c.analytics = analytics
	}
}

// NewController wires the shell and renderer into a controller.
func NewController(shell *Shell, renderer Renderer, options ...ControllerOption) *Controller {
	c := &Controller{shell: shell, renderer: renderer}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// ConsolePayload is the JSON projection of the current console state.
type ConsolePayload struct {
	Tabs         []TabInfo            `json:"tabs"`
	Section      SectionView          `json:"section"`
	Metrics      map[string]any       `json:"metrics"`
	Notification *NotificationMessage `json:"notification,omitempty"`
}

// SectionView is the rendering projection of the active section.
type SectionView struct {
	Resource   string       `json:"resource"`
	Phase      string       `json:"phase"`
	Error      string       `json:"error,omitempty"`
	Rows       []RowView    `json:"rows"`
	Actions    []ActionKind `json:"actions"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Dialog     DialogView   `json:"dialog"`
}

// RowView is one rendered row with its localized status label.
type RowView struct {
	ID          int64  `json:"id"`
	Label       string `json:"label"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
}

// DialogView is the rendering projection of the confirmation dialog.
type DialogView struct {
	Open           bool   `json:"open"`
	Prompt         string `json:"prompt,omitempty"`
	Reason         string `json:"reason,omitempty"`
	ReasonRequired bool   `json:"reason_required"`
	CanConfirm     bool   `json:"can_confirm"`
	Submitting     bool   `json:"submitting"`
}

// RenderTemplate renders the full console page for the shell's session.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return fmt.Errorf("console: controller requires a renderer")
	}
	data := c.templateData(ctx)
	_, err := c.renderer.Render("console", data, out)
	return err
}

// Payload returns the console state for JSON transports.
func (c *Controller) Payload(ctx context.Context) ConsolePayload {
	payload := ConsolePayload{
		Tabs:    c.localizedTabs(ctx),
		Metrics: metricsData(c.shell.Metrics()),
	}
	if section := c.shell.ActiveSection(); section != nil {
		payload.Section = c.sectionView(section)
	}
	if msg, ok := c.shell.Notifier().Current(); ok {
		payload.Notification = &msg
	}
	return payload
}

func (c *Controller) templateData(ctx context.Context) map[string]any {
	session := c.shell.Session()
	data := map[string]any{
		"session": map[string]any{
			"user_id": session.UserID,
			"email":   session.Email,
			"locale":  session.Locale,
		},
		"tabs":    c.localizedTabs(ctx),
		"metrics": metricsData(c.shell.Metrics()),
	}
	if section := c.shell.ActiveSection(); section != nil {
		view := c.sectionView(section)
		data["section"] = map[string]any{
			"resource":    view.Resource,
			"phase":       view.Phase,
			"error":       view.Error,
			"rows":        view.Rows,
			"actions":     view.Actions,
			"page":        view.Page,
			"total_pages": view.TotalPages,
		}
		data["dialog"] = map[string]any{
			"open":            view.Dialog.Open,
			"prompt":          view.Dialog.Prompt,
			"reason":          view.Dialog.Reason,
			"reason_required": view.Dialog.ReasonRequired,
			"can_confirm":     view.Dialog.CanConfirm,
			"submitting":      view.Dialog.Submitting,
		}
	}
	if msg, ok := c.shell.Notifier().Current(); ok {
		data["notification"] = map[string]any{
			"text":     msg.Text,
			"severity": string(msg.Severity),
		}
	}
	if c.analytics != nil {
		state := c.analytics.State()
		analytics := map[string]any{
			"phase":           state.Phase.String(),
			"revenue_html":    state.Charts.RevenueHTML,
			"tickets_html":    state.Charts.TicketsHTML,
			"categories_html": state.Charts.CategoriesHTML,
			"forecast_html":   state.Charts.ForecastHTML,
		}
		if state.Err != nil {
			analytics["error"] = backend.UserMessage(state.Err)
		}
		data["analytics"] = analytics
	}
	return data
}

func (c *Controller) localizedTabs(ctx context.Context) []TabInfo {
	session := c.shell.Session()
	tabs := c.shell.Tabs()
	for i := range tabs {
		key := fmt.Sprintf("console.section.%s.name", tabs[i].Code)
		tabs[i].Name = translateOrFallback(ctx, c.translator, key, session.Locale, tabs[i].Name, nil)
	}
	return tabs
}

func (c *Controller) sectionView(section *ListController[Row]) SectionView {
	session := c.shell.Session()
	state := section.State()
	def := section.Definition()
	view := SectionView{
		Resource:   def.Code,
		Phase:      state.Phase.String(),
		Actions:    def.Actions,
		Page:       state.Page,
		TotalPages: state.TotalPages,
		Rows:       make([]RowView, 0, len(state.Items)),
	}
	if state.Err != nil {
		view.Error = backend.UserMessage(state.Err)
	}
	for _, row := range state.Items {
		view.Rows = append(view.Rows, RowView{
			ID:          row.ID,
			Label:       row.Label,
			Status:      row.Status,
			StatusLabel: StatusLabel(row.Status, session.Locale),
		})
	}
	view.Dialog = dialogView(section.Flow(), def, session.Locale)
	return view
}

func dialogView(flow *ActionFlow, def ResourceDefinition, locale string) DialogView {
	state := flow.State()
	if state == FlowClosed {
		return DialogView{}
	}
	pending, ok := flow.Pending()
	if !ok {
		return DialogView{}
	}
	label := pending.EntityLabel
	if label == "" {
		label = fmt.Sprintf("#%d", pending.EntityID)
	}
	return DialogView{
		Open:           true,
		Prompt:         fmt.Sprintf("Confirm %s for %s?", pending.Kind, label),
		Reason:         pending.Reason,
		ReasonRequired: def.RequiresReason(pending.Kind),
		CanConfirm:     flow.CanConfirm(),
		Submitting:     state == FlowSubmitting,
	}
}

func metricsData(metrics MetricsState) map[string]any {
	data := map[string]any{
		"loaded": metrics.Phase == PhaseLoaded,
		"failed": metrics.Phase == PhaseFailed,
	}
	if metrics.Phase == PhaseLoaded {
		data["total_users"] = metrics.Stats.TotalUsers
		data["active_users"] = metrics.Stats.ActiveUsers
		data["total_events"] = metrics.Stats.TotalEvents
		data["published_events"] = metrics.Stats.PublishedEvents
		data["pending_refunds"] = metrics.Stats.PendingRefunds
		data["total_revenue"] = metrics.Stats.TotalRevenue
		data["health_status"] = metrics.Health.Status
	}
	if metrics.Err != nil {
		data["error"] = backend.UserMessage(metrics.Err)
	}
	return data
}
