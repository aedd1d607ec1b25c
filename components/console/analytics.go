package console

import (
	"context"
	"sync"

	"github.com/eventops/go-admin-console/pkg/backend"
)

// ChartSet is the rendered markup for the analytics tab.
type ChartSet struct {
	RevenueHTML    string
	TicketsHTML    string
	CategoriesHTML string
	ForecastHTML   string
}

// AnalyticsState is the view state of the analytics tab.
type AnalyticsState struct {
	Report     backend.AnalyticsReport
	Predictive backend.PredictiveReport
	Charts     ChartSet
	Phase      FetchPhase
	Err        error
}

// AnalyticsConfig wires the analytics controller.
type AnalyticsConfig struct {
	Reports   backend.Reports
	Renderer  *ChartRenderer
	Notifier  *Notifier
	Telemetry Telemetry
	Session   SessionContext
}

// AnalyticsController loads the read-only analytics reports and renders them
// into chart markup. Like every other remote read, its state carries a tagged
// phase so the tab can show loading, data, or failure without ambiguity.
type AnalyticsController struct {
	cfg AnalyticsConfig

	mu    sync.Mutex
	seq   uint64
	state AnalyticsState
}

// NewAnalyticsController builds a controller with safe defaults.
func NewAnalyticsController(cfg AnalyticsConfig) (*AnalyticsController, error) {
	if cfg.Reports == nil {
		return nil, errMissingClient
	}
	if cfg.Renderer == nil {
		cfg.Renderer = NewChartRenderer()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewNotifier()
	}
	cfg.Telemetry = normalizeTelemetry(cfg.Telemetry)
	return &AnalyticsController{cfg: cfg}, nil
}

// Load fetches both reports and renders their charts, discarding the result
// if a newer load started while this one was in flight.
func (c *AnalyticsController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Phase = PhaseLoading
	c.state.Err = nil
	c.mu.Unlock()

	report, err := c.cfg.Reports.Analytics(ctx)
	if err != nil {
		return c.fail(ctx, seq, err)
	}
	predictive, err := c.cfg.Reports.PredictiveAnalytics(ctx)
	if err != nil {
		return c.fail(ctx, seq, err)
	}
	charts, err := c.renderCharts(report, predictive)
	if err != nil {
		return c.fail(ctx, seq, err)
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return nil
	}
	c.state = AnalyticsState{
		Report:     report,
		Predictive: predictive,
		Charts:     charts,
		Phase:      PhaseLoaded,
	}
	c.mu.Unlock()
	c.cfg.Telemetry.Record(ctx, "console.analytics.loaded", map[string]any{
		"forecasts": len(predictive.Forecasts),
	})
	return nil
}

func (c *AnalyticsController) renderCharts(report backend.AnalyticsReport, predictive backend.PredictiveReport) (ChartSet, error) {
	var set ChartSet
	var err error
	if set.RevenueHTML, err = c.cfg.Renderer.RevenueChart(report, c.cfg.Session); err != nil {
		return ChartSet{}, err
	}
	if set.TicketsHTML, err = c.cfg.Renderer.TicketsChart(report, c.cfg.Session); err != nil {
		return ChartSet{}, err
	}
	if set.CategoriesHTML, err = c.cfg.Renderer.CategoryChart(report, c.cfg.Session); err != nil {
		return ChartSet{}, err
	}
	if set.ForecastHTML, err = c.cfg.Renderer.ForecastChart(predictive, c.cfg.Session); err != nil {
		return ChartSet{}, err
	}
	return set, nil
}

func (c *AnalyticsController) fail(ctx context.Context, seq uint64, err error) error {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return nil
	}
	c.state.Phase = PhaseFailed
	c.state.Err = err
	c.mu.Unlock()
	c.cfg.Notifier.Notify(backend.UserMessage(err), SeverityError)
	c.cfg.Telemetry.Record(ctx, "console.analytics.failed", map[string]any{
		"error": err.Error(),
	})
	return err
}

// State returns a snapshot of the analytics tab state.
func (c *AnalyticsController) State() AnalyticsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
