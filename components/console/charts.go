package console

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/eventops/go-admin-console/pkg/backend"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ThemeResolver selects a chart theme per administrator.
type ThemeResolver func(SessionContext) string

// ChartRenderer turns analytics report series into server-side ECharts
// markup. Rendering is pure; the TTL cache keeps repeated analytics views
// from re-serializing identical reports.
type ChartRenderer struct {
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartThemeResolver resolves themes dynamically per administrator.
func WithChartThemeResolver(resolver ThemeResolver) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.themeResolver = resolver
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer with the shared cache.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RevenueChart renders the monthly revenue line chart.
func (r *ChartRenderer) RevenueChart(report backend.AnalyticsReport, session SessionContext) (string, error) {
	return r.cached("revenue", report, session, func() (string, error) {
		return r.renderLine("Revenue by month", report.RevenueByMonth, session)
	})
}

// TicketsChart renders the monthly ticket sales bar chart.
func (r *ChartRenderer) TicketsChart(report backend.AnalyticsReport, session SessionContext) (string, error) {
	return r.cached("tickets", report, session, func() (string, error) {
		return r.renderBar("Tickets by month", report.TicketsByMonth, session)
	})
}

// CategoryChart renders the events-per-category pie chart.
func (r *ChartRenderer) CategoryChart(report backend.AnalyticsReport, session SessionContext) (string, error) {
	return r.cached("categories", report, session, func() (string, error) {
		return r.renderPie("Events by category", report.EventsByCategory, session)
	})
}

// ForecastChart renders predicted fill rates as a bar chart, one bar per
// event.
func (r *ChartRenderer) ForecastChart(report backend.PredictiveReport, session SessionContext) (string, error) {
	return r.cached("forecast", report, session, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions("Predicted fill rates", "model "+report.ModelVersion, session)...)
		labels := make([]string, 0, len(report.Forecasts))
		data := make([]opts.BarData, 0, len(report.Forecasts))
		for _, forecast := range report.Forecasts {
			labels = append(labels, forecast.EventTitle)
			data = append(data, opts.BarData{Name: forecast.EventTitle, Value: forecast.Predicted})
		}
		bar.SetXAxis(labels)
		bar.AddSeries("Fill rate", data)
		return renderChart(bar)
	})
}

func (r *ChartRenderer) cached(kind string, report any, session SessionContext, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%s:%s", kind, r.resolveTheme(session), reportHash(report))
	return r.cache.GetOrRender(key, render)
}

func (r *ChartRenderer) renderLine(title string, points []backend.TimePoint, session SessionContext) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(title, "", session)...)
	line.SetXAxis(monthLabels(points))
	line.AddSeries(title, toLineData(points))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *ChartRenderer) renderBar(title string, points []backend.TimePoint, session SessionContext) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(title, "", session)...)
	bar.SetXAxis(monthLabels(points))
	bar.AddSeries(title, toBarData(points))
	return renderChart(bar)
}

func (r *ChartRenderer) renderPie(title string, slices []backend.CategorySlice, session SessionContext) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(title, "", session)...)
	pie.AddSeries(title, toPieData(slices))
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(title, subtitle string, session SessionContext) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.resolveTheme(session),
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func (r *ChartRenderer) resolveTheme(session SessionContext) string {
	if r.themeResolver != nil {
		if theme := r.themeResolver(session); theme != "" {
			return theme
		}
	}
	if r.theme != "" {
		return r.theme
	}
	return types.ThemeWesteros
}

func monthLabels(points []backend.TimePoint) []string {
	labels := make([]string, len(points))
	for i, point := range points {
		labels[i] = point.Date.Format("Jan 2006")
	}
	return labels
}

func toLineData(points []backend.TimePoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Value: point.Value}
	}
	return data
}

func toBarData(points []backend.TimePoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Value: point.Value}
	}
	return data
}

func toPieData(slices []backend.CategorySlice) []opts.PieData {
	data := make([]opts.PieData, len(slices))
	for i, slice := range slices {
		name := slice.Category
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: slice.Value}
	}
	return data
}
