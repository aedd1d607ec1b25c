package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// HTTPConfig configures the HTTP backend client.
type HTTPConfig struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// HTTPClient talks to the ticketing platform's admin REST API. It attaches
// the shared bearer token and a per-request id, and classifies every failure
// into the backend error taxonomy. It never retries: surfacing the error so
// the operator can retry explicitly is the console's contract.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient builds a client for a live admin API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		client:  httpClient,
	}, nil
}

var _ Client = (*HTTPClient)(nil)

// ListUsers implements UserDirectory.
func (c *HTTPClient) ListUsers(ctx context.Context, query ListQuery) (Page[User], error) {
	return fetchPage[User](ctx, c, "/admin/all_users/", query)
}

// ManageUser implements UserDirectory by posting a moderation action.
func (c *HTTPClient) ManageUser(ctx context.Context, req ActionRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/manage_user/", nil, actionBody("user_id", req), nil)
}

// CreateUser implements UserDirectory.
func (c *HTTPClient) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	var created User
	if err := c.do(ctx, http.MethodPost, "/admin/create_user/", nil, input, &created); err != nil {
		return User{}, err
	}
	return created, nil
}

// ListEvents implements EventCatalog.
func (c *HTTPClient) ListEvents(ctx context.Context, query ListQuery) (Page[Event], error) {
	return fetchPage[Event](ctx, c, "/admin/all_events/", query)
}

// ModerateEvent implements EventCatalog.
func (c *HTTPClient) ModerateEvent(ctx context.Context, req ActionRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/moderate_event/", nil, actionBody("event_id", req), nil)
}

// DeleteEvent implements EventCatalog.
func (c *HTTPClient) DeleteEvent(ctx context.Context, eventID int64) error {
	path := fmt.Sprintf("/admin/events/%d/delete/", eventID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// EventDetail implements EventCatalog.
func (c *HTTPClient) EventDetail(ctx context.Context, eventID int64) (EventDetail, error) {
	var detail EventDetail
	path := fmt.Sprintf("/admin/events/%d/detail/", eventID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &detail); err != nil {
		return EventDetail{}, err
	}
	return detail, nil
}

// EventHistory implements EventCatalog.
func (c *HTTPClient) EventHistory(ctx context.Context, eventID int64) ([]ModerationEntry, error) {
	var entries []ModerationEntry
	path := fmt.Sprintf("/admin/events/%d/history/", eventID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRefunds implements RefundDesk.
func (c *HTTPClient) ListRefunds(ctx context.Context, query ListQuery) (Page[Refund], error) {
	return fetchPage[Refund](ctx, c, "/admin/refunds/", query)
}

// ProcessRefund implements RefundDesk.
func (c *HTTPClient) ProcessRefund(ctx context.Context, req ActionRequest) error {
	return c.do(ctx, http.MethodPost, "/admin/process_refund/", nil, actionBody("refund_id", req), nil)
}

// ListCategories implements Taxonomy.
func (c *HTTPClient) ListCategories(ctx context.Context, query ListQuery) (Page[Category], error) {
	return fetchPage[Category](ctx, c, "/categories_management/", query)
}

// ListTags implements Taxonomy.
func (c *HTTPClient) ListTags(ctx context.Context, query ListQuery) (Page[Tag], error) {
	return fetchPage[Tag](ctx, c, "/tags_management/", query)
}

// DeleteCategory implements Taxonomy.
func (c *HTTPClient) DeleteCategory(ctx context.Context, categoryID int64) error {
	path := fmt.Sprintf("/categories_management/%d/", categoryID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// DeleteTag implements Taxonomy.
func (c *HTTPClient) DeleteTag(ctx context.Context, tagID int64) error {
	path := fmt.Sprintf("/tags_management/%d/", tagID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Analytics implements Reports.
func (c *HTTPClient) Analytics(ctx context.Context) (AnalyticsReport, error) {
	var report AnalyticsReport
	if err := c.do(ctx, http.MethodGet, "/admin/analytics/", nil, nil, &report); err != nil {
		return AnalyticsReport{}, err
	}
	return report, nil
}

// PredictiveAnalytics implements Reports.
func (c *HTTPClient) PredictiveAnalytics(ctx context.Context) (PredictiveReport, error) {
	var report PredictiveReport
	if err := c.do(ctx, http.MethodGet, "/admin/predictive_analytics/", nil, nil, &report); err != nil {
		return PredictiveReport{}, err
	}
	return report, nil
}

// SystemHealth implements Reports.
func (c *HTTPClient) SystemHealth(ctx context.Context) (SystemHealth, error) {
	var health SystemHealth
	if err := c.do(ctx, http.MethodGet, "/admin/system_health/", nil, nil, &health); err != nil {
		return SystemHealth{}, err
	}
	return health, nil
}

// GlobalStats implements Reports.
func (c *HTTPClient) GlobalStats(ctx context.Context) (GlobalStats, error) {
	var stats GlobalStats
	if err := c.do(ctx, http.MethodGet, "/admin/global_stats/", nil, nil, &stats); err != nil {
		return GlobalStats{}, err
	}
	return stats, nil
}

// TrainModels implements MLOps.
func (c *HTTPClient) TrainModels(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/train_ml_models/", nil, struct{}{}, nil)
}

// PredictFillRate implements MLOps.
func (c *HTTPClient) PredictFillRate(ctx context.Context, req PredictionRequest) (FillForecast, error) {
	var forecast FillForecast
	if err := c.do(ctx, http.MethodPost, "/admin/predict_fill_rate/", nil, req, &forecast); err != nil {
		return FillForecast{}, err
	}
	return forecast, nil
}

// OptimizePricing implements MLOps.
func (c *HTTPClient) OptimizePricing(ctx context.Context, req PricingRequest) (PricingSuggestion, error) {
	var suggestion PricingSuggestion
	if err := c.do(ctx, http.MethodPost, "/admin/optimize_pricing/", nil, req, &suggestion); err != nil {
		return PricingSuggestion{}, err
	}
	return suggestion, nil
}

// ExportEventCSV implements Exporter.
func (c *HTTPClient) ExportEventCSV(ctx context.Context, eventID int64, out io.Writer) error {
	path := fmt.Sprintf("/api/admin/events/%d/export_csv/", eventID)
	return c.download(ctx, path, out)
}

// ExportEventExcel implements Exporter.
func (c *HTTPClient) ExportEventExcel(ctx context.Context, eventID int64, out io.Writer) error {
	path := fmt.Sprintf("/api/admin/events/%d/export_excel/", eventID)
	return c.download(ctx, path, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, payload any, target any) error {
	resp, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := c.check(resp, path); err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) download(ctx context.Context, path string, out io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := c.check(resp, path); err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("backend: stream %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, query url.Values, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	return resp, nil
}

func (c *HTTPClient) check(resp *http.Response, path string) error {
	if resp.StatusCode < 300 {
		return nil
	}
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, io.LimitReader(resp.Body, 4096))
	return &APIError{
		Status: resp.StatusCode,
		Path:   path,
		Detail: buf.String(),
		kind:   classifyStatus(resp.StatusCode),
	}
}

func fetchPage[T any](ctx context.Context, c *HTTPClient, path string, query ListQuery) (Page[T], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query.values(), nil, &raw); err != nil {
		return Page[T]{}, err
	}
	page, err := decodePage[T](raw)
	if err != nil {
		return Page[T]{}, fmt.Errorf("backend: decode %s page: %w", path, err)
	}
	return page, nil
}

// decodePage tolerates both response shapes seen in the wild: the paginated
// {"results": [...], "total_pages": n} wrapper and a bare JSON array.
func decodePage[T any](raw json.RawMessage) (Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, err
		}
		return Page[T]{Items: items, TotalPages: 1}, nil
	}
	var wrapper struct {
		Results    []T `json:"results"`
		TotalPages int `json:"total_pages"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return Page[T]{}, err
	}
	if wrapper.TotalPages <= 0 {
		wrapper.TotalPages = 1
	}
	return Page[T]{Items: wrapper.Results, TotalPages: wrapper.TotalPages}, nil
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Role != "" {
		values.Set("role", q.Role)
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	return values
}

func actionBody(idField string, req ActionRequest) map[string]any {
	body := map[string]any{
		idField:  req.EntityID,
		"action": req.Action,
	}
	if req.Reason != "" {
		body["reason"] = req.Reason
	}
	return body
}
