package backend

import (
	"context"
	"io"
	"sync"
)

// MockData seeds deterministic backend responses for tests or local demos.
type MockData struct {
	Users      []User
	Events     []Event
	Refunds    []Refund
	Categories []Category
	Tags       []Tag
	Detail     EventDetail
	History    []ModerationEntry
	Analytics  AnalyticsReport
	Predictive PredictiveReport
	Health     SystemHealth
	Stats      GlobalStats
	ExportBody []byte
}

// MockClient implements Client using in-memory fixtures. Setting Err makes
// every call fail with it, which is how tests exercise failure paths.
type MockClient struct {
	mu      sync.RWMutex
	data    MockData
	err     error
	actions []ActionRequest
	deletes []int64
}

// NewMockClient builds a mock backend client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

var _ Client = (*MockClient)(nil)

// Fail makes every subsequent call return err; pass nil to restore success.
func (c *MockClient) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Actions returns a copy of every ActionRequest received so far.
func (c *MockClient) Actions() []ActionRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ActionRequest(nil), c.actions...)
}

// Deletes returns the ids passed to delete calls, in order.
func (c *MockClient) Deletes() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]int64(nil), c.deletes...)
}

// ListUsers returns the configured users ignoring query filters.
func (c *MockClient) ListUsers(context.Context, ListQuery) (Page[User], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return Page[User]{}, c.err
	}
	return Page[User]{Items: append([]User(nil), c.data.Users...), TotalPages: 1}, nil
}

// ManageUser records the action request.
func (c *MockClient) ManageUser(_ context.Context, req ActionRequest) error {
	return c.recordAction(req)
}

// CreateUser echoes the input back as a stored user.
func (c *MockClient) CreateUser(_ context.Context, input CreateUserInput) (User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return User{}, c.err
	}
	user := User{
		ID:        int64(len(c.data.Users) + 1),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
		IsActive:  true,
	}
	c.data.Users = append(c.data.Users, user)
	return user, nil
}

// ListEvents returns the configured events ignoring query filters.
func (c *MockClient) ListEvents(context.Context, ListQuery) (Page[Event], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return Page[Event]{}, c.err
	}
	return Page[Event]{Items: append([]Event(nil), c.data.Events...), TotalPages: 1}, nil
}

// ModerateEvent records the action request.
func (c *MockClient) ModerateEvent(_ context.Context, req ActionRequest) error {
	return c.recordAction(req)
}

// DeleteEvent records the deletion.
func (c *MockClient) DeleteEvent(_ context.Context, eventID int64) error {
	return c.recordDelete(eventID)
}

// EventDetail returns the configured detail fixture.
func (c *MockClient) EventDetail(context.Context, int64) (EventDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return EventDetail{}, c.err
	}
	return c.data.Detail, nil
}

// EventHistory returns the configured history fixture.
func (c *MockClient) EventHistory(context.Context, int64) ([]ModerationEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return nil, c.err
	}
	return append([]ModerationEntry(nil), c.data.History...), nil
}

// ListRefunds returns the configured refunds ignoring query filters.
func (c *MockClient) ListRefunds(context.Context, ListQuery) (Page[Refund], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return Page[Refund]{}, c.err
	}
	return Page[Refund]{Items: append([]Refund(nil), c.data.Refunds...), TotalPages: 1}, nil
}

// ProcessRefund records the action request.
func (c *MockClient) ProcessRefund(_ context.Context, req ActionRequest) error {
	return c.recordAction(req)
}

// ListCategories returns the configured categories.
func (c *MockClient) ListCategories(context.Context, ListQuery) (Page[Category], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return Page[Category]{}, c.err
	}
	return Page[Category]{Items: append([]Category(nil), c.data.Categories...), TotalPages: 1}, nil
}

// ListTags returns the configured tags.
func (c *MockClient) ListTags(context.Context, ListQuery) (Page[Tag], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return Page[Tag]{}, c.err
	}
	return Page[Tag]{Items: append([]Tag(nil), c.data.Tags...), TotalPages: 1}, nil
}

// DeleteCategory records the deletion.
func (c *MockClient) DeleteCategory(_ context.Context, categoryID int64) error {
	return c.recordDelete(categoryID)
}

// DeleteTag records the deletion.
func (c *MockClient) DeleteTag(_ context.Context, tagID int64) error {
	return c.recordDelete(tagID)
}

// Analytics returns the configured analytics report.
func (c *MockClient) Analytics(context.Context) (AnalyticsReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return AnalyticsReport{}, c.err
	}
	return c.data.Analytics, nil
}

// PredictiveAnalytics returns the configured predictive report.
func (c *MockClient) PredictiveAnalytics(context.Context) (PredictiveReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return PredictiveReport{}, c.err
	}
	return c.data.Predictive, nil
}

// SystemHealth returns the configured health fixture.
func (c *MockClient) SystemHealth(context.Context) (SystemHealth, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return SystemHealth{}, c.err
	}
	return c.data.Health, nil
}

// GlobalStats returns the configured stats fixture.
func (c *MockClient) GlobalStats(context.Context) (GlobalStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return GlobalStats{}, c.err
	}
	return c.data.Stats, nil
}

// TrainModels succeeds unless a failure is configured.
func (c *MockClient) TrainModels(context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// PredictFillRate returns the first configured forecast.
func (c *MockClient) PredictFillRate(_ context.Context, req PredictionRequest) (FillForecast, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return FillForecast{}, c.err
	}
	for _, forecast := range c.data.Predictive.Forecasts {
		if forecast.EventID == req.EventID {
			return forecast, nil
		}
	}
	return FillForecast{EventID: req.EventID}, nil
}

// OptimizePricing returns a deterministic suggestion.
func (c *MockClient) OptimizePricing(_ context.Context, req PricingRequest) (PricingSuggestion, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return PricingSuggestion{}, c.err
	}
	return PricingSuggestion{EventID: req.EventID}, nil
}

// ExportEventCSV writes the configured export body.
func (c *MockClient) ExportEventCSV(_ context.Context, _ int64, out io.Writer) error {
	return c.writeExport(out)
}

// ExportEventExcel writes the configured export body.
func (c *MockClient) ExportEventExcel(_ context.Context, _ int64, out io.Writer) error {
	return c.writeExport(out)
}

func (c *MockClient) writeExport(out io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return c.err
	}
	_, err := out.Write(c.data.ExportBody)
	return err
}

func (c *MockClient) recordAction(req ActionRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.actions = append(c.actions, req)
	return nil
}

func (c *MockClient) recordDelete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.deletes = append(c.deletes, id)
	return nil
}
