package console

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/eventops/go-admin-console/pkg/backend"
)

type countingReports struct {
	mu       sync.Mutex
	stats    int
	health   int
	statsErr error
}

func (r *countingReports) Analytics(context.Context) (backend.AnalyticsReport, error) {
	return backend.AnalyticsReport{}, nil
}

func (r *countingReports) PredictiveAnalytics(context.Context) (backend.PredictiveReport, error) {
	return backend.PredictiveReport{}, nil
}

func (r *countingReports) SystemHealth(context.Context) (backend.SystemHealth, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.health++
	return backend.SystemHealth{Status: "ok"}, nil
}

func (r *countingReports) GlobalStats(context.Context) (backend.GlobalStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats++
	return backend.GlobalStats{TotalUsers: 42}, r.statsErr
}

func (r *countingReports) statsCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func shellFixture(t *testing.T) (*Shell, *backend.MockClient, *countingReports) {
	t.Helper()
	client := backend.NewMockClient(backend.MockData{
		Users: []backend.User{
			{ID: 1, Email: "owner@example.com", Role: "admin", IsActive: true},
		},
		Events: []backend.Event{
			{ID: 10, Title: "Spring Gala", Status: "pending"},
			{ID: 11, Title: "Tech Summit", Status: "published"},
		},
		Refunds: []backend.Refund{
			{ID: 20, EventTitle: "Spring Gala", Status: "pending"},
		},
	})
	reports := &countingReports{}
	shell, err := NewShell(ShellConfig{
		Service:  NewService(Options{Client: client}),
		Reports:  reports,
		Catalog:  client,
		Exporter: client,
		Session:  adminSession(),
	})
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	return shell, client, reports
}

func TestShellStartLoadsMetricsAndFirstSection(t *testing.T) {
	shell, _, reports := shellFixture(t)

	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	metrics := shell.Metrics()
	if metrics.Phase != PhaseLoaded || metrics.Stats.TotalUsers != 42 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if reports.statsCalls() != 1 {
		t.Fatalf("stats calls = %d, want 1", reports.statsCalls())
	}

	active := shell.ActiveSection()
	if active.Code() != ResourceUsers {
		t.Fatalf("active section = %s", active.Code())
	}
	if active.State().Phase != PhaseLoaded {
		t.Fatalf("first section phase = %s", active.State().Phase)
	}

	// Other sections stay idle until visited.
	events, _ := shell.Section(ResourceEvents)
	if events.State().Phase != PhaseIdle {
		t.Fatalf("unvisited section phase = %s", events.State().Phase)
	}
}

func TestShellSelectTabDoesNotTouchMetrics(t *testing.T) {
	shell, _, reports := shellFixture(t)
	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := shell.SelectTab(context.Background(), ResourceEvents); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	if err := shell.SelectTab(context.Background(), ResourceRefunds); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}

	if reports.statsCalls() != 1 {
		t.Fatalf("tab switches re-fetched metrics: %d calls", reports.statsCalls())
	}

	if err := shell.RefreshMetrics(context.Background()); err != nil {
		t.Fatalf("RefreshMetrics: %v", err)
	}
	if reports.statsCalls() != 2 {
		t.Fatalf("stats calls after explicit refresh = %d, want 2", reports.statsCalls())
	}
}

func TestShellRevisitedTabKeepsState(t *testing.T) {
	shell, _, _ := shellFixture(t)
	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := shell.SelectTab(context.Background(), ResourceEvents); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	events, _ := shell.Section(ResourceEvents)
	if err := events.Load(context.Background(), Filters{Status: "pending"}, 1); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Leave and come back: the filter survives and no reload happens.
	if err := shell.SelectTab(context.Background(), ResourceUsers); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	if err := shell.SelectTab(context.Background(), ResourceEvents); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	if got := events.State().Filters.Status; got != "pending" {
		t.Fatalf("filters reset on revisit: %q", got)
	}

	if err := shell.SelectTab(context.Background(), "admin.resource.nope"); !errors.Is(err, errUnknownSection) {
		t.Fatalf("unknown section error = %v", err)
	}
}

func TestShellTabs(t *testing.T) {
	shell, _, _ := shellFixture(t)

	tabs := shell.Tabs()
	if len(tabs) != 5 {
		t.Fatalf("tabs = %d, want 5", len(tabs))
	}
	if tabs[0].Code != ResourceUsers || !tabs[0].Active {
		t.Fatalf("first tab = %+v", tabs[0])
	}
	for _, tab := range tabs[1:] {
		if tab.Active {
			t.Fatalf("inactive tab marked active: %+v", tab)
		}
	}
}

func TestShellTabsLocalizedNames(t *testing.T) {
	client := backend.NewMockClient(backend.MockData{})
	shell, err := NewShell(ShellConfig{
		Service: NewService(Options{Client: client}),
		Session: SessionContext{UserID: "admin-1", Locale: "fr"},
	})
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}

	tabs := shell.Tabs()
	if tabs[0].Name != "Utilisateurs" {
		t.Fatalf("tab name = %q, want Utilisateurs", tabs[0].Name)
	}
}

func TestShellSectionActionRoutesThroughService(t *testing.T) {
	shell, client, _ := shellFixture(t)
	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	users := shell.ActiveSection()
	if err := users.RequestAction(1, ActionSuspend); err != nil {
		t.Fatalf("RequestAction: %v", err)
	}
	users.Flow().SetReason("chargeback abuse")
	if err := users.Flow().Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	actions := client.Actions()
	if len(actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(actions))
	}
	if actions[0].EntityID != 1 || actions[0].Action != "suspend" || actions[0].Reason != "chargeback abuse" {
		t.Fatalf("unexpected action: %+v", actions[0])
	}
	if users.Flow().State() != FlowClosed {
		t.Fatalf("flow state after confirm = %s", users.Flow().State())
	}
}

func TestShellMetricsFailureDoesNotBlockSections(t *testing.T) {
	client := backend.NewMockClient(backend.MockData{
		Users: []backend.User{{ID: 1, Email: "owner@example.com"}},
	})
	reports := &countingReports{statsErr: errors.New("stats backend down")}
	shell, err := NewShell(ShellConfig{
		Service: NewService(Options{Client: client}),
		Reports: reports,
		Session: adminSession(),
	})
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}

	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if shell.Metrics().Phase != PhaseFailed {
		t.Fatalf("metrics phase = %s", shell.Metrics().Phase)
	}
	if shell.ActiveSection().State().Phase != PhaseLoaded {
		t.Fatalf("section did not load: %s", shell.ActiveSection().State().Phase)
	}
	if msg, ok := shell.Notifier().Current(); !ok || msg.Severity != SeverityError {
		t.Fatalf("expected error toast, got %+v ok=%v", msg, ok)
	}
}

func TestShellCreateUserRefreshesUsersSection(t *testing.T) {
	shell, _, _ := shellFixture(t)
	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	created, err := shell.CreateUser(context.Background(), CreateUserInput{
		Email:    "new@example.com",
		Password: "s3cret-pass",
		Role:     "organizer",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("created user has no id: %+v", created)
	}

	users, _ := shell.Section(ResourceUsers)
	rows := users.Rows()
	if len(rows) != 2 {
		t.Fatalf("users rows = %d, want 2 after refresh", len(rows))
	}
	if msg, ok := shell.Notifier().Current(); !ok || msg.Severity != SeveritySuccess {
		t.Fatalf("expected success toast, got %+v ok=%v", msg, ok)
	}
}

func TestShellDetailCloseLeavesListUntouched(t *testing.T) {
	shell, client, _ := shellFixture(t)
	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := shell.SelectTab(context.Background(), ResourceEvents); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}
	section, ok := shell.Section(ResourceEvents)
	if !ok {
		t.Fatal("events section missing")
	}
	before := section.State()

	detail := shell.Detail()
	if err := detail.Open(context.Background(), 10); err != nil {
		t.Fatalf("Open: %v", err)
	}
	detail.Close()

	if got := section.State(); !reflect.DeepEqual(got, before) {
		t.Fatalf("list state changed by open/close:\nbefore %+v\nafter  %+v", before, got)
	}
	if len(client.Actions()) != 0 || len(client.Deletes()) != 0 {
		t.Fatalf("open/close reached the backend: actions=%v deletes=%v", client.Actions(), client.Deletes())
	}
}

func TestShellDetailActionRefreshesEvents(t *testing.T) {
	shell, client, _ := shellFixture(t)
	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := shell.SelectTab(context.Background(), ResourceEvents); err != nil {
		t.Fatalf("SelectTab: %v", err)
	}

	detail := shell.Detail()
	if detail == nil {
		t.Fatal("detail controller not wired")
	}
	if err := detail.Open(context.Background(), 10); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := detail.Reject(context.Background(), "policy violation"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if detail.IsOpen() {
		t.Fatal("modal still open after reject")
	}
	actions := client.Actions()
	if len(actions) != 1 || actions[0].Action != "reject" {
		t.Fatalf("unexpected actions: %+v", actions)
	}
}
