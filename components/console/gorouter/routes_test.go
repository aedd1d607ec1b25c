package gorouter

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	router "github.com/goliatone/go-router"

	console "github.com/eventops/go-admin-console/components/console"
	"github.com/eventops/go-admin-console/components/console/commands"
	"github.com/eventops/go-admin-console/components/console/queries"
	"github.com/eventops/go-admin-console/pkg/backend"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestRegisterHTMLRoute(t *testing.T) {
	mock := newMockRouter()
	renderer := &stubRenderer{}
	controller := newTestController(t, renderer)

	cfg := Config[struct{}]{
		Router:     mock,
		Controller: controller,
		API:        noopExecutor{},
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h, ok := mock.routes["GET:/admin/console"]
	if !ok {
		t.Fatalf("expected console route to be registered")
	}

	ctx := newMockContext()
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(ctx.body) == 0 {
		t.Fatalf("expected response body")
	}
	if renderer.calls == 0 {
		t.Fatalf("renderer not invoked")
	}
	if got := ctx.headers["Content-Type"]; !strings.HasPrefix(got, "text/html") {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestRegisterStateRoute(t *testing.T) {
	mock := newMockRouter()
	controller := newTestController(t, &stubRenderer{})

	cfg := Config[struct{}]{
		Router:     mock,
		Controller: controller,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h, ok := mock.routes["GET:/admin/console/_state"]
	if !ok {
		t.Fatalf("expected state route to be registered")
	}

	ctx := newMockContext()
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var payload console.ConsolePayload
	if err := json.Unmarshal(ctx.body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Tabs) == 0 {
		t.Fatalf("expected tabs in payload")
	}
}

func TestSectionRouteMapsQueryParams(t *testing.T) {
	mock := newMockRouter()
	exec := &captureExecutor{}

	cfg := Config[struct{}]{
		Router:     mock,
		Controller: newTestController(t, &stubRenderer{}),
		API:        exec,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h := mock.routes["GET:/admin/console/sections/:resource"]
	if h == nil {
		t.Fatalf("expected section route to be registered")
	}

	ctx := newMockContext()
	ctx.params["resource"] = console.ResourceEvents
	ctx.query["page"] = "3"
	ctx.query["status"] = "pending"
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if exec.section.Resource != console.ResourceEvents {
		t.Fatalf("unexpected resource %q", exec.section.Resource)
	}
	if exec.section.Page != 3 {
		t.Fatalf("unexpected page %d", exec.section.Page)
	}
	if exec.section.Filters.Status != "pending" {
		t.Fatalf("unexpected status filter %q", exec.section.Filters.Status)
	}

	// Missing resource code is a client error.
	bad := newMockContext()
	if err := h(bad); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if bad.status != 400 {
		t.Fatalf("expected 400 for missing resource, got %d", bad.status)
	}
}

func TestActionRouteResolvesSession(t *testing.T) {
	mock := newMockRouter()
	exec := &captureExecutor{}

	cfg := Config[struct{}]{
		Router:     mock,
		Controller: newTestController(t, &stubRenderer{}),
		API:        exec,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h := mock.routes["POST:/admin/console/actions"]
	if h == nil {
		t.Fatalf("expected actions route to be registered")
	}

	ctx := newMockContext()
	ctx.locals["user_id"] = "moderator-7"
	ctx.reqBody = []byte(`{"resource":"` + console.ResourceEvents + `","entity_id":10,"action":"approve"}`)
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 200 {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	if exec.submit.Session.UserID != "moderator-7" {
		t.Fatalf("session not resolved, got %q", exec.submit.Session.UserID)
	}
	if exec.submit.Kind != console.ActionApprove {
		t.Fatalf("unexpected action %q", exec.submit.Kind)
	}
}

func TestExportRouteSetsContentType(t *testing.T) {
	mock := newMockRouter()
	exec := &captureExecutor{}

	cfg := Config[struct{}]{
		Router:     mock,
		Controller: newTestController(t, &stubRenderer{}),
		API:        exec,
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	h := mock.routes["GET:/admin/console/events/:id/export"]
	if h == nil {
		t.Fatalf("expected export route to be registered")
	}

	ctx := newMockContext()
	ctx.params["id"] = "42"
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if exec.export.EventID != 42 {
		t.Fatalf("unexpected event id %d", exec.export.EventID)
	}
	if exec.export.Format != console.ExportCSV {
		t.Fatalf("expected csv default, got %q", exec.export.Format)
	}
	if got := ctx.headers["Content-Type"]; got != "text/csv" {
		t.Fatalf("unexpected content type %q", got)
	}

	bad := newMockContext()
	bad.params["id"] = "not-a-number"
	if err := h(bad); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if bad.status != 400 {
		t.Fatalf("expected 400 for bad id, got %d", bad.status)
	}
}

func TestDefaultSessionResolverLocale(t *testing.T) {
	ctx := newMockContext()
	ctx.locals["user_id"] = "admin-1"
	ctx.headers["Accept-Language"] = "fr-CA;q=0.9, en;q=0.5"

	session := defaultSessionResolver(ctx)
	if session.UserID != "admin-1" {
		t.Fatalf("unexpected user id %q", session.UserID)
	}
	if session.Locale != "fr-ca" {
		t.Fatalf("unexpected locale %q", session.Locale)
	}

	ctx.locals["locale"] = "es"
	if got := defaultSessionResolver(ctx).Locale; got != "es" {
		t.Fatalf("locals should win, got %q", got)
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"en-US,en;q=0.9":  "en-us",
		" fr ; q=0.8, en": "fr",
		"":                "",
		",,":              "",
	}
	for header, want := range cases {
		if got := parseAcceptLanguage(header); got != want {
			t.Fatalf("parseAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}

// --- Test helpers ---

func newTestController(t *testing.T, renderer console.Renderer) *console.Controller {
	t.Helper()
	client := backend.NewMockClient(backend.MockData{
		Users: []backend.User{{ID: 1, Email: "ada@example.com", FirstName: "Ada", Role: "admin", IsActive: true}},
	})
	_, shell, err := console.Bootstrap(console.BootstrapConfig{
		Client:  client,
		Session: console.SessionContext{UserID: "admin-1", Locale: "en"},
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := shell.Start(context.Background()); err != nil {
		t.Fatalf("start shell: %v", err)
	}
	return console.NewController(shell, renderer)
}

type mockRouter struct {
	router.Router[struct{}]
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	full := m.prefix + path
	m.routes[method+":"+full] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	full := m.prefix + path
	m.ws[full] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct{ router.RouteInfo }

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

// routerContext aliases router.Context so it can be embedded in mockContext
// without the field name colliding with the Context() method.
type routerContext = router.Context

type mockContext struct {
	routerContext
	ctx     context.Context
	headers map[string]string
	query   map[string]string
	body    []byte
	reqBody []byte
	locals  map[any]any
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		query:   map[string]string{},
		locals:  map[any]any{},
		params:  map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Header(name string) string {
	return m.headers[name]
}

func (m *mockContext) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	if m.status == 0 {
		m.status = 200
	}
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.reqBody }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Query(name string, defaultValue ...string) string {
	if v, ok := m.query[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("ok"))
	}
	return "ok", nil
}

type noopExecutor struct{}

func (noopExecutor) Submit(context.Context, console.SubmitActionInput) error { return nil }
func (noopExecutor) CreateUser(context.Context, console.CreateUserInput) error {
	return nil
}
func (noopExecutor) Refresh(context.Context, commands.BroadcastRefreshInput) error { return nil }
func (noopExecutor) Section(context.Context, queries.SectionInput) (console.SectionPage, error) {
	return console.SectionPage{}, nil
}
func (noopExecutor) Export(context.Context, commands.ExportEventInput) error { return nil }

type captureExecutor struct {
	section queries.SectionInput
	submit  console.SubmitActionInput
	export  commands.ExportEventInput
}

func (c *captureExecutor) Submit(_ context.Context, input console.SubmitActionInput) error {
	c.submit = input
	return nil
}

func (c *captureExecutor) CreateUser(context.Context, console.CreateUserInput) error { return nil }

func (c *captureExecutor) Refresh(context.Context, commands.BroadcastRefreshInput) error { return nil }

func (c *captureExecutor) Section(_ context.Context, input queries.SectionInput) (console.SectionPage, error) {
	c.section = input
	return console.SectionPage{}, nil
}

func (c *captureExecutor) Export(_ context.Context, input commands.ExportEventInput) error {
	c.export = input
	if input.Out != nil {
		input.Out.Write([]byte("id,name\n"))
	}
	return nil
}
