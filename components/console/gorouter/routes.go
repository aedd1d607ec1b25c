package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	console "github.com/eventops/go-admin-console/components/console"
	"github.com/eventops/go-admin-console/components/console/commands"
	"github.com/eventops/go-admin-console/components/console/httpapi"
	"github.com/eventops/go-admin-console/components/console/queries"
)

// SessionResolver converts a router.Context into a console.SessionContext.
type SessionResolver func(router.Context) console.SessionContext

// Config wires go-router with console controllers, APIs, and hooks.
type Config[T any] struct {
	Router          router.Router[T]
	Controller      *console.Controller
	API             httpapi.Executor
	Broadcast       *console.BroadcastHook
	SessionResolver SessionResolver
	BasePath        string
	Routes          RouteConfig
}

// RouteConfig customizes the relative paths used for console endpoints.
type RouteConfig struct {
	HTML      string
	State     string
	Section   string
	Actions   string
	Users     string
	Refresh   string
	Export    string
	WebSocket string
}

// Register mounts console routes (HTML, JSON, REST, WebSocket) on a go-router
// router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.SessionResolver
	if resolver == nil {
		resolver = defaultSessionResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		reqCtx := console.ContextWithSession(ctx.Context(), resolver(ctx))
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(reqCtx, &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
		reqCtx := console.ContextWithSession(ctx.Context(), resolver(ctx))
		return ctx.JSON(http.StatusOK, cfg.Controller.Payload(reqCtx))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver SessionResolver, routes RouteConfig) {
	r.Get(routes.Section, router.WrapHandler(func(ctx router.Context) error {
		code := ctx.Param("resource")
		if code == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("resource code is required"))
		}
		page, _ := strconv.Atoi(ctx.Query("page"))
		input := queries.SectionInput{
			Resource: code,
			Page:     page,
			Filters: console.Filters{
				Search:   ctx.Query("search"),
				Status:   ctx.Query("status"),
				Role:     ctx.Query("role"),
				Category: ctx.Query("category"),
			},
		}
		result, err := api.Section(ctx.Context(), input)
		if err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Post(routes.Actions, router.WrapHandler(func(ctx router.Context) error {
		var payload console.SubmitActionInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Session = resolver(ctx)
		if err := api.Submit(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "submitted"})
	}))

	r.Post(routes.Users, router.WrapHandler(func(ctx router.Context) error {
		var payload console.CreateUserInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Session = resolver(ctx)
		if err := api.CreateUser(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusUnprocessableEntity, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var event console.ResourceEvent
		if err := json.Unmarshal(ctx.Body(), &event); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Refresh(ctx.Context(), commands.BroadcastRefreshInput{Event: event}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Get(routes.Export, router.WrapHandler(func(ctx router.Context) error {
		eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("event id is required"))
		}
		format := console.ExportFormat(ctx.Query("format"))
		if format == "" {
			format = console.ExportCSV
		}
		var buf bytes.Buffer
		input := commands.ExportEventInput{EventID: eventID, Format: format, Out: &buf}
		if err := api.Export(ctx.Context(), input); err != nil {
			return respondError(ctx, http.StatusBadGateway, err)
		}
		if format == console.ExportExcel {
			ctx.SetHeader("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		} else {
			ctx.SetHeader("Content-Type", "text/csv")
		}
		return ctx.Send(buf.Bytes())
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *console.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultSessionResolver(ctx router.Context) console.SessionContext {
	var session console.SessionContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		session.UserID = v
	}
	if v, ok := ctx.Locals("email").(string); ok {
		session.Email = v
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		session.Roles = roles
	}
	session.Locale = inferLocale(ctx)
	return session
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Param("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/console"
	}
	if routes.State == "" {
		routes.State = "/console/_state"
	}
	if routes.Section == "" {
		routes.Section = "/console/sections/:resource"
	}
	if routes.Actions == "" {
		routes.Actions = "/console/actions"
	}
	if routes.Users == "" {
		routes.Users = "/console/users"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/console/refresh"
	}
	if routes.Export == "" {
		routes.Export = "/console/events/:id/export"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/console/ws"
	}
	return routes
}
