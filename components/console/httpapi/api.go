package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
	"github.com/eventops/go-admin-console/components/console/commands"
	"github.com/eventops/go-admin-console/components/console/queries"
)

// Executor is the command surface transports invoke. Both the plain HTTP
// handlers and the go-router transport share it.
type Executor interface {
	Submit(ctx context.Context, input console.SubmitActionInput) error
	CreateUser(ctx context.Context, input console.CreateUserInput) error
	Refresh(ctx context.Context, input commands.BroadcastRefreshInput) error
	Section(ctx context.Context, input queries.SectionInput) (console.SectionPage, error)
	Export(ctx context.Context, input commands.ExportEventInput) error
}

// CommandExecutor adapts the shared commands to the Executor interface.
type CommandExecutor struct {
	SubmitCmd     gocommand.Commander[console.SubmitActionInput]
	CreateUserCmd gocommand.Commander[console.CreateUserInput]
	RefreshCmd    gocommand.Commander[commands.BroadcastRefreshInput]
	SectionQry    gocommand.Querier[queries.SectionInput, console.SectionPage]
	ExportCmd     gocommand.Commander[commands.ExportEventInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Submit(ctx context.Context, input console.SubmitActionInput) error {
	return e.SubmitCmd.Execute(ctx, input)
}

func (e *CommandExecutor) CreateUser(ctx context.Context, input console.CreateUserInput) error {
	return e.CreateUserCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.BroadcastRefreshInput) error {
	return e.RefreshCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Section(ctx context.Context, input queries.SectionInput) (console.SectionPage, error) {
	return e.SectionQry.Query(ctx, input)
}

func (e *CommandExecutor) Export(ctx context.Context, input commands.ExportEventInput) error {
	return e.ExportCmd.Execute(ctx, input)
}

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API Executor
}

// HandleSection resolves one page of a resource collection as JSON.
func (h *Handlers) HandleSection(w http.ResponseWriter, r *http.Request, resource string) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	input := queries.SectionInput{
		Resource: resource,
		Page:     page,
		Filters: console.Filters{
			Search:   query.Get("search"),
			Status:   query.Get("status"),
			Role:     query.Get("role"),
			Category: query.Get("category"),
		},
	}
	result, err := h.API.Section(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleSubmitAction dispatches a confirmed moderation action.
func (h *Handlers) HandleSubmitAction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Resource string `json:"resource"`
		EntityID int64  `json:"entity_id"`
		Action   string `json:"action"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := console.SubmitActionInput{
		Resource: payload.Resource,
		EntityID: payload.EntityID,
		Kind:     console.ActionKind(payload.Action),
		Reason:   payload.Reason,
		Session:  console.SessionFromContext(r.Context()),
	}
	if err := h.API.Submit(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleCreateUser creates a user account from the cross-tab form.
func (h *Handlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := console.CreateUserInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      payload.Role,
		Session:   console.SessionFromContext(r.Context()),
	}
	if err := h.API.CreateUser(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleRefresh broadcasts a resource event to connected sessions.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var event console.ResourceEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.Refresh(r.Context(), commands.BroadcastRefreshInput{Event: event}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleExport streams an event export in the requested format.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request, eventID int64) {
	format := console.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = console.ExportCSV
	}
	switch format {
	case console.ExportCSV:
		w.Header().Set("Content-Type", "text/csv")
	case console.ExportExcel:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	input := commands.ExportEventInput{EventID: eventID, Format: format, Out: w}
	if err := h.API.Export(r.Context(), input); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
}
