package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/eventops/go-admin-console/pkg/backend"
)

// FlowState is the confirmation dialog's position in its lifecycle.
type FlowState int

const (
	// FlowClosed: no pending action, dialog hidden.
	FlowClosed FlowState = iota
	// FlowAwaitingConfirmation: dialog open, waiting for the administrator
	// to confirm or cancel. The reason field is editable.
	FlowAwaitingConfirmation
	// FlowSubmitting: exactly one mutation request in flight; the confirm
	// control is disabled until it resolves.
	FlowSubmitting
)

// String reports the state name for telemetry payloads.
func (s FlowState) String() string {
	switch s {
	case FlowClosed:
		return "closed"
	case FlowAwaitingConfirmation:
		return "awaiting_confirmation"
	case FlowSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	errFlowBusy      = errors.New("console: another action is awaiting confirmation")
	errMissingSubmit = errors.New("console: resource has no submit binding")
)

type flowConfig struct {
	definition ResourceDefinition
	submit     func(ctx context.Context, req backend.ActionRequest) error
	notifier   *Notifier
	telemetry  Telemetry
	onSuccess  func(ctx context.Context)
}

// ActionFlow is the uniform two-step confirmation state machine shared by
// every moderation-style operation. Per-resource differences (endpoint,
// action set, reason rules) live entirely in the config; the transitions are
// identical for all resources.
type ActionFlow struct {
	cfg flowConfig

	mu      sync.Mutex
	state   FlowState
	pending PendingAction
}

func newActionFlow(cfg flowConfig) *ActionFlow {
	cfg.telemetry = normalizeTelemetry(cfg.telemetry)
	if cfg.notifier == nil {
		cfg.notifier = NewNotifier()
	}
	return &ActionFlow{cfg: cfg}
}

// Open transitions Closed → AwaitingConfirmation with a fresh pending
// action. Opening while another action is pending or submitting fails.
func (f *ActionFlow) Open(pending PendingAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowClosed {
		return errFlowBusy
	}
	f.pending = pending
	f.state = FlowAwaitingConfirmation
	return nil
}

// SetReason updates the justification text while the dialog is open.
func (f *ActionFlow) SetReason(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowAwaitingConfirmation {
		return
	}
	f.pending.Reason = reason
}

// State returns the current flow state.
func (f *ActionFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Pending returns the action under confirmation, if any.
func (f *ActionFlow) Pending() (PendingAction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, f.state != FlowClosed
}

// CanConfirm reports whether the confirm control should be enabled: the
// dialog must be awaiting confirmation and the reason guard satisfied.
func (f *ActionFlow) CanConfirm() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FlowAwaitingConfirmation {
		return false
	}
	return !f.cfg.definition.RequiresReason(f.pending.Kind) ||
		strings.TrimSpace(f.pending.Reason) != ""
}

// Confirm submits the pending action.
//
// Guards: a kind that requires a reason will not submit with an empty one,
// and no request leaves the client. While a submission is in flight further
// confirms are rejected, so at most one mutation per pending action is ever
// outstanding.
//
// Success closes the dialog, notifies success, and invokes the parent
// refresh exactly once. Failure returns to AwaitingConfirmation with the
// reason text untouched so the administrator need not retype it.
func (f *ActionFlow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	switch f.state {
	case FlowClosed:
		f.mu.Unlock()
		return errNoPendingAction
	case FlowSubmitting:
		f.mu.Unlock()
		return errSubmitInProgress
	}
	pending := f.pending
	if f.cfg.definition.RequiresReason(pending.Kind) && strings.TrimSpace(pending.Reason) == "" {
		f.mu.Unlock()
		return errReasonRequired
	}
	if f.cfg.submit == nil {
		f.mu.Unlock()
		return errMissingSubmit
	}
	f.state = FlowSubmitting
	f.mu.Unlock()

	err := f.cfg.submit(ctx, backend.ActionRequest{
		EntityID: pending.EntityID,
		Action:   string(pending.Kind),
		Reason:   strings.TrimSpace(pending.Reason),
	})

	f.mu.Lock()
	if err != nil {
		// Failure path: keep the dialog open, preserve the reason.
		f.state = FlowAwaitingConfirmation
		f.mu.Unlock()
		f.cfg.notifier.Notify(backend.UserMessage(err), SeverityError)
		f.cfg.telemetry.Record(ctx, "console.action.failed", map[string]any{
			"resource": f.cfg.definition.Code,
			"action":   string(pending.Kind),
			"error":    err.Error(),
		})
		return err
	}
	f.state = FlowClosed
	f.pending = PendingAction{}
	f.mu.Unlock()

	f.cfg.notifier.Notify(successMessage(pending), SeveritySuccess)
	f.cfg.telemetry.Record(ctx, "console.action.applied", map[string]any{
		"resource":  f.cfg.definition.Code,
		"action":    string(pending.Kind),
		"entity_id": pending.EntityID,
	})
	if f.cfg.onSuccess != nil {
		f.cfg.onSuccess(ctx)
	}
	return nil
}

// Cancel transitions AwaitingConfirmation → Closed, discarding the pending
// action without any network call. Cancelling mid-submit is refused.
func (f *ActionFlow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case FlowClosed:
		return nil
	case FlowSubmitting:
		return errSubmitInProgress
	}
	f.state = FlowClosed
	f.pending = PendingAction{}
	return nil
}

func successMessage(pending PendingAction) string {
	label := pending.EntityLabel
	if label == "" {
		label = fmt.Sprintf("#%d", pending.EntityID)
	}
	return fmt.Sprintf("%s: %s applied", label, pending.Kind)
}
