package console

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/eventops/go-admin-console/pkg/backend"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	reqs    []backend.ActionRequest
	err     error
	block   chan struct{}
	started chan struct{}
}

func (s *fakeSubmitter) submit(ctx context.Context, req backend.ActionRequest) error {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	block, started := s.block, s.started
	s.mu.Unlock()
	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	return s.err
}

func (s *fakeSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

func newTestFlow(submitter *fakeSubmitter, onSuccess func(ctx context.Context)) *ActionFlow {
	return newActionFlow(flowConfig{
		definition: listDefinition(),
		submit:     submitter.submit,
		notifier:   NewNotifier(),
		onSuccess:  onSuccess,
	})
}

func TestActionFlowOpenAndCancel(t *testing.T) {
	flow := newTestFlow(&fakeSubmitter{}, nil)
	if flow.State() != FlowClosed {
		t.Fatalf("initial state = %s", flow.State())
	}

	if err := flow.Open(PendingAction{EntityID: 1, Kind: ActionApprove}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if flow.State() != FlowAwaitingConfirmation {
		t.Fatalf("state after open = %s", flow.State())
	}
	if err := flow.Open(PendingAction{EntityID: 2, Kind: ActionApprove}); !errors.Is(err, errFlowBusy) {
		t.Fatalf("second Open error = %v", err)
	}

	if err := flow.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if flow.State() != FlowClosed {
		t.Fatalf("state after cancel = %s", flow.State())
	}
	if _, ok := flow.Pending(); ok {
		t.Fatal("pending action survived cancel")
	}
}

func TestActionFlowReasonGuard(t *testing.T) {
	submitter := &fakeSubmitter{}
	flow := newTestFlow(submitter, nil)

	// Reject requires a reason; an empty one must not reach the client.
	if err := flow.Open(PendingAction{EntityID: 1, Kind: ActionReject}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if flow.CanConfirm() {
		t.Fatal("CanConfirm true with empty required reason")
	}
	if err := flow.Confirm(context.Background()); !errors.Is(err, errReasonRequired) {
		t.Fatalf("Confirm error = %v", err)
	}
	if submitter.count() != 0 {
		t.Fatalf("submit called %d times, want 0", submitter.count())
	}
	if flow.State() != FlowAwaitingConfirmation {
		t.Fatalf("state after refused confirm = %s", flow.State())
	}

	// Whitespace does not satisfy the guard.
	flow.SetReason("   ")
	if flow.CanConfirm() {
		t.Fatal("CanConfirm true with whitespace reason")
	}

	flow.SetReason("policy violation")
	if !flow.CanConfirm() {
		t.Fatal("CanConfirm false with a reason set")
	}
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if submitter.reqs[0].Reason != "policy violation" {
		t.Fatalf("submitted reason = %q", submitter.reqs[0].Reason)
	}
}

func TestActionFlowSuccessRefreshesOnce(t *testing.T) {
	refreshes := 0
	submitter := &fakeSubmitter{}
	flow := newTestFlow(submitter, func(ctx context.Context) { refreshes++ })

	if err := flow.Open(PendingAction{EntityID: 5, EntityLabel: "Spring Gala", Kind: ActionApprove}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if flow.State() != FlowClosed {
		t.Fatalf("state after success = %s", flow.State())
	}
	if refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", refreshes)
	}
	req := submitter.reqs[0]
	if req.EntityID != 5 || req.Action != "approve" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestActionFlowFailureKeepsReason(t *testing.T) {
	refreshes := 0
	submitErr := errors.New("backend unavailable")
	submitter := &fakeSubmitter{err: submitErr}
	flow := newTestFlow(submitter, func(ctx context.Context) { refreshes++ })

	if err := flow.Open(PendingAction{EntityID: 9, Kind: ActionReject, Reason: "spam listing"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := flow.Confirm(context.Background()); !errors.Is(err, submitErr) {
		t.Fatalf("Confirm error = %v", err)
	}

	if flow.State() != FlowAwaitingConfirmation {
		t.Fatalf("state after failure = %s", flow.State())
	}
	pending, ok := flow.Pending()
	if !ok || pending.Reason != "spam listing" {
		t.Fatalf("reason not preserved: %+v ok=%v", pending, ok)
	}
	if refreshes != 0 {
		t.Fatalf("refresh ran on failure: %d", refreshes)
	}

	// The administrator retries without retyping.
	submitter.err = nil
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatalf("retry Confirm: %v", err)
	}
	if refreshes != 1 {
		t.Fatalf("refreshes after retry = %d, want 1", refreshes)
	}
}

func TestActionFlowRejectsConcurrentConfirm(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	submitter := &fakeSubmitter{block: block, started: started}
	flow := newTestFlow(submitter, nil)

	if err := flow.Open(PendingAction{EntityID: 1, Kind: ActionApprove}); err != nil {
		t.Fatalf("Open: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- flow.Confirm(context.Background())
	}()
	<-started
	if flow.State() != FlowSubmitting {
		t.Fatalf("state mid-submit = %s", flow.State())
	}

	if err := flow.Confirm(context.Background()); !errors.Is(err, errSubmitInProgress) {
		t.Fatalf("second Confirm error = %v", err)
	}
	if err := flow.Cancel(); !errors.Is(err, errSubmitInProgress) {
		t.Fatalf("Cancel mid-submit error = %v", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	if submitter.count() != 1 {
		t.Fatalf("submit called %d times, want 1", submitter.count())
	}
}

func TestActionFlowConfirmWithoutPending(t *testing.T) {
	flow := newTestFlow(&fakeSubmitter{}, nil)
	if err := flow.Confirm(context.Background()); !errors.Is(err, errNoPendingAction) {
		t.Fatalf("Confirm error = %v", err)
	}
}

func TestFlowStateString(t *testing.T) {
	cases := map[FlowState]string{
		FlowClosed:               "closed",
		FlowAwaitingConfirmation: "awaiting_confirmation",
		FlowSubmitting:           "submitting",
		FlowState(99):            "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("FlowState(%d).String() = %q, want %q", state, got, want)
		}
	}
}
