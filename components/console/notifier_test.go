package console

import (
	"testing"
	"time"
)

func TestNotifierLastWriteWins(t *testing.T) {
	n := NewNotifier(WithNotificationTTL(0))
	n.Notify("first", SeveritySuccess)
	n.Notify("second", SeverityError)

	msg, visible := n.Current()
	if !visible {
		t.Fatal("expected a visible message")
	}
	if msg.Text != "second" || msg.Severity != SeverityError {
		t.Fatalf("expected newest message, got %#v", msg)
	}
}

func TestNotifierDismiss(t *testing.T) {
	n := NewNotifier(WithNotificationTTL(0))
	n.Notify("hello", SeverityInfo)
	n.Dismiss()
	if _, visible := n.Current(); visible {
		t.Fatal("expected message to be dismissed")
	}
}

func TestNotifierAutoDismissAfterTTL(t *testing.T) {
	n := NewNotifier(WithNotificationTTL(10 * time.Millisecond))
	n.Notify("transient", SeverityWarning)

	deadline := time.Now().Add(time.Second)
	for {
		if _, visible := n.Current(); !visible {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("message never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNotifierStaleTimerDoesNotClearNewerMessage(t *testing.T) {
	n := NewNotifier(WithNotificationTTL(20 * time.Millisecond))
	n.Notify("old", SeverityInfo)
	time.Sleep(5 * time.Millisecond)
	n.Notify("new", SeverityInfo)

	// Wait past the first message's TTL but not the second's.
	time.Sleep(20 * time.Millisecond)
	msg, visible := n.Current()
	if !visible {
		t.Fatal("newer message was cleared by the older message's timer")
	}
	if msg.Text != "new" {
		t.Fatalf("unexpected message %q", msg.Text)
	}
}

func TestNotifierObserverSeesChanges(t *testing.T) {
	var seen []bool
	n := NewNotifier(
		WithNotificationTTL(0),
		WithNotifierObserver(func(_ NotificationMessage, visible bool) {
			seen = append(seen, visible)
		}),
	)
	n.Notify("toast", SeveritySuccess)
	n.Dismiss()
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("unexpected observer sequence %v", seen)
	}
}
