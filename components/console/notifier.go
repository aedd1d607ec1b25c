package console

import (
	"sync"
	"time"
)

// DefaultNotificationTTL is how long a message stays visible without a
// manual dismissal.
const DefaultNotificationTTL = 6 * time.Second

// Notifier is the console's single-slot message channel. Publishing while a
// message is visible replaces it; there is no queue. Messages auto-dismiss
// after the TTL unless dismissed first.
type Notifier struct {
	mu       sync.Mutex
	current  NotificationMessage
	visible  bool
	gen      uint64
	ttl      time.Duration
	onChange func(NotificationMessage, bool)
}

// NotifierOption customizes a Notifier.
type NotifierOption func(*Notifier)

// WithNotificationTTL overrides the auto-dismiss duration.
func WithNotificationTTL(ttl time.Duration) NotifierOption {
	return func(n *Notifier) {
		n.ttl = ttl
	}
}

// WithNotifierObserver registers a callback invoked on every change with the
// current message and its visibility. Used by transports to push toasts.
func WithNotifierObserver(fn func(NotificationMessage, bool)) NotifierOption {
	return func(n *Notifier) {
		n.onChange = fn
	}
}

// NewNotifier builds a notifier with the default TTL.
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{ttl: DefaultNotificationTTL}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify publishes a message, replacing any visible one (last write wins).
func (n *Notifier) Notify(text string, severity Severity) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.current = NotificationMessage{Text: text, Severity: severity}
	n.visible = true
	msg := n.current
	onChange := n.onChange
	ttl := n.ttl
	n.mu.Unlock()

	if onChange != nil {
		onChange(msg, true)
	}
	if ttl > 0 {
		time.AfterFunc(ttl, func() {
			n.expire(gen)
		})
	}
}

// Dismiss hides the current message immediately.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.gen++
	n.visible = false
	msg := n.current
	onChange := n.onChange
	n.mu.Unlock()
	if onChange != nil {
		onChange(msg, false)
	}
}

// Current returns the live message, if one is visible.
func (n *Notifier) Current() (NotificationMessage, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// expire clears the slot only if no newer message or dismissal superseded
// the timer that fired.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if n.gen != gen || !n.visible {
		n.mu.Unlock()
		return
	}
	n.visible = false
	msg := n.current
	onChange := n.onChange
	n.mu.Unlock()
	if onChange != nil {
		onChange(msg, false)
	}
}
