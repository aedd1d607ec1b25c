package activity

import "context"

// DefaultChannel is stamped on events that do not name their own channel.
const DefaultChannel = "console"

// Config toggles activity emission and sets the default channel.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter applies config defaults before forwarding events to hooks.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter builds an emitter; without hooks it is disabled regardless of
// config so callers can emit unconditionally.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	return &Emitter{hooks: hooks, cfg: cfg}
}

// Enabled reports whether Emit will do anything.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit forwards the event to all hooks, stamping the default channel.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if evt.Channel == "" {
		evt.Channel = e.cfg.Channel
	}
	return e.hooks.Notify(ctx, evt)
}
