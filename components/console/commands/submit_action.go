package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
)

type actionService interface {
	SubmitAction(ctx context.Context, input console.SubmitActionInput) error
}

// SubmitActionCommand wraps Service.SubmitAction so transports can dispatch
// confirmed moderation actions without linking against the service.
type SubmitActionCommand struct {
	service   actionService
	telemetry Telemetry
}

// NewSubmitActionCommand creates a command instance.
func NewSubmitActionCommand(service actionService, telemetry Telemetry) *SubmitActionCommand {
	return &SubmitActionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[console.SubmitActionInput] = (*SubmitActionCommand)(nil)

// Execute delegates to the console service.
func (c *SubmitActionCommand) Execute(ctx context.Context, msg console.SubmitActionInput) error {
	if c.service == nil {
		return errors.New("submit action command requires service")
	}
	ctx = console.ContextWithSession(ctx, msg.Session)
	if err := c.service.SubmitAction(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.action.dispatch", map[string]any{
		"resource":  msg.Resource,
		"action":    string(msg.Kind),
		"entity_id": msg.EntityID,
	})
	return nil
}
