package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
)

// BroadcastRefreshInput emits a refresh notification for a resource change.
type BroadcastRefreshInput struct {
	Event console.ResourceEvent
}

type refreshNotifier interface {
	NotifyResourceUpdated(ctx context.Context, event console.ResourceEvent) error
}

// BroadcastRefreshCommand triggers refresh hooks without forcing transports
// to hold a service reference.
type BroadcastRefreshCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewBroadcastRefreshCommand creates the command.
func NewBroadcastRefreshCommand(service refreshNotifier, telemetry Telemetry) *BroadcastRefreshCommand {
	return &BroadcastRefreshCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[BroadcastRefreshInput] = (*BroadcastRefreshCommand)(nil)

// Execute notifies the console service's refresh hooks.
func (c *BroadcastRefreshCommand) Execute(ctx context.Context, msg BroadcastRefreshInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if err := c.service.NotifyResourceUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.resource.broadcast", map[string]any{
		"resource":  msg.Event.Resource,
		"entity_id": msg.Event.EntityID,
	})
	return nil
}
