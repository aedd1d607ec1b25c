package commands

import (
	"context"
	"errors"
	"io"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
)

// ExportEventInput selects the event and format to export.
type ExportEventInput struct {
	EventID int64
	Format  console.ExportFormat
	Out     io.Writer
}

type exportService interface {
	ExportEvent(ctx context.Context, eventID int64, format console.ExportFormat, out io.Writer) error
}

// ExportEventCommand streams a backend export through the service.
type ExportEventCommand struct {
	service   exportService
	telemetry Telemetry
}

// NewExportEventCommand creates the command.
func NewExportEventCommand(service exportService, telemetry Telemetry) *ExportEventCommand {
	return &ExportEventCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ExportEventInput] = (*ExportEventCommand)(nil)

// Execute streams the export to the provided writer.
func (c *ExportEventCommand) Execute(ctx context.Context, msg ExportEventInput) error {
	if c.service == nil {
		return errors.New("export command requires service")
	}
	if msg.Out == nil {
		return errors.New("export command requires an output writer")
	}
	if err := c.service.ExportEvent(ctx, msg.EventID, msg.Format, msg.Out); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.event.exported", map[string]any{
		"event_id": msg.EventID,
		"format":   string(msg.Format),
	})
	return nil
}
