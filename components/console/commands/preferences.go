package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
)

// SaveViewPreferencesInput captures per-administrator console adjustments.
type SaveViewPreferencesInput struct {
	Session     console.SessionContext  `json:"session"`
	Preferences console.ViewPreferences `json:"preferences"`
}

type preferenceService interface {
	SavePreferences(ctx context.Context, session console.SessionContext, prefs console.ViewPreferences) error
}

// SaveViewPreferencesCommand persists per-administrator view preferences.
type SaveViewPreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSaveViewPreferencesCommand creates the command.
func NewSaveViewPreferencesCommand(service preferenceService, telemetry Telemetry) *SaveViewPreferencesCommand {
	return &SaveViewPreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveViewPreferencesInput] = (*SaveViewPreferencesCommand)(nil)

// Execute stores the provided preferences for the administrator.
func (c *SaveViewPreferencesCommand) Execute(ctx context.Context, msg SaveViewPreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if msg.Session.UserID == "" {
		return errors.New("preferences command requires session user id")
	}
	if err := c.service.SavePreferences(ctx, msg.Session, msg.Preferences); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.preferences.save", map[string]any{
		"user_id":   msg.Session.UserID,
		"page_size": msg.Preferences.PageSize,
	})
	return nil
}
