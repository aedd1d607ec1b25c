package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
	"github.com/eventops/go-admin-console/pkg/backend"
)

type createUserService interface {
	CreateUser(ctx context.Context, input console.CreateUserInput) (backend.User, error)
}

// CreateUserCommand validates and submits the user creation form through the
// service and records telemetry for auditing purposes.
type CreateUserCommand struct {
	service   createUserService
	telemetry Telemetry
}

// NewCreateUserCommand builds a command instance.
func NewCreateUserCommand(service createUserService, telemetry Telemetry) *CreateUserCommand {
	return &CreateUserCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[console.CreateUserInput] = (*CreateUserCommand)(nil)

// Execute creates the user.
func (c *CreateUserCommand) Execute(ctx context.Context, msg console.CreateUserInput) error {
	if c.service == nil {
		return errors.New("create user command requires service")
	}
	ctx = console.ContextWithSession(ctx, msg.Session)
	created, err := c.service.CreateUser(ctx, msg)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.user.created", map[string]any{
		"user_id": created.ID,
		"role":    created.Role,
	})
	return nil
}
