package commands

import (
	"context"

	"twitchauth/internal/cli"
)

// StatusCommand shows the local session state without network access.
type StatusCommand struct {
	*BaseCommand
}

// NewStatusCommand creates a new status command
func NewStatusCommand(session SessionController, output OutputLogger) *StatusCommand {
	return &StatusCommand{BaseCommand: NewBaseCommand(session, output)}
}

// Execute renders the session snapshot.
func (s *StatusCommand) Execute(ctx context.Context, args []string) error {
	cli.RenderStatus(s.output.Writer(), s.session.Session())
	return nil
}

// Usage returns the usage string
func (s *StatusCommand) Usage() string {
	return "status"
}

// Description returns the command description
func (s *StatusCommand) Description() string {
	return "Show the session state"
}
