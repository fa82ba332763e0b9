package commands

import (
	"context"
)

// LogoutCommand revokes the token and clears the session.
type LogoutCommand struct {
	*BaseCommand
}

// NewLogoutCommand creates a new logout command
func NewLogoutCommand(session SessionController, output OutputLogger) *LogoutCommand {
	return &LogoutCommand{BaseCommand: NewBaseCommand(session, output)}
}

// Execute signs out. It runs even without a session so that a stale state
// is always cleared.
func (l *LogoutCommand) Execute(ctx context.Context, args []string) error {
	wasSignedIn := l.session.Session().IsAuthenticated()

	if err := l.session.SignOut(ctx); err != nil {
		return err
	}

	if wasSignedIn {
		l.output.Success("Signed out")
	} else {
		l.output.Info("Not signed in")
	}
	return nil
}

// Usage returns the usage string
func (l *LogoutCommand) Usage() string {
	return "logout"
}

// Description returns the command description
func (l *LogoutCommand) Description() string {
	return "Revoke the access token and sign out"
}

// Aliases returns command aliases
func (l *LogoutCommand) Aliases() []string {
	return []string{"signout"}
}
