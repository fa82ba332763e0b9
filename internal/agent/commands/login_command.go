package commands

import (
	"context"
	"errors"

	"twitchauth/internal/auth"
	"twitchauth/internal/cli"
)

// LoginCommand runs an interactive sign-in.
type LoginCommand struct {
	*BaseCommand
}

// NewLoginCommand creates a new login command
func NewLoginCommand(session SessionController, output OutputLogger) *LoginCommand {
	return &LoginCommand{BaseCommand: NewBaseCommand(session, output)}
}

// Execute signs in. Signing in again while signed in replaces the session.
func (l *LoginCommand) Execute(ctx context.Context, args []string) error {
	if err := l.session.SignIn(ctx); err != nil {
		if errors.Is(err, auth.ErrSignInInProgress) {
			l.output.Info("A sign in is already in progress")
			return nil
		}
		return err
	}

	s := l.session.Session()
	if !s.IsAuthenticated() {
		l.output.Info("Sign in was not completed")
		return nil
	}

	l.output.Success("Signed in as %s", cli.DisplayName(*s.User))
	return nil
}

// Usage returns the usage string
func (l *LoginCommand) Usage() string {
	return "login"
}

// Description returns the command description
func (l *LoginCommand) Description() string {
	return "Sign in with your browser"
}

// Aliases returns command aliases
func (l *LoginCommand) Aliases() []string {
	return []string{"signin"}
}
