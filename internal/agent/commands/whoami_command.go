package commands

import (
	"context"
	"fmt"

	"twitchauth/internal/cli"
	"twitchauth/internal/helix"
)

// WhoamiCommand fetches the signed-in user's profile from the API.
type WhoamiCommand struct {
	*BaseCommand
}

// NewWhoamiCommand creates a new whoami command
func NewWhoamiCommand(session SessionController, output OutputLogger) *WhoamiCommand {
	return &WhoamiCommand{BaseCommand: NewBaseCommand(session, output)}
}

// Execute prints the current profile. A token the provider no longer
// accepts ends the session.
func (w *WhoamiCommand) Execute(ctx context.Context, args []string) error {
	if !w.session.Session().IsAuthenticated() {
		w.output.Info("Not signed in. Run 'login' to sign in.")
		return nil
	}

	user, err := w.session.CurrentUser(ctx)
	if err != nil {
		if helix.IsUnauthorized(err) {
			w.output.Error("The session has expired or was revoked")
			_ = w.session.SignOut(ctx)
			return nil
		}
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	cli.RenderUser(w.output.Writer(), user)
	return nil
}

// Usage returns the usage string
func (w *WhoamiCommand) Usage() string {
	return "whoami"
}

// Description returns the command description
func (w *WhoamiCommand) Description() string {
	return "Show the signed-in user's profile"
}

// Aliases returns command aliases
func (w *WhoamiCommand) Aliases() []string {
	return []string{"me"}
}
