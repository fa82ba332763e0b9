package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"twitchauth/internal/session"
	pkgstrings "twitchauth/pkg/strings"
)

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("%s %v", text.FgRed.Sprint("Error:"), err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return text.FgGreen.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return text.FgYellow.Sprintf("⚠ %s", msg)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderUser writes the profile of user as a key/value table.
func RenderUser(w io.Writer, user session.User) {
	t := newTable(w)
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("FIELD"), text.FgHiCyan.Sprint("VALUE")})
	t.AppendRow(table.Row{"ID", user.ID.String()})
	t.AppendRow(table.Row{"Login", orDash(user.Login)})
	t.AppendRow(table.Row{"Display name", orDash(user.DisplayName)})
	t.AppendRow(table.Row{"Email", orDash(user.Email)})
	t.AppendRow(table.Row{"Profile image", orDash(pkgstrings.Truncate(user.ProfileImageURL, pkgstrings.DefaultValueMaxLen))})
	t.Render()
}

// RenderStatus writes a summary of s. The access token is never shown.
func RenderStatus(w io.Writer, s session.Session) {
	t := newTable(w)
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("SESSION"), ""})

	if s.IsAuthenticated() {
		t.AppendRow(table.Row{"Status", text.FgGreen.Sprint("Signed in")})
		t.AppendRow(table.Row{"User", DisplayName(*s.User)})
		t.AppendRow(table.Row{"Signed in", s.AuthenticatedAt.Format(time.RFC3339)})
		t.AppendRow(table.Row{"Token", s.AccessToken.String()})
	} else {
		t.AppendRow(table.Row{"Status", text.FgYellow.Sprint("Not signed in")})
	}

	switch {
	case s.IsLoggingIn:
		t.AppendRow(table.Row{"Activity", "Signing in"})
	case s.IsLoggingOut:
		t.AppendRow(table.Row{"Activity", "Signing out"})
	}
	t.Render()
}

// DisplayName returns the name shown for u in prompts and messages.
func DisplayName(u session.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Login != "" {
		return u.Login
	}
	return u.ID.String()
}

func orDash(s string) string {
	if s == "" {
		return text.FgHiBlack.Sprint("-")
	}
	return s
}
