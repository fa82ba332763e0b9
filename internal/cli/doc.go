// Package cli holds the pieces shared by the twitchauth commands: global
// flags, user-facing error types with exit-code semantics, table output and
// the progress spinner.
//
// Output is rendered with go-pretty tables and colors. Errors returned to
// cobra carry actionable guidance; cmd maps them to exit codes.
package cli
