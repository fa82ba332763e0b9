// Package agent implements the interactive shell of twitchauth.
//
// The shell owns one session for its lifetime. Commands are provided by the
// commands subpackage and dispatched through a commands.Registry; input is
// read with readline, which gives history and tab completion. The prompt
// shows who is signed in.
//
// Leaving the shell signs out an active session, since the session exists
// only in memory.
package agent
