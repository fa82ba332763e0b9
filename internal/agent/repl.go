package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"twitchauth/internal/agent/commands"
	"twitchauth/internal/cli"
	pkgstrings "twitchauth/pkg/strings"
)

const promptPrefix = "twitch"

const (
	promptChevronUnicode = "»"
	promptChevronASCII   = ">"
)

// maxNameLength is the maximum length of the user name shown in the prompt.
const maxNameLength = 24

// commandExecutionTimeout bounds a single command. Sign-in waits for the
// browser for up to the callback timeout, so this is longer.
const commandExecutionTimeout = 15 * time.Minute

// signOutTimeout bounds the sign-out performed when the shell exits.
const signOutTimeout = 10 * time.Second

// Options configures a REPL.
type Options struct {
	// HistoryFile stores command history. Defaults to a file in the temp dir.
	HistoryFile string

	// Stdin and Stdout override the terminal, mainly for tests.
	Stdin  io.ReadCloser
	Stdout io.Writer
}

// REPL is the interactive shell. It owns the session of the controller for
// its lifetime.
type REPL struct {
	session     commands.SessionController
	logger      *Logger
	rl          *readline.Instance
	registry    *commands.Registry
	useUnicode  bool
	historyFile string
	stdin       io.ReadCloser
	stdout      io.Writer
}

// NewREPL creates a new REPL with all shell commands registered.
func NewREPL(session commands.SessionController, logger *Logger, opts Options) *REPL {
	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".twitchauth_history")
	}

	r := &REPL{
		session:     session,
		logger:      logger,
		registry:    commands.NewRegistry(),
		useUnicode:  detectUnicodeSupport(),
		historyFile: historyFile,
		stdin:       opts.Stdin,
		stdout:      opts.Stdout,
	}
	r.registerCommands()
	return r
}

// detectUnicodeSupport checks if the terminal likely supports unicode characters.
func detectUnicodeSupport() bool {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}

	for _, v := range []string{os.Getenv("LANG"), os.Getenv("LC_ALL")} {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "utf-8") || strings.Contains(lower, "utf8") {
			return true
		}
	}

	return !strings.HasPrefix(strings.ToLower(term), "vt")
}

func (r *REPL) registerCommands() {
	r.registry.Register("help", commands.NewHelpCommand(r.session, r.logger, r.registry))
	r.registry.Register("login", commands.NewLoginCommand(r.session, r.logger))
	r.registry.Register("logout", commands.NewLogoutCommand(r.session, r.logger))
	r.registry.Register("whoami", commands.NewWhoamiCommand(r.session, r.logger))
	r.registry.Register("status", commands.NewStatusCommand(r.session, r.logger))
	r.registry.Register("exit", commands.NewExitCommand(r.session, r.logger))
}

// buildPrompt creates the prompt. Format examples:
//   - "twitch » " when signed out
//   - "twitch [signed in as Ann] » " when signed in
func (r *REPL) buildPrompt() string {
	chevron := promptChevronASCII
	if r.useUnicode {
		chevron = promptChevronUnicode
	}

	parts := []string{promptPrefix}

	s := r.session.Session()
	switch {
	case s.IsLoggingIn:
		parts = append(parts, "[signing in]")
	case s.IsAuthenticated():
		parts = append(parts, fmt.Sprintf("[signed in as %s]", truncateName(cli.DisplayName(*s.User))))
	}

	parts = append(parts, chevron)
	return strings.Join(parts, " ") + " "
}

// truncateName shortens long names, keeping the start.
func truncateName(name string) string {
	return pkgstrings.Truncate(name, maxNameLength)
}

func (r *REPL) updatePrompt() {
	if r.rl != nil {
		r.rl.SetPrompt(r.buildPrompt())
	}
}

// ReadLine reads one line from the shell's terminal with a dedicated
// prompt. Interactors that need typed input use it while a command runs.
func (r *REPL) ReadLine() (string, error) {
	if r.rl == nil {
		return "", io.EOF
	}
	r.rl.SetPrompt("redirect URL> ")
	defer r.updatePrompt()

	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", nil
	}
	return line, err
}

func (r *REPL) createCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range r.registry.AllCompletions() {
		if name == "help" || name == "?" {
			var children []readline.PrefixCompleterInterface
			for _, sub := range r.registry.List() {
				children = append(children, readline.PcItem(sub))
			}
			items = append(items, readline.PcItem(name, children...))
			continue
		}
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

// executeCommand parses and executes a command using the registry.
// Ctrl+C while the command runs cancels the command, not the shell.
func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	commandName := strings.ToLower(parts[0])
	args := parts[1:]

	command, exists := r.registry.Get(commandName)
	if !exists {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	commandCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	commandCtx, cancel := context.WithTimeout(commandCtx, commandExecutionTimeout)
	defer cancel()

	return command.Execute(commandCtx, args)
}

// Run starts the shell and processes commands until exit, EOF or
// cancellation of ctx. An active session is signed out before returning.
func (r *REPL) Run(ctx context.Context) error {
	config := &readline.Config{
		Prompt:          r.buildPrompt(),
		HistoryFile:     r.historyFile,
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}
	if r.stdin != nil {
		config.Stdin = r.stdin
	}
	if r.stdout != nil {
		config.Stdout = r.stdout
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.logger.Info("Type 'help' for available commands. Use TAB for completion.")
	defer r.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		r.updatePrompt()
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if err := r.executeCommand(ctx, input); err != nil {
			if errors.Is(err, commands.ErrExit) {
				return nil
			}
			r.logger.Error("Error: %v", err)
		}
	}
}

// shutdown signs out an active session.
func (r *REPL) shutdown() {
	if !r.session.Session().IsAuthenticated() {
		r.logger.Info("Goodbye!")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), signOutTimeout)
	defer cancel()
	_ = r.session.SignOut(ctx)
	r.logger.Info("Signed out. Goodbye!")
}

// filterInput blocks Ctrl+Z, which would suspend the process mid-prompt.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
