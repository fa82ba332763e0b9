package commands

import (
	"context"
	"strings"
)

// HelpCommand shows available commands and usage information
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates a new help command
func NewHelpCommand(session SessionController, output OutputLogger, registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand(session, output),
		registry:    registry,
	}
}

// Execute shows help information
func (h *HelpCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		h.showGeneralHelp()
		return nil
	}

	commandName := strings.ToLower(args[0])
	if commandName == "?" {
		commandName = "help"
	}

	command, exists := h.registry.Get(commandName)
	if !exists {
		h.output.Error("Unknown command: %s", commandName)
		h.output.OutputLine("Use 'help' to see all available commands.")
		return nil
	}

	h.output.OutputLine("Usage: %s", command.Usage())
	h.output.OutputLine("  %s", command.Description())
	if aliases := command.Aliases(); len(aliases) > 0 {
		h.output.OutputLine("Aliases: %s", strings.Join(aliases, ", "))
	}
	return nil
}

func (h *HelpCommand) showGeneralHelp() {
	h.output.OutputLine("Available commands:")
	for _, name := range h.registry.List() {
		command, _ := h.registry.Get(name)
		h.output.OutputLine("  %-24s - %s", command.Usage(), command.Description())
	}
	h.output.OutputLine("")
	h.output.OutputLine("Keyboard shortcuts:")
	h.output.OutputLine("  TAB                      - Auto-complete commands")
	h.output.OutputLine("  ↑/↓ (arrow keys)         - Navigate command history")
	h.output.OutputLine("  Ctrl+C                   - Cancel current line")
	h.output.OutputLine("  Ctrl+D                   - Exit the shell")
}

// Usage returns the usage string
func (h *HelpCommand) Usage() string {
	return "help [command]"
}

// Description returns the command description
func (h *HelpCommand) Description() string {
	return "Show available commands"
}

// Completions returns command names
func (h *HelpCommand) Completions(input string) []string {
	return h.registry.List()
}

// Aliases returns command aliases
func (h *HelpCommand) Aliases() []string {
	return []string{"?"}
}
