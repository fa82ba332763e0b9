package commands

// BaseCommand provides the dependencies shared by all commands.
type BaseCommand struct {
	session SessionController
	output  OutputLogger
}

// NewBaseCommand creates a new base command
func NewBaseCommand(session SessionController, output OutputLogger) *BaseCommand {
	return &BaseCommand{
		session: session,
		output:  output,
	}
}

// Completions returns no completions; commands take no arguments by default.
func (b *BaseCommand) Completions(input string) []string {
	return []string{}
}

// Aliases returns no aliases by default.
func (b *BaseCommand) Aliases() []string {
	return []string{}
}
