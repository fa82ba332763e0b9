package agent

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Logger provides formatted output for the shell
type Logger struct {
	useColor bool
	writer   io.Writer
}

// NewLogger creates a new logger writing to stdout
func NewLogger(useColor bool) *Logger {
	return NewLoggerWithWriter(useColor, os.Stdout)
}

// NewLoggerWithWriter creates a new logger with a custom writer
func NewLoggerWithWriter(useColor bool, writer io.Writer) *Logger {
	return &Logger{
		useColor: useColor,
		writer:   writer,
	}
}

// Writer returns the writer command output goes to.
func (l *Logger) Writer() io.Writer {
	return l.writer
}

// Output writes user-facing output without timestamps
func (l *Logger) Output(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, format, args...)
}

// OutputLine writes user-facing output with a newline
func (l *Logger) OutputLine(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, format+"\n", args...)
}

func (l *Logger) timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Logger) colorize(msg string, colors text.Colors) string {
	if !l.useColor {
		return msg
	}
	return colors.Sprint(msg)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), msg)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(msg, text.Colors{text.FgRed}))
}

// Success logs a success message
func (l *Logger) Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "[%s] %s\n", l.timestamp(), l.colorize(msg, text.Colors{text.FgGreen}))
}
