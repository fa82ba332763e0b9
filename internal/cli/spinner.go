package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// WaitIndicator returns a hook that shows a spinner with suffix on w while
// waiting and removes it when the returned function is called. With quiet
// set the hook does nothing.
func WaitIndicator(w io.Writer, suffix string, quiet bool) func() func() {
	return func() func() {
		if quiet {
			return func() {}
		}
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
		s.Suffix = " " + suffix
		s.Start()
		return s.Stop
	}
}
