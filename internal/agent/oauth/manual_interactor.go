package oauth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	pkgoauth "twitchauth/pkg/oauth"
)

// ManualInteractor lets the user complete the authorization on any device
// and paste back the URL the browser was redirected to. Nothing listens on
// the redirect URI; the browser shows an error page whose address bar still
// holds the result.
type ManualInteractor struct {
	port     int
	out      io.Writer
	readLine func() (string, error)
}

// NewManualInteractor reads pasted URLs from in. A port of 0 selects
// DefaultCallbackPort for the redirect URI.
func NewManualInteractor(port int, in io.Reader, out io.Writer) *ManualInteractor {
	reader := bufio.NewReader(in)
	return NewManualInteractorWithReader(port, func() (string, error) {
		return reader.ReadString('\n')
	}, out)
}

// NewManualInteractorWithReader uses readLine to obtain the pasted URL, for
// callers that already own the terminal (the interactive shell).
func NewManualInteractorWithReader(port int, readLine func() (string, error), out io.Writer) *ManualInteractor {
	if port == 0 {
		port = DefaultCallbackPort
	}
	if out == nil {
		out = io.Discard
	}
	return &ManualInteractor{port: port, out: out, readLine: readLine}
}

// RedirectURI returns the registered loopback redirect URI.
func (m *ManualInteractor) RedirectURI() (string, error) {
	return fmt.Sprintf("http://localhost:%d%s", m.port, callbackPath), nil
}

type lineResult struct {
	line string
	err  error
}

// Interact prints authURL and waits for the redirected URL. An empty line,
// end of input or cancellation of ctx resolve as pkgoauth.Dismissed.
func (m *ManualInteractor) Interact(ctx context.Context, authURL string) (pkgoauth.Outcome, error) {
	fmt.Fprintf(m.out, "Open the following URL in a browser to sign in:\n\n  %s\n\n", authURL)
	fmt.Fprintln(m.out, "After approving, paste the full URL of the page you were redirected to (empty line to cancel):")

	// The read cannot be interrupted; on cancellation the goroutine finishes
	// with the next line of input.
	ch := make(chan lineResult, 1)
	go func() {
		line, err := m.readLine()
		ch <- lineResult{line: line, err: err}
	}()

	var res lineResult
	select {
	case <-ctx.Done():
		return pkgoauth.Dismissed{}, nil
	case res = <-ch:
	}

	line := strings.TrimSpace(res.line)
	if res.err != nil && !errors.Is(res.err, io.EOF) {
		return nil, fmt.Errorf("failed to read redirect URL: %w", res.err)
	}
	if line == "" {
		return pkgoauth.Dismissed{}, nil
	}

	params, err := pkgoauth.ParseFragment(line)
	if err != nil {
		return nil, err
	}
	return pkgoauth.DecodeOutcome(pkgoauth.TypeSuccess, params)
}
