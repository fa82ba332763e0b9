package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	pkgoauth "twitchauth/pkg/oauth"
)

// BrowserInteractorConfig configures a BrowserInteractor.
type BrowserInteractorConfig struct {
	// Port is the loopback callback port. Defaults to DefaultCallbackPort.
	Port int

	// Timeout bounds the wait for the redirect. Defaults to CallbackTimeout.
	Timeout time.Duration

	// NoBrowser only prints the URL instead of launching a browser.
	NoBrowser bool

	// Out receives the instructions shown to the user. Defaults to io.Discard.
	Out io.Writer

	// Launch opens a URL. Defaults to OpenBrowser.
	Launch func(url string) error

	// OnWait is called once the browser was opened; the returned function is
	// called when waiting ends. The CLI uses it for its spinner.
	OnWait func() (done func())
}

// BrowserInteractor completes an authorization in the user's browser and
// receives the redirect on a loopback CallbackServer.
type BrowserInteractor struct {
	port      int
	timeout   time.Duration
	noBrowser bool
	out       io.Writer
	launch    func(string) error
	onWait    func() func()
}

// NewBrowserInteractor creates a BrowserInteractor.
func NewBrowserInteractor(cfg BrowserInteractorConfig) *BrowserInteractor {
	b := &BrowserInteractor{
		port:      cfg.Port,
		timeout:   cfg.Timeout,
		noBrowser: cfg.NoBrowser,
		out:       cfg.Out,
		launch:    cfg.Launch,
		onWait:    cfg.OnWait,
	}
	if b.port == 0 {
		b.port = DefaultCallbackPort
	}
	if b.timeout <= 0 {
		b.timeout = CallbackTimeout
	}
	if b.out == nil {
		b.out = io.Discard
	}
	if b.launch == nil {
		b.launch = OpenBrowser
	}
	return b
}

// RedirectURI returns the callback URL served during Interact.
func (b *BrowserInteractor) RedirectURI() (string, error) {
	return fmt.Sprintf("http://localhost:%d%s", b.port, callbackPath), nil
}

// Interact opens authURL and waits for the provider to redirect back.
//
// The callback timeout and cancellation of ctx both resolve as
// pkgoauth.Dismissed. An error is returned only when the callback server
// cannot run.
func (b *BrowserInteractor) Interact(ctx context.Context, authURL string) (pkgoauth.Outcome, error) {
	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := NewCallbackServer(b.port)
	if _, err := server.Start(serverCtx); err != nil {
		return nil, err
	}
	defer server.Stop()

	b.present(authURL)

	if b.onWait != nil {
		done := b.onWait()
		defer done()
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, b.timeout)
	defer waitCancel()

	result, err := server.WaitForCallback(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			slog.Info("Authorization ended without a redirect", "reason", err.Error())
			return pkgoauth.Dismissed{}, nil
		}
		return nil, fmt.Errorf("callback server failed: %w", err)
	}

	return pkgoauth.DecodeOutcome(pkgoauth.TypeSuccess, result.Values())
}

func (b *BrowserInteractor) present(authURL string) {
	if b.noBrowser {
		fmt.Fprintf(b.out, "Open the following URL in your browser to sign in:\n\n  %s\n\n", authURL)
		return
	}

	if err := b.launch(authURL); err != nil {
		slog.Warn("Could not open browser", "error", err)
		fmt.Fprintf(b.out, "Could not open a browser. Open the following URL to sign in:\n\n  %s\n\n", authURL)
		return
	}
	fmt.Fprintln(b.out, "Opened your browser to sign in. Waiting for the redirect...")
}
