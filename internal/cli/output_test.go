package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"

	"twitchauth/internal/session"
)

func init() {
	text.DisableColors()
}

func TestRenderUser(t *testing.T) {
	var buf bytes.Buffer
	RenderUser(&buf, session.User{ID: 7, Login: "ann", DisplayName: "Ann", Email: "a@x.com"})

	out := buf.String()
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "ann")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "a@x.com")
	assert.Contains(t, out, "Profile image")
}

func TestRenderStatus(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		store := session.NewStore()
		store.SetAuthenticated(session.User{ID: 7, DisplayName: "Ann"}, "tok1")

		var buf bytes.Buffer
		RenderStatus(&buf, store.Snapshot())

		out := buf.String()
		assert.Contains(t, out, "Signed in")
		assert.Contains(t, out, "Ann")
		assert.Contains(t, out, "[REDACTED]")
		assert.NotContains(t, out, "tok1")
	})

	t.Run("signed out", func(t *testing.T) {
		var buf bytes.Buffer
		RenderStatus(&buf, session.Session{IsLoggingIn: true})

		out := buf.String()
		assert.Contains(t, out, "Not signed in")
		assert.Contains(t, out, "Signing in")
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann", DisplayName(session.User{ID: 7, Login: "ann", DisplayName: "Ann"}))
	assert.Equal(t, "ann", DisplayName(session.User{ID: 7, Login: "ann"}))
	assert.Equal(t, "7", DisplayName(session.User{ID: 7}))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "Error: boom", FormatError(errors.New("boom")))
	assert.Equal(t, "✓ done", FormatSuccess("done"))
	assert.Equal(t, "⚠ careful", FormatWarning("careful"))
}

func TestWaitIndicator(t *testing.T) {
	var buf bytes.Buffer

	done := WaitIndicator(&buf, "Waiting", true)()
	done()
	assert.Empty(t, buf.String(), "quiet mode writes nothing")

	done = WaitIndicator(&buf, "Waiting", false)()
	time.Sleep(150 * time.Millisecond)
	done()
}
