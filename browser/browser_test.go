package browser_test

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"testing"

	"github.com/fwojciec/mdview/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type launch struct {
	name string
	args []string
}

func newActivator(t *testing.T, startErr error, opts ...browser.Option) (*browser.Activator, *[]launch, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := browser.New(append([]browser.Option{browser.WithLogger(logger)}, opts...)...)
	var launches []launch
	browser.SetStart(a, func(name string, args ...string) error {
		launches = append(launches, launch{name: name, args: args})
		return startErr
	})
	return a, &launches, &logs
}

func TestActivator_Open(t *testing.T) {
	t.Parallel()

	if _, _, err := browser.Command("https://example.com"); err != nil {
		t.Skipf("no link handler on %s", runtime.GOOS)
	}

	t.Run("launches the handler with the url", func(t *testing.T) {
		t.Parallel()
		a, launches, _ := newActivator(t, nil)
		a.Open("https://example.com/a?b=c")

		require.Len(t, *launches, 1)
		got := (*launches)[0]
		assert.NotEmpty(t, got.name)
		require.NotEmpty(t, got.args)
		assert.Equal(t, "https://example.com/a?b=c", got.args[len(got.args)-1])
	})

	t.Run("disallowed schemes are logged and not opened", func(t *testing.T) {
		t.Parallel()
		a, launches, logs := newActivator(t, nil)
		a.Open("javascript:alert(1)")
		a.Open("relative/page.md")

		assert.Empty(t, *launches)
		assert.Contains(t, logs.String(), "open link failed")
		assert.Contains(t, logs.String(), "not allowed")
	})

	t.Run("custom schemes", func(t *testing.T) {
		t.Parallel()
		a, launches, _ := newActivator(t, nil, browser.WithSchemes("file"))
		a.Open("file:///tmp/x.html")
		a.Open("https://example.com")

		require.Len(t, *launches, 1)
		assert.Contains(t, (*launches)[0].args, "file:///tmp/x.html")
	})

	t.Run("start failures are logged", func(t *testing.T) {
		t.Parallel()
		a, launches, logs := newActivator(t, errors.New("exec: not found"))
		a.Open("https://example.com")

		assert.Len(t, *launches, 1)
		assert.Contains(t, logs.String(), "exec: not found")
	})

	t.Run("scheme match ignores case", func(t *testing.T) {
		t.Parallel()
		a, launches, _ := newActivator(t, nil)
		a.Open("HTTPS://example.com")
		assert.Len(t, *launches, 1)
	})
}

func TestCommand(t *testing.T) {
	t.Parallel()

	name, args, err := browser.Command("https://example.com")
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		require.NoError(t, err)
		assert.Equal(t, "xdg-open", name)
		assert.Equal(t, []string{"https://example.com"}, args)
	case "darwin":
		require.NoError(t, err)
		assert.Equal(t, "open", name)
	case "windows":
		require.NoError(t, err)
		assert.Equal(t, "rundll32", name)
	default:
		assert.Error(t, err)
	}
}
