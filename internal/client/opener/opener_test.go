package opener

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubRun(t *testing.T, fn func(ctx context.Context, name string, args ...string) error) {
	t.Helper()
	orig := runCommand
	runCommand = fn
	t.Cleanup(func() { runCommand = orig })
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"linux", "xdg-open", []string{"/tmp/a.pdf"}},
		{"freebsd", "xdg-open", []string{"/tmp/a.pdf"}},
		{"darwin", "open", []string{"/tmp/a.pdf"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "/tmp/a.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := command(tt.goos, "/tmp/a.pdf")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOpen_RunsPlatformCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	var gotName string
	var gotArgs []string
	stubRun(t, func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	})

	o := &SystemOpener{goos: "linux"}
	require.NoError(t, o.Open(context.Background(), path, "application/pdf"))
	assert.Equal(t, "xdg-open", gotName)
	assert.Equal(t, []string{path}, gotArgs)
}

func TestOpen_MissingFile(t *testing.T) {
	called := false
	stubRun(t, func(context.Context, string, ...string) error {
		called = true
		return nil
	})

	err := NewSystemOpener().Open(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"), "application/pdf")
	require.ErrorIs(t, err, ErrNoSuchFile)
	assert.False(t, called)
}

func TestOpen_CommandFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	boom := errors.New("no handler")
	stubRun(t, func(context.Context, string, ...string) error { return boom })

	err := (&SystemOpener{goos: "darwin"}).Open(context.Background(), path, "application/msword")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "application/msword")
}
