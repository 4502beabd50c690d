// Package opener hands local files to the operating system's default
// application.
package opener

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/dmitrijs2005/docshelf/internal/filex"
)

var ErrNoSuchFile = errors.New("file does not exist")

// Opener shows a local file to the user.
type Opener interface {
	Open(ctx context.Context, path, mimeType string) error
}

// runCommand is replaced in tests.
var runCommand = func(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Start()
}

type SystemOpener struct {
	goos string
}

func NewSystemOpener() *SystemOpener {
	return &SystemOpener{goos: runtime.GOOS}
}

// Open launches the platform opener for path. The MIME type is only used in
// the error text; the platform picks the handler itself.
func (o *SystemOpener) Open(ctx context.Context, path, mimeType string) error {
	ok, err := filex.Exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchFile, path)
	}

	name, args := command(o.goos, path)
	if err := runCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("open %s (%s) with %s: %w", path, mimeType, name, err)
	}
	return nil
}

func command(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
