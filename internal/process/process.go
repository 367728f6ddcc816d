// Package process launches external programs on behalf of the CLI.
package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrOpenFailed is returned when the file browser cannot be started.
var ErrOpenFailed = errors.New("failed to open file browser")

// Opener opens a directory for the operator.
type Opener interface {
	Open(ctx context.Context, dir string) error
}

// FileBrowser starts the platform file browser. Command overrides the
// program; its arguments are followed by the directory.
type FileBrowser struct {
	Command []string
}

// Open implements Opener. It returns once the program has started.
func (b FileBrowser) Open(ctx context.Context, dir string) error {
	var cmd *exec.Cmd
	if len(b.Command) > 0 {
		args := append(append([]string{}, b.Command[1:]...), dir)
		cmd = exec.CommandContext(ctx, b.Command[0], args...) // #nosec G204 -- operator-configured command
	} else {
		cmd = fileBrowserCommand(ctx, dir)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOpenFailed, cmd.Path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Compile-time interface check.
var _ Opener = FileBrowser{}
