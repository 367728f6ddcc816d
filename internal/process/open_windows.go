//go:build windows

package process

import (
	"context"
	"os/exec"
)

// fileBrowserCommand opens dir in Explorer.
func fileBrowserCommand(ctx context.Context, dir string) *exec.Cmd {
	return exec.CommandContext(ctx, "explorer", dir)
}
