//go:build !windows

package process

import (
	"context"
	"os/exec"
	"runtime"
)

// fileBrowserCommand opens dir with the desktop's default handler.
func fileBrowserCommand(ctx context.Context, dir string) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		return exec.CommandContext(ctx, "open", "--", dir)
	}
	return exec.CommandContext(ctx, "xdg-open", dir)
}
