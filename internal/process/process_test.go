package process

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

func TestFileBrowser_Open_MissingProgram(t *testing.T) {
	t.Parallel()

	b := FileBrowser{Command: []string{"nb2edx-no-such-file-browser"}}
	err := b.Open(context.Background(), t.TempDir())
	if !errors.Is(err, ErrOpenFailed) {
		t.Errorf("Open() error = %v, want ErrOpenFailed", err)
	}
}

func TestFileBrowser_Open_CustomCommand(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX true(1)")
	}

	b := FileBrowser{Command: []string{"true", "--"}}
	if err := b.Open(context.Background(), t.TempDir()); err != nil {
		t.Errorf("Open() error = %v", err)
	}
}

func TestFileBrowserCommand(t *testing.T) {
	t.Parallel()

	cmd := fileBrowserCommand(context.Background(), "/tmp/files")
	if len(cmd.Args) == 0 || cmd.Args[len(cmd.Args)-1] != "/tmp/files" {
		t.Errorf("command args = %v, want directory last", cmd.Args)
	}
}
