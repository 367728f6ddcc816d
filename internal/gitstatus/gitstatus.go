// Package gitstatus reports whether the course repository is in a state
// fit for publishing.
package gitstatus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGit is returned when git cannot be run or the directory is not a
// repository.
var ErrGit = errors.New("git status unavailable")

// PublishBranches are the branches a course may be published from.
var PublishBranches = []string{"master", "main"}

// Runner executes git with args inside dir and returns stdout.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Status is the part of the repository state relevant to publishing.
type Status struct {
	Branch   string
	Modified bool // tracked files differ from the index
}

// OnPublishBranch reports whether Branch is one of PublishBranches.
func (s Status) OnPublishBranch() bool {
	for _, b := range PublishBranches {
		if s.Branch == b {
			return true
		}
	}
	return false
}

// Warnings lists the reasons not to upload the compiled course. The branch
// warning takes precedence over the modification warning.
func (s Status) Warnings() []string {
	if !s.OnPublishBranch() {
		return []string{fmt.Sprintf("not on %s branch (on %q), do not upload to edX", strings.Join(PublishBranches, "/"), s.Branch)}
	}
	if s.Modified {
		return []string{"some files are modified, do not upload to edX"}
	}
	return nil
}

// Checker inspects a repository.
type Checker struct {
	Dir string
	Run Runner // nil runs the git binary
}

// Check reads the current branch and whether the work tree is modified.
func (c Checker) Check(ctx context.Context) (Status, error) {
	run := c.Run
	if run == nil {
		run = execGit
	}

	out, err := run(ctx, c.Dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Status{}, fmt.Errorf("%w: %v", ErrGit, err)
	}
	st := Status{Branch: strings.TrimSpace(string(out))}

	diff, err := run(ctx, c.Dir, "diff", "--stat")
	if err != nil {
		return Status{}, fmt.Errorf("%w: %v", ErrGit, err)
	}
	st.Modified = len(bytes.TrimSpace(diff)) > 0
	return st, nil
}

func execGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...) // #nosec G204 -- fixed git subcommands
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%v: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
