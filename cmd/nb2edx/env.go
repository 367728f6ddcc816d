package main

import (
	"context"
	"io"
	"os"

	nb2edx "github.com/alnah/go-nb2edx"
	"github.com/alnah/go-nb2edx/internal/gitstatus"
	"github.com/alnah/go-nb2edx/internal/process"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// GitStatus inspects the course repository at dir.
	GitStatus func(ctx context.Context, dir string) (gitstatus.Status, error)
	// Acknowledge shows warnings and waits for the operator. It only fails
	// when ctx is done; the build goes on otherwise.
	Acknowledge func(ctx context.Context, warnings []string) error
	// Opener shows the debug copy in a file browser.
	Opener process.Opener
	// ScriptLoader replaces the resizer script download when set.
	ScriptLoader nb2edx.ScriptLoader
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	env := &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		GitStatus: func(ctx context.Context, dir string) (gitstatus.Status, error) {
			return gitstatus.Checker{Dir: dir}.Check(ctx)
		},
		Opener: process.FileBrowser{},
	}
	env.Acknowledge = func(ctx context.Context, warnings []string) error {
		return acknowledgeWarnings(ctx, env, warnings)
	}
	return env
}
