package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// acknowledgeWarnings shows warnings and waits for the operator: a note on
// a terminal, otherwise a single line read from stdin. The build always
// goes on afterwards; only a canceled ctx is returned as an error.
func acknowledgeWarnings(ctx context.Context, env *Environment, warnings []string) error {
	if f, ok := env.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return acknowledgeInteractive(ctx, warnings)
	}
	return waitForEnter(ctx, env.Stdin, env.Stderr)
}

func acknowledgeInteractive(ctx context.Context, warnings []string) error {
	note := huh.NewNote().
		Title("Publishing warnings").
		Description(strings.Join(warnings, "\n")).
		Next(true).
		NextLabel("Continue")

	// Leaving the note any other way (esc, ctrl+c) still continues.
	_ = huh.NewForm(huh.NewGroup(note)).RunWithContext(ctx)
	return ctx.Err()
}

// waitForEnter blocks until a line, EOF or a read error on r, or until ctx
// is done.
func waitForEnter(ctx context.Context, r io.Reader, w io.Writer) error {
	fmt.Fprint(w, "Press Enter to continue")
	defer fmt.Fprintln(w)

	read := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(r).ReadString('\n')
		close(read)
	}()

	select {
	case <-read:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
