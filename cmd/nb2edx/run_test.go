package main

// Notes:
// - run: we test the whole command against a course built in a temp dir,
//   with git, the resizer script and the file browser replaced by fakes.
// - acknowledgeWarnings: only the non-terminal path is tested; the huh note
//   needs a TTY.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	nb2edx "github.com/alnah/go-nb2edx"
	"github.com/alnah/go-nb2edx/internal/assets"
	"github.com/alnah/go-nb2edx/internal/config"
	"github.com/alnah/go-nb2edx/internal/gitstatus"
	"github.com/alnah/go-nb2edx/internal/notebook"
	"github.com/alnah/go-nb2edx/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Course fixture and fake environment
// ---------------------------------------------------------------------------

const outline = "* **Introduction**\n" +
	"  * [Welcome](w0_intro/welcome.ipynb)\n" +
	"* **Week 1**\n" +
	"  * [Lecture](w1_topo/lecture.ipynb)\n"

func writeNotebook(t *testing.T, path string, cells ...notebook.Cell) {
	t.Helper()

	data, err := json.Marshal(&notebook.Notebook{Cells: cells, NBFormat: 4})
	if err != nil {
		t.Fatalf("marshal notebook: %v", err)
	}
	writeFile(t, path, string(data))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// setupCourse creates a course repository and returns its root and source
// folder. Only the introduction has a release date.
func setupCourse(t *testing.T) (root, src string) {
	t.Helper()

	root = t.TempDir()
	src = filepath.Join(root, "src")

	md := notebook.NewMarkdownCell
	writeNotebook(t, filepath.Join(src, "syllabus.ipynb"), md("# Syllabus\n"+outline))
	writeNotebook(t, filepath.Join(src, "w0_intro", "welcome.ipynb"), md("# Welcome"), md("Hello."))
	writeNotebook(t, filepath.Join(src, "w1_topo", "lecture.ipynb"), md("# Bands"), md("Energy bands."))
	writeFile(t, filepath.Join(src, config.DefaultReleaseDates), "Introduction: 3 Sep 2018\n")
	return root, src
}

type recordingOpener struct {
	dirs []string
}

func (o *recordingOpener) Open(_ context.Context, dir string) error {
	o.dirs = append(o.dirs, dir)
	return nil
}

type testEnv struct {
	*Environment
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	opener    *recordingOpener
	acknowledged [][]string
}

func newTestEnv(status gitstatus.Status) *testEnv {
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		opener: &recordingOpener{},
	}
	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		Stdin:  strings.NewReader(""),
		GitStatus: func(context.Context, string) (gitstatus.Status, error) {
			return status, nil
		},
		Acknowledge: func(_ context.Context, warnings []string) error {
			te.acknowledged = append(te.acknowledged, warnings)
			return nil
		},
		Opener:       te.opener,
		ScriptLoader: assets.StaticScript("resize();"),
	}
	return te
}

func cleanRepo() gitstatus.Status {
	return gitstatus.Status{Branch: "master"}
}

// ---------------------------------------------------------------------------
// TestRun - End-to-end command
// ---------------------------------------------------------------------------

func TestRun_Compiles(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(cleanRepo())

	if err := run(context.Background(), []string{"--root", root, src}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	archive := filepath.Join(root, config.DefaultGeneratedDir, config.DefaultArchiveName)
	if _, err := os.Stat(archive); err != nil {
		t.Fatalf("archive not created: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Created "+archive) {
		t.Errorf("stdout = %q, want Created line", env.stdout.String())
	}
	if len(env.acknowledged) != 0 {
		t.Errorf("clean repository should not ask for confirmation, got %v", env.acknowledged)
	}
	if _, err := os.Stat(filepath.Join(root, config.DefaultGeneratedDir, "html", "edx", "subsec_00_00_00_out_00.html")); err != nil {
		t.Errorf("introduction page missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, config.DefaultGeneratedDir, "html", "edx", "subsec_01_00_00_out_00.html")); !os.IsNotExist(err) {
		t.Error("unscheduled week should be skipped")
	}
}

func TestRun_FullContent(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(cleanRepo())

	if err := run(context.Background(), []string{"--root", root, "--all", "-q", src}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, config.DefaultGeneratedDir, "html", "edx", "subsec_01_00_00_out_00.html")); err != nil {
		t.Errorf("--all should compile the unscheduled week: %v", err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet run wrote %q", env.stdout.String())
	}
}

func TestRun_ConfigFile(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	out := filepath.Join(t.TempDir(), "build")
	cfgPath := filepath.Join(root, "course.yaml")
	writeFile(t, cfgPath, "course:\n"+
		"  contentDir: "+src+"\n"+
		"releaseDates:\n"+
		"  \"Week 1\": \"10 Sep 2018\"\n"+
		"output:\n"+
		"  generatedDir: "+out+"\n"+
		"  archiveName: course.tar.gz\n")

	env := newTestEnv(cleanRepo())
	if err := run(context.Background(), []string{"--root", root, "-c", cfgPath}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "course.tar.gz")); err != nil {
		t.Errorf("archive not created in configured directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "html", "edx", "subsec_01_00_00_out_00.html")); err != nil {
		t.Errorf("week scheduled by the config should compile: %v", err)
	}
}

func TestRun_ConfigNotFound(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(cleanRepo())

	err := run(context.Background(), []string{"--root", root, "-c", "no-such-course-config", src}, env.Environment)
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error should carry a hint, got %q", err)
	}
	if got := exitCodeFor(err); got != ExitUsage {
		t.Errorf("exit code = %d, want %d", got, ExitUsage)
	}
}

func TestRun_InfoFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"version", []string{"--version"}, "nb2edx " + Version},
		{"help", []string{"--help"}, "Usage: nb2edx"},
		{"short help", []string{"-h"}, "Usage: nb2edx"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(cleanRepo())
			if err := run(context.Background(), tt.args, env.Environment); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(env.stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", env.stdout.String(), tt.want)
			}
		})
	}
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown flag", []string{"--pdf"}, ErrUsage},
		{"two sources", []string{"a", "b"}, ErrUsage},
		{"no source", []string{}, ErrNoSource},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(cleanRepo())
			err := run(context.Background(), tt.args, env.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got := exitCodeFor(err); got != ExitUsage {
				t.Errorf("exit code = %d, want %d", got, ExitUsage)
			}
		})
	}
}

func TestRun_ContentErrorHint(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	component := notebook.Cell{
		Type: notebook.CellCode,
		Outputs: []notebook.Output{
			{OutputType: notebook.OutputDisplayData, Data: notebook.MIMEBundle{pipeline.ComponentMIMEType: "<problem/>"}},
			{OutputType: notebook.OutputDisplayData, Data: notebook.MIMEBundle{pipeline.ComponentMIMEType: "<video/>"}},
		},
	}
	writeNotebook(t, filepath.Join(src, "w0_intro", "welcome.ipynb"), notebook.NewMarkdownCell("# Welcome"), component)

	env := newTestEnv(cleanRepo())
	err := run(context.Background(), []string{"--root", root, src}, env.Environment)
	if !errors.Is(err, nb2edx.ErrMultipleComponents) {
		t.Fatalf("error = %v, want ErrMultipleComponents", err)
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error should carry a hint, got %q", err)
	}
	if got := exitCodeFor(err); got != ExitContent {
		t.Errorf("exit code = %d, want %d", got, ExitContent)
	}
	if _, statErr := os.Stat(filepath.Join(root, config.DefaultGeneratedDir, config.DefaultArchiveName)); !os.IsNotExist(statErr) {
		t.Error("no archive should be written on content errors")
	}
}

func TestRun_NoScheduledSections(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	if err := os.Remove(filepath.Join(src, config.DefaultReleaseDates)); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(cleanRepo())
	if err := run(context.Background(), []string{"--root", root, src}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stderr.String(), "no section has a release date") {
		t.Errorf("stderr = %q, want release date warning", env.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRun_Git - Publishing warnings
// ---------------------------------------------------------------------------

func TestRun_GitWarnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      gitstatus.Status
		args        []string
		wantAck     bool
		wantWarning string
	}{
		{"feature branch", gitstatus.Status{Branch: "draft"}, nil, true, "not on master/main"},
		{"modified files", gitstatus.Status{Branch: "main", Modified: true}, nil, true, "some files are modified"},
		{"confirmation skipped", gitstatus.Status{Branch: "draft"}, []string{"--yes"}, false, "not on master/main"},
		{"clean", cleanRepo(), nil, false, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, src := setupCourse(t)
			env := newTestEnv(tt.status)
			args := append([]string{"--root", root, src}, tt.args...)
			if err := run(context.Background(), args, env.Environment); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := len(env.acknowledged) == 1; got != tt.wantAck {
				t.Errorf("acknowledged = %v, want %v", env.acknowledged, tt.wantAck)
			}
			if _, err := os.Stat(filepath.Join(root, config.DefaultGeneratedDir, config.DefaultArchiveName)); err != nil {
				t.Errorf("archive missing after warnings: %v", err)
			}
			if tt.wantWarning != "" && !strings.Contains(env.stderr.String(), tt.wantWarning) {
				t.Errorf("stderr = %q, want %q", env.stderr.String(), tt.wantWarning)
			}
			if tt.wantWarning == "" && strings.Contains(env.stderr.String(), "warning:") {
				t.Errorf("unexpected warning: %q", env.stderr.String())
			}
		})
	}
}

func TestRun_GitWarningsKeepBuilding(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(gitstatus.Status{Branch: "draft", Modified: true})

	if err := run(context.Background(), []string{"--root", root, src}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.acknowledged) != 1 || len(env.acknowledged[0]) != 1 {
		t.Errorf("acknowledged = %v, want the branch warning once", env.acknowledged)
	}
	if !strings.Contains(env.stdout.String(), "Created ") {
		t.Errorf("stdout = %q, want the archive line", env.stdout.String())
	}
}

func TestRun_InterruptedWhileWaiting(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(gitstatus.Status{Branch: "draft"})
	ctx, cancel := context.WithCancel(context.Background())
	env.Acknowledge = func(ctx context.Context, _ []string) error {
		cancel()
		return ctx.Err()
	}

	err := run(ctx, []string{"--root", root, src}, env.Environment)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(filepath.Join(root, config.DefaultGeneratedDir)); !os.IsNotExist(statErr) {
		t.Error("nothing should be generated after an interrupt")
	}
}

func TestRun_GitUnavailable(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(cleanRepo())
	env.GitStatus = func(context.Context, string) (gitstatus.Status, error) {
		return gitstatus.Status{}, gitstatus.ErrGit
	}

	if err := run(context.Background(), []string{"--root", root, src}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stderr.String(), "skipping git check") {
		t.Errorf("stderr = %q, want skip notice", env.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRun_Debug - Uncompressed copy and file browser
// ---------------------------------------------------------------------------

func TestRun_Debug(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(cleanRepo())

	if err := run(context.Background(), []string{"--root", root, "-d", "-o", src}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	debugDir := filepath.Join(root, config.DefaultGeneratedDir, "files")
	if _, err := os.Stat(filepath.Join(debugDir, "course.xml")); err != nil {
		t.Errorf("debug copy missing: %v", err)
	}
	if len(env.opener.dirs) != 1 || env.opener.dirs[0] != debugDir {
		t.Errorf("opened %v, want [%s]", env.opener.dirs, debugDir)
	}
}

func TestRun_OpenRequiresDebug(t *testing.T) {
	t.Parallel()

	root, src := setupCourse(t)
	env := newTestEnv(cleanRepo())

	if err := run(context.Background(), []string{"--root", root, "--open", src}, env.Environment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stderr.String(), "--open requires --debug") {
		t.Errorf("stderr = %q, want --open warning", env.stderr.String())
	}
	if len(env.opener.dirs) != 0 {
		t.Errorf("file browser opened without --debug: %v", env.opener.dirs)
	}
}

// ---------------------------------------------------------------------------
// TestAcknowledgeWarnings - Non-terminal acknowledgement
// ---------------------------------------------------------------------------

func TestAcknowledgeWarnings_NonTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
	}{
		{"enter", "\n"},
		{"eof", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			env := &Environment{Stdin: strings.NewReader(tt.stdin), Stderr: &stderr}
			if err := acknowledgeWarnings(context.Background(), env, []string{"some files are modified"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stderr.String(), "Press Enter") {
				t.Errorf("stderr = %q, want prompt", stderr.String())
			}
		})
	}
}

func TestAcknowledgeWarnings_Canceled(t *testing.T) {
	t.Parallel()

	// The pipe is never written, so only the context ends the wait.
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	env := &Environment{Stdin: r, Stderr: &stderr}
	if err := acknowledgeWarnings(ctx, env, []string{"not on master/main"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
