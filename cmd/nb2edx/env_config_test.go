package main

// Notes:
// - loadEnvConfig: we test every variable and that an unparsable boolean is
//   ignored rather than reported.
// - applyEnvConfig: we test that env values override the config file and
//   that unset variables leave it alone.
// - Tests use t.Setenv() which prevents t.Parallel().

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-nb2edx/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("NB2EDX_CONFIG", "/path/to/course.yaml")
	t.Setenv("NB2EDX_CONTENT_DIR", "src")
	t.Setenv("NB2EDX_OUTPUT_DIR", "/out")
	t.Setenv("NB2EDX_FULL_CONTENT", "true")
	t.Setenv("NB2EDX_SCRIPT_URL", "vendor/iframeResizer.min.js")

	cfg := loadEnvConfig()

	if cfg.ConfigPath != "/path/to/course.yaml" {
		t.Errorf("ConfigPath = %q, want /path/to/course.yaml", cfg.ConfigPath)
	}
	if cfg.ContentDir != "src" {
		t.Errorf("ContentDir = %q, want src", cfg.ContentDir)
	}
	if cfg.OutputDir != "/out" {
		t.Errorf("OutputDir = %q, want /out", cfg.OutputDir)
	}
	if cfg.FullContent == nil || !*cfg.FullContent {
		t.Errorf("FullContent = %v, want true", cfg.FullContent)
	}
	if cfg.ScriptURL != "vendor/iframeResizer.min.js" {
		t.Errorf("ScriptURL = %q, want vendor/iframeResizer.min.js", cfg.ScriptURL)
	}
}

func TestLoadEnvConfig_InvalidBool(t *testing.T) {
	t.Setenv("NB2EDX_FULL_CONTENT", "sometimes")

	if cfg := loadEnvConfig(); cfg.FullContent != nil {
		t.Errorf("FullContent = %v, want nil", *cfg.FullContent)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("NB2EDX_OUTPUT_DIR", "/out")
	t.Setenv("NB2EDX_OUTPUTDIR", "/out")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	got := buf.String()
	if !strings.Contains(got, "NB2EDX_OUTPUTDIR") {
		t.Errorf("expected warning for NB2EDX_OUTPUTDIR, got %q", got)
	}
	if strings.Contains(got, "NB2EDX_OUTPUT_DIR ") {
		t.Errorf("known variable should not warn, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	full := true
	cfg := config.DefaultConfig()
	cfg.Course.ContentDir = "from-file"

	applyEnvConfig(&envConfig{
		ContentDir:  "from-env",
		OutputDir:   "/tmp/generated",
		FullContent: &full,
		ScriptURL:   "resizer.js",
	}, cfg)

	if cfg.Course.ContentDir != "from-env" {
		t.Errorf("ContentDir = %q, want from-env", cfg.Course.ContentDir)
	}
	if cfg.Output.GeneratedDir != "/tmp/generated" {
		t.Errorf("GeneratedDir = %q, want /tmp/generated", cfg.Output.GeneratedDir)
	}
	if !cfg.Course.FullContent {
		t.Error("FullContent = false, want true")
	}
	if cfg.Iframe.ScriptURL != "resizer.js" {
		t.Errorf("ScriptURL = %q, want resizer.js", cfg.Iframe.ScriptURL)
	}
}

func TestApplyEnvConfig_Unset(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Course.FullContent = true
	applyEnvConfig(&envConfig{}, cfg)

	if cfg.Output.GeneratedDir != config.DefaultGeneratedDir {
		t.Errorf("GeneratedDir = %q, want %q", cfg.Output.GeneratedDir, config.DefaultGeneratedDir)
	}
	if !cfg.Course.FullContent {
		t.Error("unset NB2EDX_FULL_CONTENT must not clear the config value")
	}
	if cfg.Iframe.ScriptURL != config.DefaultScriptURL {
		t.Errorf("ScriptURL = %q, want default", cfg.Iframe.ScriptURL)
	}
}
