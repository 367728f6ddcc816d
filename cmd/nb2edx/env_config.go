package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2edx/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without editing the YAML file.
type envConfig struct {
	ConfigPath  string // NB2EDX_CONFIG: config file name or path
	ContentDir  string // NB2EDX_CONTENT_DIR: default source folder
	OutputDir   string // NB2EDX_OUTPUT_DIR: generated files directory
	FullContent *bool  // NB2EDX_FULL_CONTENT: compile every section
	ScriptURL   string // NB2EDX_SCRIPT_URL: resizer script URL or file
}

// knownEnvVars lists valid NB2EDX_* environment variables.
var knownEnvVars = map[string]bool{
	"NB2EDX_CONFIG":       true,
	"NB2EDX_CONTENT_DIR":  true,
	"NB2EDX_OUTPUT_DIR":   true,
	"NB2EDX_FULL_CONTENT": true,
	"NB2EDX_SCRIPT_URL":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("NB2EDX_CONFIG"),
		ContentDir: os.Getenv("NB2EDX_CONTENT_DIR"),
		OutputDir:  os.Getenv("NB2EDX_OUTPUT_DIR"),
		ScriptURL:  os.Getenv("NB2EDX_SCRIPT_URL"),
	}

	if v := os.Getenv("NB2EDX_FULL_CONTENT"); v != "" {
		if full, err := strconv.ParseBool(v); err == nil {
			cfg.FullContent = &full
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for every unrecognized NB2EDX_*
// variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "NB2EDX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values over the loaded config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.ContentDir != "" {
		cfg.Course.ContentDir = env.ContentDir
	}
	if env.OutputDir != "" {
		cfg.Output.GeneratedDir = env.OutputDir
	}
	if env.FullContent != nil {
		cfg.Course.FullContent = *env.FullContent
	}
	if env.ScriptURL != "" {
		cfg.Iframe.ScriptURL = env.ScriptURL
	}
}
