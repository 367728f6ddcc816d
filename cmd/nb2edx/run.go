package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	nb2edx "github.com/alnah/go-nb2edx"
	"github.com/alnah/go-nb2edx/internal/config"
	"github.com/alnah/go-nb2edx/internal/fileutil"
	"github.com/alnah/go-nb2edx/internal/hints"
	"github.com/alnah/go-nb2edx/internal/logger"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage    = errors.New("invalid usage")
	ErrNoSource = errors.New("no source folder specified")
)

var (
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	dimColor     = color.New(color.Faint)
)

// run compiles the course described by args. It never calls os.Exit.
func run(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFlags(args)
	if err != nil {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if flags.help {
		printUsage(env.Stdout)
		return nil
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "nb2edx %s\n", Version)
		return nil
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one source folder, got %d", ErrUsage, len(positional))
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	source, err := resolveSource(positional, cfg)
	if err != nil {
		return err
	}
	root := flags.course.root
	if root == "" {
		root = "."
	}

	if err := mergeContentReleaseDates(cfg, source); err != nil {
		return err
	}
	dates, err := cfg.ParsedReleaseDates()
	if err != nil {
		return err
	}

	log, err := newLogger(flags.common)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := checkRepository(ctx, env, root, flags); err != nil {
		return err
	}

	comp := nb2edx.NewCompiler(compilerOptions(cfg, dates, log, env)...)
	start := time.Now()
	result, err := comp.Compile(ctx, nb2edx.Input{
		ContentDir:  source,
		RootDir:     root,
		Syllabus:    cfg.Course.Syllabus,
		OutputDir:   resolveUnder(root, cfg.Output.GeneratedDir),
		SkeletonDir: skeletonDir(root, cfg),
		FullContent: cfg.Course.FullContent,
		Debug:       flags.debug.enabled,
	})
	if err != nil {
		return withHint(err)
	}

	report(ctx, env, flags, cfg, result, time.Since(start))
	return nil
}

// loadConfig loads the named config, falling back to NB2EDX_CONFIG, then
// to the defaults.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags over the config.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.course.syllabus != "" {
		cfg.Course.Syllabus = flags.course.syllabus
	}
	if flags.course.fullContent {
		cfg.Course.FullContent = true
	}
	if flags.course.strict {
		cfg.Course.StrictSyllabus = true
	}
	if flags.course.includeInput {
		cfg.Course.IncludeInput = true
	}
	if flags.output.dir != "" {
		cfg.Output.GeneratedDir = flags.output.dir
	}
	if flags.output.skeleton != "" {
		cfg.Output.SkeletonDir = flags.output.skeleton
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.assets.scriptURL != "" {
		cfg.Iframe.ScriptURL = flags.assets.scriptURL
	}
}

// resolveSource returns the positional source folder or course.contentDir.
func resolveSource(positional []string, cfg *config.Config) (string, error) {
	if len(positional) == 1 {
		return positional[0], nil
	}
	if cfg.Course.ContentDir != "" {
		return cfg.Course.ContentDir, nil
	}
	return "", fmt.Errorf("%w: pass a folder or set course.contentDir", ErrNoSource)
}

// mergeContentReleaseDates reads release_dates.yaml next to the syllabus
// when the config names no dates file.
func mergeContentReleaseDates(cfg *config.Config, source string) error {
	if cfg.Course.ReleaseDatesFile != "" {
		return nil
	}
	path := filepath.Join(source, config.DefaultReleaseDates)
	if !fileutil.FileExists(path) {
		return nil
	}
	return cfg.MergeReleaseDates(path)
}

func newLogger(f commonFlags) (*logger.Logger, error) {
	mode := "dev"
	if f.logJSON {
		mode = "prod"
	}
	level := logger.LevelWarn
	switch {
	case f.verbose:
		level = logger.LevelDebug
	case f.quiet:
		level = logger.LevelError
	}
	return logger.New(mode, level)
}

// checkRepository warns when the course repository should not be
// published from and waits for the operator unless --yes is given. The
// warnings never stop the build.
func checkRepository(ctx context.Context, env *Environment, root string, flags *cliFlags) error {
	if env.GitStatus == nil {
		return nil
	}
	status, err := env.GitStatus(ctx, root)
	if err != nil {
		if !flags.common.quiet {
			dimColor.Fprintf(env.Stderr, "skipping git check: %v\n", err)
		}
		return nil
	}

	warnings := status.Warnings()
	if len(warnings) == 0 {
		return nil
	}
	for _, w := range warnings {
		warnColor.Fprintf(env.Stderr, "warning: %s\n", w)
	}
	if flags.yes || env.Acknowledge == nil {
		return nil
	}
	return env.Acknowledge(ctx, warnings)
}

func compilerOptions(cfg *config.Config, dates map[string]time.Time, log *logger.Logger, env *Environment) []nb2edx.Option {
	opts := []nb2edx.Option{
		nb2edx.WithLogger(log.SugaredLogger.Desugar()),
		nb2edx.WithReleaseDates(dates),
		nb2edx.WithStrictSyllabus(cfg.Course.StrictSyllabus),
		nb2edx.WithStartHour(cfg.Course.StartHour),
		nb2edx.WithDayOffset(cfg.Course.StartDayOffset),
		nb2edx.WithIframe(cfg.Iframe.Host, cfg.Iframe.TestDomain),
		nb2edx.WithScriptURL(cfg.Iframe.ScriptURL),
		nb2edx.WithAssetPath(cfg.Assets.BasePath),
		nb2edx.WithIncludeInput(cfg.Course.IncludeInput),
	}
	if cfg.Figures.Pattern != "" {
		opts = append(opts, nb2edx.WithFigurePattern(cfg.Figures.Pattern))
	}
	if cfg.Output.ArchiveName != "" {
		opts = append(opts, nb2edx.WithArchiveName(cfg.Output.ArchiveName))
	}
	if env.ScriptLoader != nil {
		opts = append(opts, nb2edx.WithScriptLoader(env.ScriptLoader))
	}
	return opts
}

// resolveUnder joins a relative path to root. Empty stays empty.
func resolveUnder(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// skeletonDir returns the skeleton to require, or "" to use the default
// location when it exists.
func skeletonDir(root string, cfg *config.Config) string {
	if cfg.Output.SkeletonDir == config.DefaultSkeletonDir {
		return ""
	}
	return resolveUnder(root, cfg.Output.SkeletonDir)
}

// withHint appends an actionable hint to known content and output errors.
func withHint(err error) error {
	var hint string
	switch {
	case errors.Is(err, nb2edx.ErrMultipleComponents):
		hint = hints.ForMultipleComponents()
	case errors.Is(err, nb2edx.ErrInvalidComponent):
		hint = hints.ForInvalidComponent()
	case errors.Is(err, nb2edx.ErrMalformedSyllabus):
		hint = hints.ForMalformedSyllabus()
	case errors.Is(err, nb2edx.ErrScriptLoad):
		hint = hints.ForScriptLoad()
	case errors.Is(err, nb2edx.ErrWriteOutput), errors.Is(err, nb2edx.ErrArchive):
		hint = hints.ForOutputDirectory()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

func report(ctx context.Context, env *Environment, flags *cliFlags, cfg *config.Config, result *nb2edx.Result, elapsed time.Duration) {
	quiet := flags.common.quiet

	if result.Chapters == 0 && !cfg.Course.FullContent {
		warnColor.Fprintf(env.Stderr, "warning: no section has a release date%s\n", hints.ForNoScheduledSections())
	}

	if flags.debug.open {
		switch {
		case result.DebugDir == "":
			warnColor.Fprintln(env.Stderr, "warning: --open requires --debug")
		case env.Opener != nil:
			// The browser outlives the command.
			if err := env.Opener.Open(context.WithoutCancel(ctx), result.DebugDir); err != nil {
				warnColor.Fprintf(env.Stderr, "warning: %v\n", err)
			}
		}
	}

	if quiet {
		return
	}
	if result.DebugDir != "" {
		dimColor.Fprintf(env.Stdout, "Uncompressed course: %s\n", result.DebugDir)
	}
	if flags.common.verbose {
		dimColor.Fprintf(env.Stdout, "%d chapters, %d pages, %d figures in %v\n",
			result.Chapters, len(result.HTMLFiles), len(result.Figures), elapsed.Round(time.Millisecond))
	}
	successColor.Fprintf(env.Stdout, "Created %s\n", result.ArchivePath)
}
