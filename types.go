package nb2edx

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-nb2edx/internal/config"
	"github.com/alnah/go-nb2edx/internal/dateutil"
)

// Default locations relative to Input.RootDir.
const (
	DefaultGeneratedDir = config.DefaultGeneratedDir
	DefaultSkeletonDir  = config.DefaultSkeletonDir
	DefaultSyllabus     = config.DefaultSyllabus
	DefaultArchiveName  = config.DefaultArchiveName
)

// Input describes one compilation.
type Input struct {
	ContentDir  string // folder holding the syllabus and week notebooks (required)
	RootDir     string // course repository root; empty means the working directory
	Syllabus    string // syllabus file relative to ContentDir; empty means DefaultSyllabus
	OutputDir   string // generated files; empty means RootDir/generated
	SkeletonDir string // edX skeleton; empty means RootDir/edx_skeleton if present
	FullContent bool   // also compile sections without a release date
	Debug       bool   // keep an uncompressed copy of the course in OutputDir/files
}

// Validate checks that the input can be compiled.
func (in Input) Validate() error {
	if in.ContentDir == "" {
		return fmt.Errorf("%w: content directory is required", ErrInvalidInput)
	}
	info, err := os.Stat(in.ContentDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, in.ContentDir)
	}
	return nil
}

// Result reports what a compilation produced.
type Result struct {
	ArchivePath string   // the import_to_edx.tar.gz file
	CourseXML   string   // serialized course definition, math delimiters rewritten
	HTMLFiles   []string // rendered pages, in course order
	Figures     []string // copied figure files
	Chapters    int      // chapters in the course
	DebugDir    string   // uncompressed copy, set in debug mode
}

// ScriptLoader provides the iframe-resizer script inlined in every wrapper
// page.
type ScriptLoader interface {
	LoadScript(ctx context.Context) (string, error)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.zap = l
		}
	}
}

// WithReleaseDates sets the section release dates, keyed by section name.
func WithReleaseDates(dates map[string]time.Time) Option {
	return func(c *Compiler) {
		c.cfg.releaseDates = dates
	}
}

// WithStrictSyllabus rejects subsections listed before any section and
// duplicate section names.
func WithStrictSyllabus(strict bool) Option {
	return func(c *Compiler) {
		c.cfg.strictSyllabus = strict
	}
}

// WithStartHour sets the UTC hour of chapter start times.
// Panics if hour is outside 0-23 (programmer error).
func WithStartHour(hour int) Option {
	if hour < 0 || hour > 23 {
		panic("nb2edx: WithStartHour hour must be between 0 and 23")
	}
	return func(c *Compiler) {
		c.cfg.startHour = hour
	}
}

// WithDayOffset shifts every chapter start by days.
func WithDayOffset(days int) Option {
	return func(c *Compiler) {
		c.cfg.dayOffset = days
	}
}

// WithIframe sets the host serving the rendered pages and the edX domain
// that switches the wrapper to the "test." host.
func WithIframe(host, testDomain string) Option {
	return func(c *Compiler) {
		c.cfg.iframeHost = host
		c.cfg.testDomain = testDomain
	}
}

// WithScriptURL sets where the resizer script is fetched from and which URL
// AMD loaders use. A local path is read from disk.
func WithScriptURL(url string) Option {
	return func(c *Compiler) {
		c.cfg.scriptURL = url
	}
}

// WithScriptLoader replaces the resizer script source.
func WithScriptLoader(l ScriptLoader) Option {
	return func(c *Compiler) {
		c.scriptLoader = l
	}
}

// WithAssetPath overrides embedded templates with files from
// {path}/templates.
func WithAssetPath(path string) Option {
	return func(c *Compiler) {
		c.cfg.assetPath = path
	}
}

// WithFigurePattern sets the regular expression selecting figure
// directories, relative to the content folder.
func WithFigurePattern(pattern string) Option {
	return func(c *Compiler) {
		c.cfg.figurePattern = pattern
	}
}

// WithArchiveName sets the archive file name inside the output directory.
func WithArchiveName(name string) Option {
	return func(c *Compiler) {
		c.cfg.archiveName = name
	}
}

// WithIncludeInput shows code cell sources above their outputs.
func WithIncludeInput(include bool) Option {
	return func(c *Compiler) {
		c.cfg.includeInput = include
	}
}

// compilerConfig holds internal configuration for Compiler.
type compilerConfig struct {
	releaseDates   map[string]time.Time
	strictSyllabus bool
	startHour      int
	dayOffset      int
	iframeHost     string
	testDomain     string
	scriptURL      string
	assetPath      string
	figurePattern  string
	archiveName    string
	includeInput   bool
}

func defaultCompilerConfig() compilerConfig {
	return compilerConfig{
		startHour:     dateutil.DefaultStartHour,
		iframeHost:    config.DefaultIframeHost,
		testDomain:    config.DefaultTestDomain,
		scriptURL:     config.DefaultScriptURL,
		figurePattern: config.DefaultFigurePath,
		archiveName:   DefaultArchiveName,
	}
}
