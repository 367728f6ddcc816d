package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-nb2edx/internal/dateutil"
	"github.com/alnah/go-nb2edx/internal/fileutil"
	"github.com/alnah/go-nb2edx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxURLLength         = 2048
	MaxHostLength        = 253
	MaxSectionNameLength = 200
	MaxDateLength        = 30
)

// Defaults mirror the layout of a course repository.
const (
	DefaultSyllabus     = "syllabus.ipynb"
	DefaultGeneratedDir = "generated"
	DefaultArchiveName  = "import_to_edx.tar.gz"
	DefaultSkeletonDir  = "edx_skeleton"
	DefaultIframeHost   = "topocondmat.org/edx"
	DefaultTestDomain   = "edge.edx.org"
	DefaultScriptURL    = "https://cdnjs.cloudflare.com/ajax/libs/iframe-resizer/3.5.14/iframeResizer.min.js"
	DefaultFigurePath   = `w\d+_.+/figures`
	DefaultReleaseDates = "release_dates.yaml"
)

// Config holds all configuration for a course build.
type Config struct {
	Course       CourseConfig      `yaml:"course"`
	ReleaseDates map[string]string `yaml:"releaseDates"`
	Output       OutputConfig      `yaml:"output"`
	Iframe       IframeConfig      `yaml:"iframe"`
	Assets       AssetsConfig      `yaml:"assets"`
	Figures      FiguresConfig     `yaml:"figures"`
}

// CourseConfig defines how the syllabus is read and compiled.
type CourseConfig struct {
	ContentDir        string `yaml:"contentDir"`        // Default source folder (empty = must specify)
	Syllabus          string `yaml:"syllabus"`          // Syllabus notebook, relative to the content folder
	ReleaseDatesFile  string `yaml:"releaseDatesFile"`  // YAML map merged under releaseDates
	ReleaseDateFormat string `yaml:"releaseDateFormat"` // Token format, default "D MMM YYYY"
	FullContent       bool   `yaml:"fullContent"`       // Compile sections without a release date
	StrictSyllabus    bool   `yaml:"strictSyllabus"`    // Fail on orphan subsections and duplicate sections
	StartHour         int    `yaml:"startHour"`         // Hour of day (UTC) of the start attribute
	StartDayOffset    int    `yaml:"startDayOffset"`    // Days added to every release date
	IncludeInput      bool   `yaml:"includeInput"`      // Show code cell sources above their outputs
}

// OutputConfig defines where build products go.
type OutputConfig struct {
	GeneratedDir string `yaml:"generatedDir"` // Relative to the course root
	ArchiveName  string `yaml:"archiveName"`
	SkeletonDir  string `yaml:"skeletonDir"` // Copied into the package when present
}

// IframeConfig defines the wrapper pages that embed rendered HTML.
type IframeConfig struct {
	Host       string `yaml:"host"`       // Host and path serving the rendered HTML
	TestDomain string `yaml:"testDomain"` // Platform domain that switches to the "test." host
	ScriptURL  string `yaml:"scriptURL"`  // iframe-resizer script
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// FiguresConfig defines which directories hold figures to publish.
type FiguresConfig struct {
	Pattern string `yaml:"pattern"` // Regexp matched against paths relative to the content folder
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Course: CourseConfig{
			Syllabus:          DefaultSyllabus,
			ReleaseDateFormat: dateutil.DefaultReleaseDateFormat,
			StartHour:         dateutil.DefaultStartHour,
		},
		ReleaseDates: map[string]string{},
		Output: OutputConfig{
			GeneratedDir: DefaultGeneratedDir,
			ArchiveName:  DefaultArchiveName,
			SkeletonDir:  DefaultSkeletonDir,
		},
		Iframe: IframeConfig{
			Host:       DefaultIframeHost,
			TestDomain: DefaultTestDomain,
			ScriptURL:  DefaultScriptURL,
		},
		Figures: FiguresConfig{Pattern: DefaultFigurePath},
	}
}

// Validate checks field lengths and value ranges.
func (c *Config) Validate() error {
	paths := []struct{ name, value string }{
		{"course.contentDir", c.Course.ContentDir},
		{"course.syllabus", c.Course.Syllabus},
		{"course.releaseDatesFile", c.Course.ReleaseDatesFile},
		{"output.generatedDir", c.Output.GeneratedDir},
		{"output.archiveName", c.Output.ArchiveName},
		{"output.skeletonDir", c.Output.SkeletonDir},
		{"assets.basePath", c.Assets.BasePath},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("iframe.host", c.Iframe.Host, MaxHostLength); err != nil {
		return err
	}
	if err := validateFieldLength("iframe.testDomain", c.Iframe.TestDomain, MaxHostLength); err != nil {
		return err
	}
	if err := validateFieldLength("iframe.scriptURL", c.Iframe.ScriptURL, MaxURLLength); err != nil {
		return err
	}

	if c.Course.StartHour < 0 || c.Course.StartHour > 23 {
		return fmt.Errorf("%w: course.startHour must be between 0 and 23, got %d", ErrInvalidField, c.Course.StartHour)
	}
	if strings.ContainsAny(c.Output.ArchiveName, `/\`) {
		return fmt.Errorf("%w: output.archiveName must be a file name, got %q", ErrInvalidField, c.Output.ArchiveName)
	}
	if c.Figures.Pattern != "" {
		if _, err := regexp.Compile(c.Figures.Pattern); err != nil {
			return fmt.Errorf("%w: figures.pattern: %v", ErrInvalidField, err)
		}
	}

	for name, date := range c.ReleaseDates {
		if err := validateFieldLength("releaseDates key", name, MaxSectionNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("releaseDates[%q]", name), date, MaxDateLength); err != nil {
			return err
		}
	}
	if _, err := c.ParsedReleaseDates(); err != nil {
		return err
	}

	return nil
}

// ParsedReleaseDates returns the release-date table keyed by section name.
func (c *Config) ParsedReleaseDates() (map[string]time.Time, error) {
	dates := make(map[string]time.Time, len(c.ReleaseDates))
	for name, value := range c.ReleaseDates {
		t, err := dateutil.ParseReleaseDate(value, c.Course.ReleaseDateFormat)
		if err != nil {
			return nil, fmt.Errorf("releaseDates[%q]: %w", name, err)
		}
		dates[name] = t
	}
	return dates, nil
}

// MergeReleaseDates loads a YAML map of section name to date from path and
// adds entries not already present in the config.
func (c *Config) MergeReleaseDates(path string) error {
	var dates map[string]string
	if err := yamlutil.UnmarshalFile(path, &dates); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if c.ReleaseDates == nil {
		c.ReleaseDates = make(map[string]string, len(dates))
	}
	for name, date := range dates {
		if _, ok := c.ReleaseDates[name]; !ok {
			c.ReleaseDates[name] = date
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if cfg.Course.ReleaseDatesFile != "" {
		datesPath := cfg.Course.ReleaseDatesFile
		if !filepath.IsAbs(datesPath) {
			datesPath = filepath.Join(filepath.Dir(configPath), datesPath)
		}
		if err := cfg.MergeReleaseDates(datesPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists the files tried for a config name, in order: the
// current directory, then ~/.config/go-nb2edx/, each with .yaml then .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-nb2edx", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
