package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags controlling configuration and verbosity.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	logJSON bool
}

// courseFlags holds flags selecting what gets compiled.
type courseFlags struct {
	root         string
	syllabus     string
	fullContent  bool
	strict       bool
	includeInput bool
}

// outputFlags holds flags controlling where build products go.
type outputFlags struct {
	dir      string
	skeleton string
}

// debugFlags holds flags for inspecting the generated course.
type debugFlags struct {
	enabled bool
	open    bool
}

// assetFlags holds asset-related flags (templates, resizer script).
type assetFlags struct {
	assetPath string
	scriptURL string
}

// cliFlags holds every flag of the command.
type cliFlags struct {
	common  commonFlags
	course  courseFlags
	output  outputFlags
	debug   debugFlags
	assets  assetFlags
	yes     bool
	version bool
	help    bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.BoolVar(&f.logJSON, "log-json", false, "write logs as JSON")
}

// addCourseFlags adds course selection flags to a FlagSet.
func addCourseFlags(fs *flag.FlagSet, f *courseFlags) {
	fs.StringVar(&f.root, "root", "", "course repository root (default: current directory)")
	fs.StringVar(&f.syllabus, "syllabus", "", "syllabus notebook, relative to the source folder")
	fs.BoolVar(&f.fullContent, "all", false, "also compile sections without a release date")
	fs.BoolVar(&f.strict, "strict", false, "reject malformed syllabus lines instead of skipping them")
	fs.BoolVar(&f.includeInput, "include-input", false, "show code cell sources above their outputs")
}

// addOutputFlags adds output location flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVar(&f.dir, "output", "", "generated files directory")
	fs.StringVar(&f.skeleton, "skeleton", "", "edX skeleton directory")
}

// addDebugFlags adds debug flags to a FlagSet.
func addDebugFlags(fs *flag.FlagSet, f *debugFlags) {
	fs.BoolVarP(&f.enabled, "debug", "d", false, "keep an uncompressed copy of the course")
	fs.BoolVarP(&f.open, "open", "o", false, "open the uncompressed copy (requires --debug)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template directory")
	fs.StringVar(&f.scriptURL, "script-url", "", "iframe-resizer script URL or file")
}

// parseFlags parses the command line (without the program name) and returns
// positional args. Errors are returned, never printed.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("nb2edx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	addCourseFlags(fs, &f.course)
	addOutputFlags(fs, &f.output)
	addDebugFlags(fs, &f.debug)
	addAssetFlags(fs, &f.assets)
	fs.BoolVarP(&f.yes, "yes", "y", false, "do not wait after git warnings")
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
