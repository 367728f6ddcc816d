package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2edx [flags] <source>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compile a folder of Jupyter notebooks into an edX course archive.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source    Folder holding syllabus.ipynb (optional if config has course.contentDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Course:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --root <dir>          Course repository root (default: current directory)")
	fmt.Fprintln(w, "      --syllabus <file>     Syllabus notebook, relative to the source folder")
	fmt.Fprintln(w, "      --all                 Also compile sections without a release date")
	fmt.Fprintln(w, "      --strict              Reject malformed syllabus lines")
	fmt.Fprintln(w, "      --include-input       Show code cell sources above their outputs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --output <dir>        Generated files directory (default: <root>/generated)")
	fmt.Fprintln(w, "      --skeleton <dir>      edX skeleton directory (default: <root>/edx_skeleton)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom template directory")
	fmt.Fprintln(w, "      --script-url <url>    iframe-resizer script URL or local file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Debug:")
	fmt.Fprintln(w, "  -d, --debug               Keep an uncompressed copy in <output>/files")
	fmt.Fprintln(w, "  -o, --open                Open the uncompressed copy (requires --debug)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -y, --yes                 Do not wait after git warnings")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-json            Write logs as JSON")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NB2EDX_CONFIG, NB2EDX_CONTENT_DIR, NB2EDX_OUTPUT_DIR,")
	fmt.Fprintln(w, "  NB2EDX_FULL_CONTENT, NB2EDX_SCRIPT_URL")
}
