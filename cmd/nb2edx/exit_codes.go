package main

import (
	"errors"
	"os"

	nb2edx "github.com/alnah/go-nb2edx"
	"github.com/alnah/go-nb2edx/internal/config"
)

// Exit codes for the nb2edx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Archive created
	ExitGeneral = 1 // General/unexpected error, interrupt
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, download failure
	ExitContent = 4 // Notebook or syllabus content cannot be compiled
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Content errors (exit 4)
	if errors.Is(err, nb2edx.ErrMalformedSyllabus) ||
		errors.Is(err, nb2edx.ErrMultipleComponents) ||
		errors.Is(err, nb2edx.ErrInvalidComponent) ||
		errors.Is(err, nb2edx.ErrRender) ||
		errors.Is(err, nb2edx.ErrParseNotebook) {
		return ExitContent
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoSource) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, nb2edx.ErrInvalidReleaseDate) ||
		errors.Is(err, nb2edx.ErrInvalidInput) ||
		errors.Is(err, nb2edx.ErrInvalidSkeleton) ||
		errors.Is(err, nb2edx.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, nb2edx.ErrReadNotebook) ||
		errors.Is(err, nb2edx.ErrWriteOutput) ||
		errors.Is(err, nb2edx.ErrArchive) ||
		errors.Is(err, nb2edx.ErrScriptLoad) {
		return ExitIO
	}

	return ExitGeneral
}
