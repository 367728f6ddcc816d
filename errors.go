package nb2edx

import (
	"errors"

	"github.com/alnah/go-nb2edx/internal/archive"
	"github.com/alnah/go-nb2edx/internal/assets"
	"github.com/alnah/go-nb2edx/internal/dateutil"
	"github.com/alnah/go-nb2edx/internal/notebook"
	"github.com/alnah/go-nb2edx/internal/pipeline"
	"github.com/alnah/go-nb2edx/internal/syllabus"
)

// Sentinel errors for library operations.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrWriteOutput      = errors.New("failed to write output")
	ErrInvalidSkeleton  = errors.New("invalid edX skeleton")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Content errors.
	ErrMalformedSyllabus  = syllabus.ErrMalformedSyllabus
	ErrMultipleComponents = pipeline.ErrMultipleComponents
	ErrInvalidComponent   = pipeline.ErrInvalidComponent
	ErrRender             = pipeline.ErrRender

	// Notebook errors.
	ErrReadNotebook  = notebook.ErrReadNotebook
	ErrParseNotebook = notebook.ErrParseNotebook

	// Release date errors.
	ErrInvalidReleaseDate = dateutil.ErrInvalidReleaseDate

	// Packaging errors.
	ErrArchive    = archive.ErrArchive
	ErrScriptLoad = assets.ErrScriptLoad
)
