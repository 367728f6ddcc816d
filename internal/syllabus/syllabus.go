// Package syllabus reads the course outline from the syllabus notebook.
//
// The outline is a markdown list written under the first heading of the
// notebook, in the same cell:
//
//	# Syllabus
//	* **Week 1**
//	  * [Lecture](w1_intro/lecture.ipynb)
//	  * [Exercises](w1_intro/exercises.ipynb)
//
// A bold item opens a section; an indented link adds a subsection to the
// most recent section. Every other line is ignored.
package syllabus

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-nb2edx/internal/logger"
	"github.com/alnah/go-nb2edx/internal/notebook"
	"github.com/alnah/go-nb2edx/internal/pipeline"
)

// ErrMalformedSyllabus is returned when the outline cannot be read.
var ErrMalformedSyllabus = errors.New("malformed syllabus")

var (
	sectionLine    = regexp.MustCompile(`^\* \*\*(?P<section>.*)\*\*$`)
	subsectionLine = regexp.MustCompile(`^  \* \[(?P<title>.*)\]\((?P<filename>.*)\)$`)
)

// Subsection is one notebook of a section.
type Subsection struct {
	Title string
	Path  string
}

// Entry is one section of the outline. Index is its position in the
// syllabus and never changes, even when earlier sections are filtered out.
type Entry struct {
	Name        string
	ReleaseDate *time.Time
	Index       int
	Subsections []Subsection
}

// HasReleaseDate reports whether the section is scheduled.
func (e Entry) HasReleaseDate() bool {
	return e.ReleaseDate != nil
}

// Options controls parsing.
type Options struct {
	// Strict rejects subsections listed before any section and duplicate
	// section names instead of skipping them.
	Strict bool
	// ContentDir is joined to every subsection path.
	ContentDir string
	Logger     *logger.Logger
}

// Parse reads the outline from nb. dates maps section names to release
// dates; sections absent from it get a nil ReleaseDate.
func Parse(nb *notebook.Notebook, dates map[string]time.Time, opts Options) ([]Entry, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	units := pipeline.SplitUnits(nb, true)
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: no heading found", ErrMalformedSyllabus)
	}
	// The outline is the text right after the heading, in the heading's own
	// cell. A heading alone in its cell leaves an empty piece in its place.
	if len(units[0].Cells) < 2 || strings.TrimSpace(units[0].Cells[1].Source.String()) == "" {
		return nil, fmt.Errorf("%w: unit %q has no outline below its heading", ErrMalformedSyllabus, units[0].Name)
	}

	var (
		entries []Entry
		seen    = map[string]bool{}
	)

	lines := strings.Split(units[0].Cells[1].Source.String(), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		lineNo := i + 1

		if m := sectionLine.FindStringSubmatch(line); m != nil {
			name := m[sectionLine.SubexpIndex("section")]
			if seen[name] {
				if opts.Strict {
					return nil, fmt.Errorf("%w: line %d: duplicate section %q", ErrMalformedSyllabus, lineNo, name)
				}
				log.Warn("duplicate section name", "line", lineNo, "section", name)
			}
			seen[name] = true

			entry := Entry{Name: name, Index: len(entries)}
			if d, ok := dates[name]; ok {
				entry.ReleaseDate = &d
			}
			entries = append(entries, entry)
			continue
		}

		if m := subsectionLine.FindStringSubmatch(line); m != nil {
			sub := Subsection{
				Title: m[subsectionLine.SubexpIndex("title")],
				Path:  filepath.Join(opts.ContentDir, filepath.FromSlash(m[subsectionLine.SubexpIndex("filename")])),
			}
			if len(entries) == 0 {
				if opts.Strict {
					return nil, fmt.Errorf("%w: line %d: subsection %q listed before any section", ErrMalformedSyllabus, lineNo, sub.Title)
				}
				log.Warn("subsection listed before any section, skipped", "line", lineNo, "title", sub.Title)
				continue
			}
			last := &entries[len(entries)-1]
			last.Subsections = append(last.Subsections, sub)
		}
	}

	return entries, nil
}

// Filter returns the entries to publish. Unless fullContent is set,
// sections without a release date are left out. Indices are kept.
func Filter(entries []Entry, fullContent bool) []Entry {
	if fullContent {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.HasReleaseDate() {
			out = append(out, e)
		}
	}
	return out
}
