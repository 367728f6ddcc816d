package pipeline

import (
	"regexp"
	"strings"

	"github.com/alnah/go-nb2edx/internal/notebook"
)

// HeadingPrefix marks a top-level heading line.
const HeadingPrefix = "# "

var headingLine = regexp.MustCompile(`(?m)^# .*$`)

// Unit is a named run of cells between two top-level headings.
type Unit struct {
	Name  string
	Cells []notebook.Cell
}

type splitState int

const (
	beforeFirstUnit splitState = iota
	insideUnit
)

// SplitUnits cuts nb into units. Markdown cells are first split on heading
// lines; every heading opens a new unit named by the heading text. Cells
// seen before the first heading are dropped. With includeHeader the heading
// cell is kept as the unit's first cell. Heading-like lines inside code
// cells never split.
func SplitUnits(nb *notebook.Notebook, includeHeader bool) []Unit {
	var (
		units []Unit
		state = beforeFirstUnit
	)

	for _, cell := range nb.Cells {
		pieces := []notebook.Cell{cell}
		if cell.IsMarkdown() {
			pieces = splitMarkdown(cell)
		}

		for _, piece := range pieces {
			if name, ok := headingName(piece); ok {
				units = append(units, Unit{Name: name})
				state = insideUnit
				if includeHeader {
					units[len(units)-1].Cells = append(units[len(units)-1].Cells, piece)
				}
				continue
			}

			switch state {
			case beforeFirstUnit:
				// no unit to attach to yet
			case insideUnit:
				units[len(units)-1].Cells = append(units[len(units)-1].Cells, piece)
			}
		}
	}

	return units
}

// splitMarkdown cuts a markdown cell around heading lines. The pieces
// alternate between text and single heading lines, starting and ending with
// text; empty text pieces are kept so a heading-only cell still leaves an
// empty cell behind it. An unsplit cell is returned as is.
func splitMarkdown(cell notebook.Cell) []notebook.Cell {
	src := cell.Source.String()
	matches := headingLine.FindAllStringIndex(src, -1)
	if len(matches) == 0 {
		return []notebook.Cell{cell}
	}

	pieces := make([]notebook.Cell, 0, 2*len(matches)+1)
	prev := 0
	for _, m := range matches {
		pieces = append(pieces,
			notebook.NewMarkdownCell(src[prev:m[0]]),
			notebook.NewMarkdownCell(src[m[0]:m[1]]),
		)
		prev = m[1]
	}
	pieces = append(pieces, notebook.NewMarkdownCell(src[prev:]))

	return pieces
}

func headingName(cell notebook.Cell) (string, bool) {
	if !cell.IsMarkdown() {
		return "", false
	}
	src := cell.Source.String()
	if !strings.HasPrefix(src, HeadingPrefix) || strings.Contains(src, "\n") {
		return "", false
	}
	return strings.TrimPrefix(src, HeadingPrefix), true
}
