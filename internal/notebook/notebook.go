// Package notebook reads Jupyter notebooks (nbformat v4) into an ordered
// sequence of typed cells.
//
// Only the parts of the format the course compiler consumes are modelled:
// cell kind, source text, outputs and their MIME bundles. Multi-line fields,
// which nbformat stores either as a string or as a list of strings, are
// joined into a single string on read.
package notebook

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// Sentinel errors for notebook operations.
var (
	ErrReadNotebook    = errors.New("failed to read notebook")
	ErrParseNotebook   = errors.New("failed to parse notebook")
	ErrUnsupportedNBv  = errors.New("unsupported nbformat version")
	ErrEmptyNotebookIn = errors.New("notebook content cannot be empty")
)

// MaxNotebookSize limits the notebook file size (64MB, notebooks embed images).
var MaxNotebookSize int64 = 64 << 20

// CellType is the kind of a notebook cell.
type CellType string

// Cell kinds defined by nbformat v4.
const (
	CellMarkdown CellType = "markdown"
	CellCode     CellType = "code"
	CellRaw      CellType = "raw"
)

// Output types defined by nbformat v4.
const (
	OutputStream        = "stream"
	OutputDisplayData   = "display_data"
	OutputExecuteResult = "execute_result"
	OutputError         = "error"
)

// Notebook is a parsed notebook document.
type Notebook struct {
	Cells         []Cell         `json:"cells"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// Cell is one block of notebook content.
type Cell struct {
	Type     CellType       `json:"cell_type"`
	Source   Text           `json:"source"`
	Outputs  []Output       `json:"outputs,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Output is one recorded output of a code cell.
type Output struct {
	OutputType string         `json:"output_type"`
	Name       string         `json:"name,omitempty"`
	Text       Text           `json:"text,omitempty"`
	Data       MIMEBundle     `json:"data,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	EName      string         `json:"ename,omitempty"`
	EValue     string         `json:"evalue,omitempty"`
	Traceback  []string       `json:"traceback,omitempty"`
}

// Text is a multi-line string field. nbformat allows both "a\nb" and
// ["a\n", "b"]; both decode to the same value.
type Text string

// UnmarshalJSON accepts a JSON string or an array of strings.
func (t *Text) UnmarshalJSON(data []byte) error {
	s, err := decodeMultiline(data)
	if err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

// String returns the joined text.
func (t Text) String() string {
	return string(t)
}

// MIMEBundle maps a MIME type to its payload. Textual payloads are joined;
// structured payloads (e.g. application/json) keep their raw JSON encoding.
type MIMEBundle map[string]string

// UnmarshalJSON decodes each MIME entry independently.
func (b *MIMEBundle) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(MIMEBundle, len(raw))
	for mime, value := range raw {
		s, err := decodeMultiline(value)
		if err != nil {
			out[mime] = string(value)
			continue
		}
		out[mime] = s
	}
	*b = out
	return nil
}

func decodeMultiline(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return "", fmt.Errorf("expected string or list of strings: %w", err)
	}
	return strings.Join(lines, ""), nil
}

// IsMarkdown reports whether the cell is prose.
func (c Cell) IsMarkdown() bool {
	return c.Type == CellMarkdown
}

// IsCode reports whether the cell is code with (possibly zero) outputs.
func (c Cell) IsCode() bool {
	return c.Type == CellCode
}

// NewMarkdownCell returns a markdown cell with the given source.
func NewMarkdownCell(source string) Cell {
	return Cell{Type: CellMarkdown, Source: Text(source), Metadata: map[string]any{}}
}

// Parse decodes nbformat v4 JSON.
func Parse(data []byte) (*Notebook, error) {
	if len(data) == 0 {
		return nil, ErrEmptyNotebookIn
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseNotebook, err)
	}
	if nb.NBFormat != 0 && nb.NBFormat != 4 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedNBv, nb.NBFormat)
	}
	return &nb, nil
}

// ReadFile reads and parses the notebook at path.
func ReadFile(path string) (*Notebook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadNotebook, err)
	}
	if info.Size() > MaxNotebookSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrReadNotebook, path, info.Size(), MaxNotebookSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the syllabus
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadNotebook, err)
	}

	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Reader loads notebooks by path. The compiler depends on this interface so
// tests can serve notebooks from memory.
type Reader interface {
	ReadNotebook(path string) (*Notebook, error)
}

// FileReader reads notebooks from disk.
type FileReader struct{}

// ReadNotebook implements Reader.
func (FileReader) ReadNotebook(path string) (*Notebook, error) {
	return ReadFile(path)
}

// Compile-time interface check.
var _ Reader = FileReader{}
