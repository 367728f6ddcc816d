package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-nb2edx/internal/notebook"
	"github.com/alnah/go-nb2edx/internal/olx"
)

// ComponentMIMEType tags an output payload holding an OLX component.
const ComponentMIMEType = "application/vnd.edx.olxml+xml"

// Sentinel errors for unit conversion.
var (
	ErrMultipleComponents = errors.New("more than one OLX component in a cell")
	ErrInvalidComponent   = errors.New("invalid OLX component")
	ErrRender             = errors.New("HTML rendering failed")
)

// Artifact is one piece of unit output: either a rendered HTML page or an
// OLX component, never both.
type Artifact struct {
	HTML      string
	Component *olx.Element
}

// IsComponent reports whether the artifact is an OLX component.
func (a Artifact) IsComponent() bool {
	return a.Component != nil
}

// Classifier converts units into ordered artifacts.
type Classifier struct {
	renderer Renderer
}

// NewClassifier creates a Classifier rendering batches with r.
func NewClassifier(r Renderer) *Classifier {
	return &Classifier{renderer: r}
}

// ConvertUnit walks the unit's cells, batching markdown and ordinary code
// cells. Code cells without outputs and raw cells are skipped. A code cell
// carrying one OLX payload flushes the batch as HTML and contributes the
// parsed component; a cell carrying more than one fails the whole
// conversion with ErrMultipleComponents.
func (c *Classifier) ConvertUnit(ctx context.Context, unit Unit) ([]Artifact, error) {
	var (
		artifacts []Artifact
		batch     []notebook.Cell
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		page, err := c.renderBatch(ctx, batch)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, Artifact{HTML: page})
		batch = nil
		return nil
	}

	for _, cell := range unit.Cells {
		if cell.IsMarkdown() {
			batch = append(batch, cell)
			continue
		}
		if !cell.IsCode() || len(cell.Outputs) == 0 {
			continue
		}

		payloads := componentPayloads(cell)
		switch len(payloads) {
		case 0:
			batch = append(batch, cell)
			continue
		case 1:
		default:
			return nil, fmt.Errorf("%w: unit %q has a cell with %d components", ErrMultipleComponents, unit.Name, len(payloads))
		}

		component, err := olx.Parse(payloads[0])
		if err != nil {
			return nil, fmt.Errorf("%w: unit %q: %v", ErrInvalidComponent, unit.Name, err)
		}
		if err := flush(); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Component: component})
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// renderBatch rewrites equation environments in markdown sources, renders
// the batch and applies the same rewrite to the rendered page. Input cells
// are copied, never modified.
func (c *Classifier) renderBatch(ctx context.Context, cells []notebook.Cell) (string, error) {
	prepared := make([]notebook.Cell, len(cells))
	for i, cell := range cells {
		prepared[i] = cell
		if cell.IsMarkdown() {
			prepared[i].Source = notebook.Text(RewriteEquations(cell.Source.String()))
		}
	}

	page, err := c.renderer.Render(ctx, prepared)
	if err != nil {
		if errors.Is(err, ErrRender) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return RewriteEquations(page), nil
}

func componentPayloads(cell notebook.Cell) []string {
	var payloads []string
	for _, out := range cell.Outputs {
		if p, ok := out.Data[ComponentMIMEType]; ok {
			payloads = append(payloads, p)
		}
	}
	return payloads
}
