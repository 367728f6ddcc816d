package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alnah/go-nb2edx/internal/notebook"
)

// Default script locations for rendered pages.
const (
	DefaultMathJaxURL       = "https://cdnjs.cloudflare.com/ajax/libs/mathjax/2.7.5/MathJax.js?config=TeX-AMS_HTML"
	DefaultContentScriptURL = "https://cdnjs.cloudflare.com/ajax/libs/iframe-resizer/3.5.14/iframeResizer.contentWindow.min.js"
)

// pageTemplate wraps rendered cells in a standalone HTML5 page. The page is
// shown inside an iframe, hence the content-window resizer script.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<script type="text/x-mathjax-config">
MathJax.Hub.Config({
  tex2jax: {inlineMath: [['$','$'], ['\\(','\\)']], displayMath: [['$$','$$'], ['\\[','\\]']], processEscapes: true}
});
</script>
%s</head>
<body>
<div class="notebook">
%s</div>
</body>
</html>
`

// ansiEscape matches terminal color sequences found in tracebacks.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// outputPriority lists display MIME types from richest to plainest.
var outputPriority = []string{
	"text/html",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"text/latex",
	"text/markdown",
	"text/plain",
}

// Renderer turns an ordered batch of cells into one HTML page.
type Renderer interface {
	Render(ctx context.Context, cells []notebook.Cell) (string, error)
}

// RenderConfig is the explicit renderer configuration.
type RenderConfig struct {
	Title            string // <title> of every page
	IncludeInput     bool   // Show code cell sources above their outputs
	MathJaxURL       string // Empty disables the MathJax loader
	ContentScriptURL string // Empty disables the iframe content-window script
	FlattenFigures   bool   // Rewrite .../figures/x references to figures/x
}

// DefaultRenderConfig returns the configuration used for course pages:
// code input hidden, MathJax and resizer scripts loaded.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Title:            "Notebook",
		MathJaxURL:       DefaultMathJaxURL,
		ContentScriptURL: DefaultContentScriptURL,
		FlattenFigures:   true,
	}
}

// NotebookRenderer renders notebook cells with Goldmark.
type NotebookRenderer struct {
	cfg RenderConfig
	md  MarkdownConverter
}

// NewNotebookRenderer creates a renderer with the given configuration.
func NewNotebookRenderer(cfg RenderConfig) *NotebookRenderer {
	return &NotebookRenderer{cfg: cfg, md: NewGoldmarkConverter()}
}

// Render implements Renderer.
func (r *NotebookRenderer) Render(ctx context.Context, cells []notebook.Cell) (string, error) {
	var body strings.Builder

	for i, cell := range cells {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var (
			fragment string
			err      error
		)
		switch cell.Type {
		case notebook.CellMarkdown:
			fragment, err = r.renderMarkdownCell(ctx, cell)
		case notebook.CellCode:
			fragment, err = r.renderCodeCell(ctx, cell)
		default:
			continue
		}
		if err != nil {
			return "", fmt.Errorf("cell %d: %w", i, err)
		}
		body.WriteString(fragment)
	}

	content := body.String()
	if r.cfg.FlattenFigures {
		var err error
		content, err = FlattenFigurePaths(content)
		if err != nil {
			return "", fmt.Errorf("%w: rewriting figure paths: %v", ErrRender, err)
		}
	}

	return fmt.Sprintf(pageTemplate, html.EscapeString(r.cfg.Title), r.scripts(), content), nil
}

func (r *NotebookRenderer) scripts() string {
	var b strings.Builder
	for _, src := range []string{r.cfg.MathJaxURL, r.cfg.ContentScriptURL} {
		if src == "" {
			continue
		}
		fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", html.EscapeString(src))
	}
	return b.String()
}

func (r *NotebookRenderer) renderMarkdownCell(ctx context.Context, cell notebook.Cell) (string, error) {
	out, err := r.md.ToHTML(ctx, cell.Source.String())
	if err != nil {
		return "", err
	}
	return "<div class=\"cell text_cell\">\n" + out + "</div>\n", nil
}

func (r *NotebookRenderer) renderCodeCell(ctx context.Context, cell notebook.Cell) (string, error) {
	var b strings.Builder
	b.WriteString("<div class=\"cell code_cell\">\n")

	if r.cfg.IncludeInput && strings.TrimSpace(cell.Source.String()) != "" {
		fmt.Fprintf(&b, "<div class=\"input\"><pre><code class=\"language-python\">%s</code></pre></div>\n",
			html.EscapeString(cell.Source.String()))
	}

	for _, out := range cell.Outputs {
		fragment, err := r.renderOutput(ctx, out)
		if err != nil {
			return "", err
		}
		if fragment == "" {
			continue
		}
		b.WriteString("<div class=\"output\">\n")
		b.WriteString(fragment)
		b.WriteString("</div>\n")
	}

	b.WriteString("</div>\n")
	return b.String(), nil
}

func (r *NotebookRenderer) renderOutput(ctx context.Context, out notebook.Output) (string, error) {
	switch out.OutputType {
	case notebook.OutputStream:
		return fmt.Sprintf("<pre class=\"output_stream output_%s\">%s</pre>\n",
			html.EscapeString(out.Name), html.EscapeString(out.Text.String())), nil

	case notebook.OutputError:
		lines := make([]string, len(out.Traceback))
		for i, l := range out.Traceback {
			lines[i] = ansiEscape.ReplaceAllString(l, "")
		}
		return fmt.Sprintf("<pre class=\"output_error\">%s</pre>\n",
			html.EscapeString(strings.Join(lines, "\n"))), nil

	case notebook.OutputDisplayData, notebook.OutputExecuteResult:
		return r.renderMIMEBundle(ctx, out.Data)
	}
	return "", nil
}

func (r *NotebookRenderer) renderMIMEBundle(ctx context.Context, data notebook.MIMEBundle) (string, error) {
	for _, mime := range outputPriority {
		payload, ok := data[mime]
		if !ok {
			continue
		}

		switch mime {
		case "text/html", "image/svg+xml":
			return payload + "\n", nil
		case "image/png", "image/jpeg":
			encoded := strings.Join(strings.Fields(payload), "")
			if _, err := base64.StdEncoding.DecodeString(encoded); err != nil {
				return "", fmt.Errorf("%w: invalid %s payload: %v", ErrRender, mime, err)
			}
			return fmt.Sprintf("<img src=\"data:%s;base64,%s\"/>\n", mime, encoded), nil
		case "text/latex", "text/markdown":
			return r.md.ToHTML(ctx, payload)
		case "text/plain":
			return fmt.Sprintf("<pre class=\"output_text\">%s</pre>\n", html.EscapeString(payload)), nil
		}
	}
	return "", nil
}

// Compile-time interface check.
var _ Renderer = (*NotebookRenderer)(nil)
