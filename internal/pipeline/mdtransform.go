package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Math placeholders use Unicode Private Use Area characters, which pass
// through Goldmark unchanged. Each protected span becomes
// MathStartPlaceholder + index + MathEndPlaceholder.
const (
	MathStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MathEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	// \begin{equation} / \end{equation}, spaces inside the braces tolerated.
	beginEquation = regexp.MustCompile(`\\begin\{ *equation *\}`)
	endEquation   = regexp.MustCompile(`\\end\{ *equation *\}`)

	// Display math first so $$ is never read as two empty inline spans.
	mathSpan = regexp.MustCompile(`(?s)\$\$.+?\$\$|\\\[.+?\\\]|\\\(.+?\\\)|\$[^$\n]+?\$`)

	placeholder = regexp.MustCompile(MathStartPlaceholder + `(\d+)` + MathEndPlaceholder)
)

// RewriteEquations replaces \begin{equation} and \end{equation} with the
// \[ and \] display-math brackets.
func RewriteEquations(s string) string {
	s = beginEquation.ReplaceAllLiteralString(s, `\[`)
	return endEquation.ReplaceAllLiteralString(s, `\]`)
}

// protectMath swaps TeX spans for placeholders and returns the originals.
func protectMath(content string) (string, []string) {
	var spans []string
	out := mathSpan.ReplaceAllStringFunc(content, func(m string) string {
		spans = append(spans, m)
		return MathStartPlaceholder + strconv.Itoa(len(spans)-1) + MathEndPlaceholder
	})
	return out, spans
}

// restoreMath puts the HTML-escaped TeX spans back in place of their
// placeholders. Unknown indices are left untouched.
func restoreMath(rendered string, spans []string) string {
	if len(spans) == 0 || !strings.Contains(rendered, MathStartPlaceholder) {
		return rendered
	}
	return placeholder.ReplaceAllStringFunc(rendered, func(m string) string {
		idx, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(m, MathStartPlaceholder), MathEndPlaceholder))
		if err != nil || idx >= len(spans) {
			return m
		}
		return html.EscapeString(spans[idx])
	})
}
