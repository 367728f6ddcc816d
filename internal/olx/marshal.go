package olx

import (
	"regexp"

	"github.com/beevik/etree"
)

// IndentSpaces is the per-level indentation of serialized OLX.
const IndentSpaces = 2

var (
	displayMath = regexp.MustCompile(`\$\$(.*?)\$\$`)
	inlineMath  = regexp.MustCompile(`\$(.*?)\$`)
)

// Marshal writes a copy of e as indented markup without an XML
// declaration. Childless elements are self-closed and text-only elements
// stay on one line. e itself is not modified.
func Marshal(e *Element) []byte {
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	doc.Indent(IndentSpaces)

	// Writing to memory cannot fail.
	out, _ := doc.WriteToBytes()
	return out
}

// RewriteMath turns $$x$$ into \[x\] and then $x$ into \(x\) anywhere in s.
// It is a line-local textual pass, not markup-aware.
func RewriteMath(s string) string {
	s = displayMath.ReplaceAllString(s, `\[${1}\]`)
	return inlineMath.ReplaceAllString(s, `\(${1}\)`)
}
