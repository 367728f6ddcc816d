package pipeline

import (
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FiguresDir is the flat directory figures are published to, relative to
// the rendered HTML pages.
const FiguresDir = "figures"

// FlattenFigurePaths rewrites relative image references that go through a
// figures directory (e.g. "../w1_intro/figures/band.svg") to
// "figures/band.svg", because figures of every week are copied into one
// flat directory next to the rendered pages. Fragments without any figure
// reference are returned unchanged.
//
// Rewrites img[src], source[src] and a[href]. Does NOT rewrite URLs,
// data URIs, anchors or absolute paths.
func FlattenFigurePaths(fragment string) (string, error) {
	if !strings.Contains(fragment, FiguresDir+"/") {
		return fragment, nil
	}

	doc, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	rewriteNode(doc)

	return renderFragment(doc)
}

// parseFragment parses HTML with a body context to avoid wrapping and
// collects the resulting nodes under one container for uniform traversal.
func parseFragment(content string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// renderFragment renders the container's children back to a string.
func renderFragment(doc *html.Node) (string, error) {
	var buf strings.Builder
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and flattens figure paths.
func rewriteNode(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "img", "source":
			rewriteAttr(n, "src")
		case "a":
			rewriteAttr(n, "href")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c)
	}
}

// rewriteAttr rewrites a single attribute if it is a relative figure path.
func rewriteAttr(n *html.Node, attrName string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}
		if flat, ok := flattenFigurePath(attr.Val); ok {
			n.Attr[i].Val = flat
		}
	}
}

// flattenFigurePath maps ".../figures/name" to "figures/name".
func flattenFigurePath(p string) (string, bool) {
	clean := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	dir, file := path.Split(clean)
	if file == "" || path.Base(strings.TrimSuffix(dir, "/")) != FiguresDir {
		return "", false
	}
	return FiguresDir + "/" + file, true
}

// isRelativePath returns true if the path should be considered.
func isRelativePath(p string) bool {
	if p == "" {
		return false
	}

	if strings.HasPrefix(p, "http://") ||
		strings.HasPrefix(p, "https://") ||
		strings.HasPrefix(p, "file://") ||
		strings.HasPrefix(p, "data:") ||
		strings.HasPrefix(p, "//") {
		return false
	}

	if strings.HasPrefix(p, "#") || strings.HasPrefix(p, "/") {
		return false
	}

	return true
}
