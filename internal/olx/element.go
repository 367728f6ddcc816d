// Package olx builds and reads the edX Open Learning XML tree. Elements are
// etree elements, so attribute order and comments survive a round trip
// through the skeleton's course definition.
package olx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Sentinel errors for OLX parsing.
var (
	ErrEmptyDocument = errors.New("empty XML document")
	ErrMalformedXML  = errors.New("malformed XML")
	ErrMultipleRoots = errors.New("XML document has more than one root element")
)

// Element is an OLX element.
type Element = etree.Element

// Attr is a single attribute for NewElement.
type Attr struct {
	Name  string
	Value string
}

// NewElement creates an element with the given attributes, in order.
func NewElement(name string, attrs ...Attr) *Element {
	el := etree.NewElement(name)
	for _, a := range attrs {
		el.CreateAttr(a.Name, a.Value)
	}
	return el
}

// AttrValue returns the value of the named attribute.
func AttrValue(e *Element, name string) (string, bool) {
	a := e.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Parse reads exactly one root element from s and detaches it from its
// document, dropping any declaration or processing instruction around it.
func Parse(s string) (*Element, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrEmptyDocument
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && !cd.IsWhitespace() {
			return nil, fmt.Errorf("%w: text outside root element", ErrMalformedXML)
		}
	}
	switch roots := doc.ChildElements(); len(roots) {
	case 0:
		return nil, ErrEmptyDocument
	case 1:
		root := roots[0]
		doc.RemoveChild(root)
		return root, nil
	default:
		return nil, ErrMultipleRoots
	}
}
