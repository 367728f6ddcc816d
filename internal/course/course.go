// Package course holds the chapter / sequential / vertical / leaf tree of an
// edX course and turns it into OLX elements.
package course

import (
	"time"

	"github.com/alnah/go-nb2edx/internal/dateutil"
	"github.com/alnah/go-nb2edx/internal/olx"
)

// Grading formats.
const (
	FormatResearch  = "Research"
	FormatSelfCheck = "Self-check"
)

// AssignmentsName is the subsection title graded as research.
const AssignmentsName = "Assignments"

// Node is one of *Chapter, *Sequential, *Vertical or *Leaf.
type Node interface {
	ID() string
	Name() string
	node()
}

// Course is the ordered list of chapters.
type Course struct {
	Chapters []*Chapter
}

// Chapter is one syllabus section.
type Chapter struct {
	URLName     string
	DisplayName string
	Start       *time.Time // nil for unscheduled sections
	Sequentials []*Sequential
}

// Sequential is one subsection notebook.
type Sequential struct {
	URLName     string
	DisplayName string
	Start       *time.Time // inherited from the chapter
	Graded      bool
	Format      string // empty means no format attribute
	Source      string // notebook path
	Verticals   []*Vertical
}

// Vertical is one unit of a notebook.
type Vertical struct {
	URLName     string
	DisplayName string
	Leaves      []*Leaf
}

// Leaf is either a rendered HTML page or a component element, never both.
type Leaf struct {
	URLName     string
	DisplayName string
	HTML        string
	Component   *olx.Element
}

// IsHTML reports whether the leaf is a rendered page.
func (l *Leaf) IsHTML() bool {
	return l.Component == nil
}

func (c *Chapter) ID() string    { return c.URLName }
func (s *Sequential) ID() string { return s.URLName }
func (v *Vertical) ID() string   { return v.URLName }
func (l *Leaf) ID() string       { return l.URLName }

func (c *Chapter) Name() string    { return c.DisplayName }
func (s *Sequential) Name() string { return s.DisplayName }
func (v *Vertical) Name() string   { return v.DisplayName }
func (l *Leaf) Name() string       { return l.DisplayName }

func (*Chapter) node()    {}
func (*Sequential) node() {}
func (*Vertical) node()   {}
func (*Leaf) node()       {}

// Walk visits every node depth-first in document order.
func (c *Course) Walk(fn func(Node)) {
	for _, ch := range c.Chapters {
		fn(ch)
		for _, seq := range ch.Sequentials {
			fn(seq)
			for _, v := range seq.Verticals {
				fn(v)
				for _, l := range v.Leaves {
					fn(l)
				}
			}
		}
	}
}

// HTMLLeaves returns the rendered pages in document order.
func (c *Course) HTMLLeaves() []*Leaf {
	var leaves []*Leaf
	c.Walk(func(n Node) {
		if l, ok := n.(*Leaf); ok && l.IsHTML() {
			leaves = append(leaves, l)
		}
	})
	return leaves
}

// OLX appends one chapter element per chapter to root.
func (c *Course) OLX(root *olx.Element) {
	for _, ch := range c.Chapters {
		root.AddChild(ch.element())
	}
}

func (c *Chapter) element() *olx.Element {
	el := olx.NewElement("chapter",
		olx.Attr{Name: "url_name", Value: c.URLName},
		olx.Attr{Name: "display_name", Value: c.DisplayName},
	)
	if c.Start != nil {
		el.CreateAttr("start", dateutil.FormatStart(*c.Start))
	}
	for _, s := range c.Sequentials {
		el.AddChild(s.element())
	}
	return el
}

func (s *Sequential) element() *olx.Element {
	graded := "false"
	if s.Graded {
		graded = "true"
	}
	el := olx.NewElement("sequential",
		olx.Attr{Name: "url_name", Value: s.URLName},
		olx.Attr{Name: "display_name", Value: s.DisplayName},
		olx.Attr{Name: "graded", Value: graded},
	)
	if s.Format != "" {
		el.CreateAttr("format", s.Format)
	}
	for _, v := range s.Verticals {
		el.AddChild(v.element())
	}
	return el
}

func (v *Vertical) element() *olx.Element {
	el := olx.NewElement("vertical",
		olx.Attr{Name: "url_name", Value: v.URLName},
		olx.Attr{Name: "display_name", Value: v.DisplayName},
	)
	for _, l := range v.Leaves {
		el.AddChild(l.element())
	}
	return el
}

func (l *Leaf) element() *olx.Element {
	if !l.IsHTML() {
		return l.Component.Copy()
	}
	return olx.NewElement("html",
		olx.Attr{Name: "url_name", Value: l.URLName},
		olx.Attr{Name: "display_name", Value: l.DisplayName},
		olx.Attr{Name: "filename", Value: l.URLName},
	)
}

// Compile-time interface checks.
var (
	_ Node = (*Chapter)(nil)
	_ Node = (*Sequential)(nil)
	_ Node = (*Vertical)(nil)
	_ Node = (*Leaf)(nil)
)
