package course

import (
	"context"
	"fmt"

	"github.com/alnah/go-nb2edx/internal/dateutil"
	"github.com/alnah/go-nb2edx/internal/logger"
	"github.com/alnah/go-nb2edx/internal/notebook"
	"github.com/alnah/go-nb2edx/internal/olx"
	"github.com/alnah/go-nb2edx/internal/pipeline"
	"github.com/alnah/go-nb2edx/internal/syllabus"
)

// IntroChapterIndex is the syllabus position of the ungraded introduction.
const IntroChapterIndex = 0

// UnitConverter turns one unit into ordered artifacts.
type UnitConverter interface {
	ConvertUnit(ctx context.Context, unit pipeline.Unit) ([]pipeline.Artifact, error)
}

// Builder assembles the course tree from syllabus entries.
type Builder struct {
	reader    notebook.Reader
	converter UnitConverter
	startHour int
	dayOffset int
	log       *logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithStartHour sets the UTC hour of chapter start times.
func WithStartHour(hour int) Option {
	return func(b *Builder) {
		b.startHour = hour
	}
}

// WithDayOffset shifts every chapter start by days.
func WithDayOffset(days int) Option {
	return func(b *Builder) {
		b.dayOffset = days
	}
}

// WithLogger sets the builder's logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBuilder creates a Builder reading notebooks with reader and converting
// units with converter.
func NewBuilder(reader notebook.Reader, converter UnitConverter, opts ...Option) *Builder {
	b := &Builder{
		reader:    reader,
		converter: converter,
		startHour: dateutil.DefaultStartHour,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates one chapter per entry. Identifiers come from the entries'
// syllabus indices and the positions of subsections, units and artifacts,
// so unchanged input always yields the same tree.
func (b *Builder) Build(ctx context.Context, entries []syllabus.Entry) (*Course, error) {
	c := &Course{}
	for _, entry := range entries {
		ch, err := b.buildChapter(ctx, entry)
		if err != nil {
			return nil, err
		}
		c.Chapters = append(c.Chapters, ch)
	}
	b.warnDuplicateIDs(c)
	return c, nil
}

// warnDuplicateIDs reports url_names used more than once. Only components
// that declare their own url_name can collide.
func (b *Builder) warnDuplicateIDs(c *Course) {
	seen := make(map[string]bool)
	c.Walk(func(n Node) {
		id := n.ID()
		if seen[id] {
			b.log.Warn("duplicate url_name, edX keeps only one of the blocks", "url_name", id)
		}
		seen[id] = true
	})
}

func (b *Builder) buildChapter(ctx context.Context, entry syllabus.Entry) (*Chapter, error) {
	ch := &Chapter{
		URLName:     fmt.Sprintf("sec_%02d", entry.Index),
		DisplayName: entry.Name,
	}
	if entry.ReleaseDate != nil {
		start := dateutil.StartTime(*entry.ReleaseDate, b.startHour, b.dayOffset)
		ch.Start = &start
	}

	intro := entry.Index == IntroChapterIndex
	for j, sub := range entry.Subsections {
		seq := &Sequential{
			URLName:     fmt.Sprintf("subsec_%02d_%02d", entry.Index, j),
			DisplayName: sub.Title,
			Start:       ch.Start,
			Graded:      !intro,
			Source:      sub.Path,
		}
		switch {
		case sub.Title == AssignmentsName:
			seq.Format = FormatResearch
		case !intro:
			seq.Format = FormatSelfCheck
		}

		if err := b.fillSequential(ctx, seq); err != nil {
			return nil, err
		}
		ch.Sequentials = append(ch.Sequentials, seq)
	}
	return ch, nil
}

func (b *Builder) fillSequential(ctx context.Context, seq *Sequential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nb, err := b.reader.ReadNotebook(seq.Source)
	if err != nil {
		return fmt.Errorf("%s: %w", seq.URLName, err)
	}

	units := pipeline.SplitUnits(nb, false)
	b.log.Debug("split notebook", "sequential", seq.URLName, "source", seq.Source, "units", len(units))

	for k, unit := range units {
		if err := ctx.Err(); err != nil {
			return err
		}

		v := &Vertical{
			URLName:     fmt.Sprintf("%s_%02d", seq.URLName, k),
			DisplayName: unit.Name,
		}

		artifacts, err := b.converter.ConvertUnit(ctx, unit)
		if err != nil {
			return fmt.Errorf("%s (%s): %w", v.URLName, seq.Source, err)
		}

		for m, art := range artifacts {
			id := fmt.Sprintf("%s_out_%02d", v.URLName, m)
			v.Leaves = append(v.Leaves, newLeaf(id, unit.Name, art))
		}
		seq.Verticals = append(seq.Verticals, v)
	}
	return nil
}

func newLeaf(id, unitName string, art pipeline.Artifact) *Leaf {
	if !art.IsComponent() {
		return &Leaf{URLName: id, DisplayName: unitName, HTML: art.HTML}
	}

	el := art.Component
	if _, ok := olx.AttrValue(el, "url_name"); !ok {
		el.CreateAttr("url_name", id)
	}
	urlName, _ := olx.AttrValue(el, "url_name")
	name, ok := olx.AttrValue(el, "display_name")
	if !ok {
		name = unitName
	}
	return &Leaf{URLName: urlName, DisplayName: name, Component: el}
}
