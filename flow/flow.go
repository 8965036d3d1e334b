// Package flow is the document flow engine: an ordered story of
// self-measuring blocks laid into the frames of named page templates, with
// explicit and conditional page-break instructions.
//
// The engine is pure placement logic over canvas.Canvas. Blocks report the
// height they need before they are placed, so a break decision never depends
// on drawing side effects.
package flow

import (
	"fmt"

	"github.com/MackKirk/proposalpdf/canvas"
)

// Block is a flowable: it reports the vertical space it needs at a given
// width and renders itself into exactly that space.
type Block interface {
	Height(c canvas.Canvas, width float64) float64
	Draw(c canvas.Canvas, x, y, width float64)
}

// Frame is the rectangular region of a page that receives flowing content.
type Frame struct {
	X, Y, W, H float64
}

func (f Frame) bottom() float64 { return f.Y + f.H }

// Template names a page layout: its content frame and a callback that draws
// the page background before any content.
type Template struct {
	Name   string
	Frame  Frame
	OnPage func(c canvas.Canvas, pageNo int)
}

type blockItem struct{ b Block }
type condBreakItem struct{ h float64 }
type keepItem struct{ blocks []Block }
type switchItem struct{ name string }
type pageBreakItem struct{}

// Document accumulates templates and a story, then renders in one pass.
type Document struct {
	templates map[string]Template
	story     []any
}

// NewDocument creates an empty flow document.
func NewDocument() *Document {
	return &Document{templates: make(map[string]Template)}
}

// AddTemplate registers a page template under its name.
func (d *Document) AddTemplate(t Template) {
	d.templates[t.Name] = t
}

// Add appends blocks to the story.
func (d *Document) Add(bs ...Block) {
	for _, b := range bs {
		d.story = append(d.story, blockItem{b})
	}
}

// CondBreak inserts a conditional page break: a new page starts only if less
// than h remains in the current frame.
func (d *Document) CondBreak(h float64) {
	d.story = append(d.story, condBreakItem{h})
}

// KeepTogether appends a group of blocks that must not be split across a
// page boundary. If the group does not fit in the remaining space but fits
// on a full page, the whole group moves to the next page.
func (d *Document) KeepTogether(bs ...Block) {
	d.story = append(d.story, keepItem{bs})
}

// SwitchTemplate selects the template used for pages started after this
// point in the story.
func (d *Document) SwitchTemplate(name string) {
	d.story = append(d.story, switchItem{name})
}

// PageBreak forces a new page.
func (d *Document) PageBreak() {
	d.story = append(d.story, pageBreakItem{})
}

type renderState struct {
	c   canvas.Canvas
	d   *Document
	cur Template
	y   float64
}

// Render lays the story onto the canvas starting with the named template.
func (d *Document) Render(c canvas.Canvas, start string) error {
	tpl, ok := d.templates[start]
	if !ok {
		return fmt.Errorf("flow: unknown template %q", start)
	}
	st := &renderState{c: c, d: d, cur: tpl}
	st.newPage()

	for _, it := range d.story {
		switch v := it.(type) {
		case switchItem:
			next, ok := d.templates[v.name]
			if !ok {
				return fmt.Errorf("flow: unknown template %q", v.name)
			}
			st.cur = next
		case pageBreakItem:
			st.newPage()
		case condBreakItem:
			if st.y+v.h > st.cur.Frame.bottom() {
				st.newPage()
			}
		case blockItem:
			st.place(v.b)
		case keepItem:
			st.placeGroup(v.blocks)
		}
	}
	return nil
}

// newPage starts a page under the current template and resets the cursor.
func (s *renderState) newPage() {
	s.c.AddPage()
	if s.cur.OnPage != nil {
		s.cur.OnPage(s.c, s.c.PageNo())
	}
	s.y = s.cur.Frame.Y
}

// place draws one block, breaking first when it does not fit. A block taller
// than a full frame is drawn anyway and allowed to overflow.
func (s *renderState) place(b Block) {
	f := s.cur.Frame
	h := b.Height(s.c, f.W)
	if s.y+h > f.bottom() && h <= f.H && s.y > f.Y {
		s.newPage()
	}
	b.Draw(s.c, f.X, s.y, f.W)
	s.y += h
}

// placeGroup breaks ahead of the whole group when needed, then places the
// members sequentially.
func (s *renderState) placeGroup(bs []Block) {
	f := s.cur.Frame
	total := 0.0
	for _, b := range bs {
		total += b.Height(s.c, f.W)
	}
	if s.y+total > f.bottom() && total <= f.H && s.y > f.Y {
		s.newPage()
	}
	for _, b := range bs {
		h := b.Height(s.c, f.W)
		b.Draw(s.c, f.X, s.y, f.W)
		s.y += h
	}
}
