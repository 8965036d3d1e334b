// Package blocks implements the renderable units of a proposal document.
//
// Every block computes its vertical extent and draws itself from one shared
// derived layout, so the height reported before placement and the space
// consumed at draw time agree by construction. Blocks draw through
// canvas.Canvas at an absolute (x, y) with a given width; they never paginate
// themselves, that is the flow engine's job.
package blocks

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/textfit"
)

var money = message.NewPrinter(language.English)

// Money formats a dollar amount with thousands grouping.
func Money(v float64) string {
	return money.Sprintf("$%.2f", v)
}

func fallback(f canvas.Font, style string, size float64) canvas.Font {
	if f.Family == "" {
		f.Family = "Helvetica"
	}
	if f.Size == 0 {
		f.Size = size
	}
	if f.Style == "" {
		f.Style = style
	}
	return f
}

// Title is a single-line section heading.
type Title struct {
	Text string
	Font canvas.Font
}

func (t *Title) font() canvas.Font { return fallback(t.Font, "B", 13) }

func (t *Title) Height(c canvas.Canvas, width float64) float64 {
	return t.font().Size * 1.4
}

func (t *Title) Draw(c canvas.Canvas, x, y, width float64) {
	f := t.font()
	c.SetFont(f)
	c.Text(x, y+f.Size, t.Text)
}

// Paragraph is a wrapped run of body text with an optional indentation
// level. One leading tab, or group of four spaces, equals one level.
type Paragraph struct {
	Text    string
	Font    canvas.Font
	Indent  int
	Leading float64
}

// indentStep is the horizontal offset per indentation level.
const indentStep = 18.0

func (p *Paragraph) font() canvas.Font { return fallback(p.Font, "", 10) }

func (p *Paragraph) leading() float64 {
	if p.Leading > 0 {
		return p.Leading
	}
	return p.font().Size * 1.35
}

func (p *Paragraph) pad() float64 { return float64(p.Indent) * indentStep }

func (p *Paragraph) lines(c canvas.Canvas, width float64) []string {
	return textfit.Wrap(c, p.Text, p.font(), width-p.pad())
}

func (p *Paragraph) Height(c canvas.Canvas, width float64) float64 {
	return float64(len(p.lines(c, width))) * p.leading()
}

func (p *Paragraph) Draw(c canvas.Canvas, x, y, width float64) {
	f := p.font()
	c.SetFont(f)
	base := y + f.Size
	for _, line := range p.lines(c, width) {
		c.Text(x+p.pad(), base, line)
		base += p.leading()
	}
}

// Spacer consumes fixed vertical space.
type Spacer struct {
	H float64
}

func (s *Spacer) Height(c canvas.Canvas, width float64) float64 { return s.H }
func (s *Spacer) Draw(c canvas.Canvas, x, y, width float64)     {}

// Divider is the decorative rule separating major document parts.
type Divider struct{}

func (d *Divider) Height(c canvas.Canvas, width float64) float64 { return 12 }

func (d *Divider) Draw(c canvas.Canvas, x, y, width float64) {
	c.SetDrawColor(170, 170, 170)
	c.SetLineWidth(0.6)
	c.Line(x, y+6, x+width, y+6)
	c.SetDrawColor(0, 0, 0)
	c.SetLineWidth(0.2)
}
