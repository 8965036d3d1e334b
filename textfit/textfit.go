// Package textfit provides measurement-driven text layout: greedy word
// wrapping, full justification with a flush-right final line, and
// shrink-to-fit title sizing with ellipsis truncation.
//
// All routines are pure logic over a Measurer, so they are exercised in tests
// with a fixed-width fake and at render time by the PDF canvas.
package textfit

import (
	"strings"

	"github.com/MackKirk/proposalpdf/canvas"
)

// Measurer reports the rendered width of a string in a given font.
// *canvas.FpdfCanvas satisfies it.
type Measurer interface {
	StringWidth(s string, f canvas.Font) float64
}

// Wrap splits text into lines whose measured width stays within maxWidth,
// appending words greedily. A single word wider than maxWidth is emitted
// alone on its own line, untruncated. Empty input yields one empty line.
func Wrap(m Measurer, text string, f canvas.Font, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		candidate := cur + " " + w
		if m.StringWidth(candidate, f) <= maxWidth {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

// A Line is one row of justified output. When Justified is set the words are
// drawn individually with Gap points of advance between them; otherwise the
// line is drawn as a single string starting at X.
type Line struct {
	Words     []string
	X         float64 // left edge of the first word
	Gap       float64 // inter-word advance when Justified
	Justified bool
}

// Text joins the line's words with single spaces.
func (l Line) Text() string {
	return strings.Join(l.Words, " ")
}

// WrapJustified wraps text against maxWidth and lays the lines out against a
// right anchor: every line but the last spans exactly maxWidth, the leftover
// width spread evenly between its words; the final line, or any line holding
// a single word, is right-aligned against anchorX without justification.
func WrapJustified(m Measurer, text string, f canvas.Font, anchorX, maxWidth float64) []Line {
	raw := Wrap(m, text, f, maxWidth)

	lines := make([]Line, 0, len(raw))
	for i, s := range raw {
		words := strings.Fields(s)
		if len(words) == 0 {
			words = []string{""}
		}
		last := i == len(raw)-1
		if last || len(words) == 1 {
			lines = append(lines, Line{
				Words: words,
				X:     anchorX - m.StringWidth(strings.Join(words, " "), f),
			})
			continue
		}
		sum := 0.0
		for _, w := range words {
			sum += m.StringWidth(w, f)
		}
		lines = append(lines, Line{
			Words:     words,
			X:         anchorX - maxWidth,
			Gap:       (maxWidth - sum) / float64(len(words)-1),
			Justified: true,
		})
	}
	return lines
}

// DrawLines renders justified lines onto a canvas starting at baseline y and
// advancing by leading per line. It returns the baseline following the last
// line drawn.
func DrawLines(c canvas.Canvas, lines []Line, f canvas.Font, y, leading float64) float64 {
	c.SetFont(f)
	for _, l := range lines {
		if !l.Justified {
			c.Text(l.X, y, l.Text())
			y += leading
			continue
		}
		x := l.X
		for _, w := range l.Words {
			c.Text(x, y, w)
			x += c.StringWidth(w, f) + l.Gap
		}
		y += leading
	}
	return y
}

// FitStep is the size decrement used by Fit.
const FitStep = 0.8

// Ellipsis is appended to truncated titles.
const Ellipsis = "…"

// Fit shrinks the font size from maxSize in FitStep decrements until text
// fits within maxWidth, stopping at minSize. If the text still overflows at
// minSize, the longest prefix that fits with a trailing ellipsis is found by
// binary search and returned in place of the original text.
func Fit(m Measurer, text string, f canvas.Font, maxSize, minSize, maxWidth float64) (string, float64) {
	size := maxSize
	for size > minSize {
		f.Size = size
		if m.StringWidth(text, f) <= maxWidth {
			return text, size
		}
		size -= FitStep
	}
	if size < minSize {
		size = minSize
	}
	f.Size = size
	if m.StringWidth(text, f) <= maxWidth {
		return text, size
	}

	runes := []rune(text)
	lo, hi := 0, len(runes) // longest fitting prefix length in [lo, hi)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.StringWidth(string(runes[:mid])+Ellipsis, f) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + Ellipsis, size
}
