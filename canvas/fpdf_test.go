package canvas_test

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/MackKirk/proposalpdf/canvas"
)

func newTestCanvas() *canvas.FpdfCanvas {
	return canvas.NewFpdf(fpdf.New("P", "pt", "Letter", ""))
}

func TestPageSizeAndNumbering(t *testing.T) {
	c := newTestCanvas()
	w, h := c.PageSize()
	if w != 612 || h != 792 {
		t.Errorf("page size %.0fx%.0f, want 612x792", w, h)
	}

	if c.PageNo() != 0 {
		t.Errorf("fresh document PageNo = %d, want 0", c.PageNo())
	}
	c.AddPage()
	c.AddPage()
	if c.PageNo() != 2 {
		t.Errorf("PageNo = %d, want 2", c.PageNo())
	}
}

func TestStringWidthPreservesSelection(t *testing.T) {
	c := newTestCanvas()
	c.AddPage()

	body := canvas.Font{Family: "Helvetica", Size: 10}
	bold := canvas.Font{Family: "Helvetica", Style: "B", Size: 24}
	c.SetFont(body)
	before := c.TextWidth("measure me")

	if w := c.StringWidth("measure me", bold); w <= before {
		t.Errorf("24pt bold width %.1f not larger than 10pt width %.1f", w, before)
	}
	// The probe must not disturb the current selection.
	if after := c.TextWidth("measure me"); after != before {
		t.Errorf("TextWidth changed after probe: %.2f != %.2f", after, before)
	}
}

func TestStringWidthScalesWithSize(t *testing.T) {
	c := newTestCanvas()
	f10 := canvas.Font{Family: "Helvetica", Size: 10}
	f20 := canvas.Font{Family: "Helvetica", Size: 20}
	w10 := c.StringWidth("proposal", f10)
	w20 := c.StringWidth("proposal", f20)
	if w10 <= 0 {
		t.Fatalf("zero width at size 10")
	}
	ratio := w20 / w10
	if ratio < 1.99 || ratio > 2.01 {
		t.Errorf("width ratio %.3f, want 2", ratio)
	}
}

func TestImageSkipsBadReferences(t *testing.T) {
	c := newTestCanvas()
	c.AddPage()

	c.Image(canvas.ImageRef{}, 0, 0, 100, 100)
	c.Image(canvas.ImageRef{Path: "/no/such/image.jpg"}, 0, 0, 100, 100)

	c.SetFont(canvas.Font{Family: "Helvetica", Size: 12})
	c.Text(72, 72, "still alive")

	var buf bytes.Buffer
	if err := c.PDF().Output(&buf); err != nil {
		t.Fatalf("bad image reference poisoned the document: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output lacks PDF header")
	}
}

func TestImageRefZero(t *testing.T) {
	if !(canvas.ImageRef{}).Zero() {
		t.Error("empty ref should be zero")
	}
	if (canvas.ImageRef{Path: "a.jpg"}).Zero() {
		t.Error("path ref should not be zero")
	}
	if (canvas.ImageRef{Data: []byte{1}}).Zero() {
		t.Error("data ref should not be zero")
	}
}
