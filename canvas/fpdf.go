package canvas

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// FpdfCanvas adapts a *fpdf.Fpdf document to the Canvas interface. The
// document must be constructed with the "pt" unit so lengths pass through
// unscaled.
type FpdfCanvas struct {
	pdf     *fpdf.Fpdf
	cur     Font
	imgSeen map[string]bool
}

// NewFpdf wraps an fpdf document. Auto page breaks are disabled: pagination
// decisions belong to the flow engine, not the writer.
func NewFpdf(pdf *fpdf.Fpdf) *FpdfCanvas {
	pdf.SetAutoPageBreak(false, 0)
	return &FpdfCanvas{pdf: pdf, imgSeen: make(map[string]bool)}
}

// PDF exposes the underlying document for output.
func (c *FpdfCanvas) PDF() *fpdf.Fpdf { return c.pdf }

func (c *FpdfCanvas) AddPage()    { c.pdf.AddPage() }
func (c *FpdfCanvas) PageNo() int { return c.pdf.PageNo() }

func (c *FpdfCanvas) PageSize() (w, h float64) {
	return c.pdf.GetPageSize()
}

func (c *FpdfCanvas) SetFont(f Font) {
	c.cur = f
	c.pdf.SetFont(f.Family, f.Style, f.Size)
}

func (c *FpdfCanvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(s)
}

func (c *FpdfCanvas) StringWidth(s string, f Font) float64 {
	if f == c.cur {
		return c.pdf.GetStringWidth(s)
	}
	prev := c.cur
	c.SetFont(f)
	w := c.pdf.GetStringWidth(s)
	if prev.Family != "" {
		c.SetFont(prev)
	}
	return w
}

func (c *FpdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, s)
}

func (c *FpdfCanvas) Image(img ImageRef, x, y, w, h float64) {
	if img.Zero() {
		return
	}
	if img.Path != "" {
		// A missing file would put the whole document into its sticky
		// error state, so probe first and skip instead.
		if _, err := os.Stat(img.Path); err != nil {
			return
		}
		opt := fpdf.ImageOptions{ImageType: imageTypeFromPath(img.Path)}
		c.pdf.ImageOptions(img.Path, x, y, w, h, false, opt, 0, "")
		return
	}
	opt := fpdf.ImageOptions{ImageType: img.Format}
	if !c.imgSeen[img.Name] {
		c.pdf.RegisterImageOptionsReader(img.Name, opt, bytes.NewReader(img.Data))
		c.imgSeen[img.Name] = true
	}
	c.pdf.ImageOptions(img.Name, x, y, w, h, false, opt, 0, "")
}

func (c *FpdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *FpdfCanvas) Rect(x, y, w, h float64, style string) {
	c.pdf.Rect(x, y, w, h, style)
}

func (c *FpdfCanvas) SetTextColor(r, g, b int) { c.pdf.SetTextColor(r, g, b) }
func (c *FpdfCanvas) SetDrawColor(r, g, b int) { c.pdf.SetDrawColor(r, g, b) }
func (c *FpdfCanvas) SetFillColor(r, g, b int) { c.pdf.SetFillColor(r, g, b) }
func (c *FpdfCanvas) SetLineWidth(w float64)   { c.pdf.SetLineWidth(w) }

func (c *FpdfCanvas) SetAlpha(a float64) {
	c.pdf.SetAlpha(a, "Normal")
}

func imageTypeFromPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	default:
		return "jpg"
	}
}
