package blocks

import (
	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/textfit"
)

// Canonical render size for section gallery images.
const (
	GalleryImageW = 252.0
	GalleryImageH = 189.0
)

const (
	captionLimit = 90 // runes kept from a caption before truncation
	captionH     = 14.0
	captionSize  = 9.0
)

// ImageCell is one gallery image with an optional caption.
type ImageCell struct {
	Image   canvas.ImageRef
	Caption string
}

// ImageRow lays out one or two gallery images side by side. A row holding a
// single image is centered in a three-column arrangement (empty, image,
// empty) rather than spanning both columns.
type ImageRow struct {
	Left        ImageCell
	Right       *ImageCell
	CaptionFont canvas.Font
}

func (r *ImageRow) captionFont() canvas.Font { return fallback(r.CaptionFont, "I", captionSize) }

func (r *ImageRow) hasCaption() bool {
	if r.Left.Caption != "" {
		return true
	}
	return r.Right != nil && r.Right.Caption != ""
}

func (r *ImageRow) Height(c canvas.Canvas, width float64) float64 {
	h := GalleryImageH
	if r.hasCaption() {
		h += captionH
	}
	return h
}

func (r *ImageRow) Draw(c canvas.Canvas, x, y, width float64) {
	if r.Right == nil {
		r.drawCell(c, r.Left, x+(width-GalleryImageW)/2, y)
		return
	}
	r.drawCell(c, r.Left, x, y)
	r.drawCell(c, *r.Right, x+width-GalleryImageW, y)
}

func (r *ImageRow) drawCell(c canvas.Canvas, cell ImageCell, x, y float64) {
	c.Image(cell.Image, x, y, GalleryImageW, GalleryImageH)
	if cell.Caption == "" {
		return
	}
	f := r.captionFont()
	caption := truncateCaption(cell.Caption)
	// Ellipsize against the image width at the fixed caption size.
	caption, _ = textfit.Fit(c, caption, f, f.Size, f.Size, GalleryImageW)
	c.SetFont(f)
	c.Text(x+(GalleryImageW-c.StringWidth(caption, f))/2, y+GalleryImageH+captionH-4, caption)
}

func truncateCaption(s string) string {
	runes := []rune(s)
	if len(runes) <= captionLimit {
		return s
	}
	return string(runes[:captionLimit])
}
