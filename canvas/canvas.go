// Package canvas defines the absolute-position drawing capability the
// composition engine renders through, together with an implementation backed
// by go-pdf/fpdf.
//
// Everything above this package (flowables, the flow engine, the fixed page
// composer) draws only through the Canvas interface, so the PDF writer is an
// implementation detail of one file.
package canvas

// Font identifies a font face and size. Family and Style follow the fpdf
// convention: Style is "" for regular, "B" for bold.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// ImageRef identifies a raster image to draw. Exactly one of Path or Data is
// set. When Data is used, Name must be a stable identifier unique within the
// document and Format the image format ("jpg", "png").
type ImageRef struct {
	Path   string
	Name   string
	Data   []byte
	Format string
}

// Zero reports whether the reference points at nothing.
func (r ImageRef) Zero() bool {
	return r.Path == "" && len(r.Data) == 0
}

// Canvas is the drawing surface contract. All coordinates and lengths are in
// points with the origin at the top-left corner of the page.
type Canvas interface {
	// AddPage starts a new blank page and makes it current.
	AddPage()
	// PageNo returns the 1-based number of the current page.
	PageNo() int
	// PageSize returns the page width and height.
	PageSize() (w, h float64)

	// SetFont selects the font for subsequent Text calls.
	SetFont(f Font)
	// TextWidth measures s in the currently selected font.
	TextWidth(s string) float64
	// StringWidth measures s in an arbitrary font without disturbing the
	// current selection for callers that rely on it.
	StringWidth(s string, f Font) float64
	// Text draws s with its baseline at (x, y) in the current font.
	Text(x, y float64, s string)

	// Image draws the referenced image into the given rectangle. Bad or
	// missing references are skipped, never fatal.
	Image(img ImageRef, x, y, w, h float64)

	Line(x1, y1, x2, y2 float64)
	// Rect draws a rectangle; style is "D" (outline), "F" (fill) or "FD".
	Rect(x, y, w, h float64, style string)

	SetTextColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetLineWidth(w float64)
	// SetAlpha sets the constant alpha for subsequent drawing, 0..1.
	SetAlpha(a float64)
}
