package pageops

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// PageNumberStyle defines the appearance and position of page numbers.
type PageNumberStyle struct {
	Format   string   // fmt format string, e.g. "Page %d of %d" (receives pageNum, totalPages)
	Position Position // where to place the number (default: BottomCenter)
	FontSize float64  // font size in points (default: 10)
	Color    RGBColor // text color (default: black)
	Margin   float64  // margin from page edge in points (default: 30)
	SkipFirst bool    // leave the cover page unnumbered
}

// AddPageNumbers adds page numbers to all pages of a PDF.
func AddPageNumbers(w io.Writer, inputPath string, style PageNumberStyle) error {
	pdf, err := buildPageNumberedPDF(inputPath, style)
	if err != nil {
		return err
	}
	return writePDF(pdf, w)
}

// AddPageNumbersToFile adds page numbers and saves to a file.
func AddPageNumbersToFile(inputPath, outputPath string, style PageNumberStyle) error {
	pdf, err := buildPageNumberedPDF(inputPath, style)
	if err != nil {
		return err
	}
	return writePDFToFile(pdf, outputPath)
}

func buildPageNumberedPDF(inputPath string, style PageNumberStyle) (pdf *fpdf.Fpdf, err error) {
	// Defaults
	if style.Format == "" {
		style.Format = "Page %d of %d"
	}
	if style.FontSize == 0 {
		style.FontSize = 10
	}
	if style.Margin == 0 {
		style.Margin = 30
	}

	pageCount, err := getPageCount(inputPath)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, fmt.Errorf("pageops: page numbers: %v", r)
		}
	}()

	out := newImportTarget()
	imp := gofpdi.NewImporter()

	for i := 1; i <= pageCount; i++ {
		tplID, pw, ph := importPage(out, imp, inputPath, i)
		if pw == 0 || ph == 0 {
			pw = letterW
			ph = letterH
		}

		out.AddPageFormat("P", fpdf.SizeType{Wd: pw, Ht: ph})
		imp.UseImportedTemplate(out, tplID, 0, 0, pw, ph)

		if i == 1 && style.SkipFirst {
			continue
		}
		text := fmt.Sprintf(style.Format, i, pageCount)
		out.SetFont("Helvetica", "", style.FontSize)
		out.SetTextColor(style.Color.R, style.Color.G, style.Color.B)

		textW := out.GetStringWidth(text)
		x, y := calculatePosition(style.Position, pw, ph, textW, style.FontSize, style.Margin)
		out.Text(x, y, text)
	}

	if out.Err() {
		return nil, fmt.Errorf("pageops: page numbers: %w", out.Error())
	}
	return out, nil
}

// calculatePosition returns x, y coordinates for text placement.
func calculatePosition(pos Position, pageW, pageH, textW, textH, margin float64) (x, y float64) {
	switch pos {
	case TopLeft:
		return margin, margin + textH
	case TopCenter:
		return (pageW - textW) / 2, margin + textH
	case TopRight:
		return pageW - textW - margin, margin + textH
	case BottomLeft:
		return margin, pageH - margin
	case BottomRight:
		return pageW - textW - margin, pageH - margin
	case Center:
		return (pageW - textW) / 2, pageH / 2
	default: // BottomCenter
		return (pageW - textW) / 2, pageH - margin
	}
}
