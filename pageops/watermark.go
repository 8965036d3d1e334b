package pageops

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// TextWatermark defines a text-based watermark, used by the generator to
// stamp draft proposals.
type TextWatermark struct {
	Text     string   // watermark text
	FontSize float64  // font size in points (default: 60)
	Color    RGBColor // text color (default: light gray)
	Opacity  float64  // 0.0 to 1.0 (default: 0.3)
	Angle    float64  // rotation angle in degrees (default: 45)
}

// AddTextWatermark adds a text watermark to all pages of a PDF.
func AddTextWatermark(w io.Writer, inputPath string, wm TextWatermark) error {
	pdf, err := buildWatermarkedPDF(inputPath, wm)
	if err != nil {
		return err
	}
	return writePDF(pdf, w)
}

// AddTextWatermarkToFile adds a text watermark and saves to a file.
func AddTextWatermarkToFile(inputPath, outputPath string, wm TextWatermark) error {
	pdf, err := buildWatermarkedPDF(inputPath, wm)
	if err != nil {
		return err
	}
	return writePDFToFile(pdf, outputPath)
}

func buildWatermarkedPDF(inputPath string, wm TextWatermark) (pdf *fpdf.Fpdf, err error) {
	// Set defaults
	if wm.FontSize == 0 {
		wm.FontSize = 60
	}
	if wm.Opacity == 0 {
		wm.Opacity = 0.3
	}
	if wm.Angle == 0 {
		wm.Angle = 45
	}
	if wm.Color == (RGBColor{}) {
		wm.Color = RGBColor{200, 200, 200}
	}

	pageCount, err := getPageCount(inputPath)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, fmt.Errorf("pageops: watermark: %v", r)
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
		drawTextWatermark(out, wm, pw, ph)
	}

	if out.Err() {
		return nil, fmt.Errorf("pageops: watermark: %w", out.Error())
	}
	return out, nil
}

// drawTextWatermark renders the watermark text centered on the current page.
func drawTextWatermark(pdf *fpdf.Fpdf, wm TextWatermark, pageW, pageH float64) {
	pdf.SetFont("Helvetica", "B", wm.FontSize)
	pdf.SetTextColor(wm.Color.R, wm.Color.G, wm.Color.B)
	pdf.SetAlpha(wm.Opacity, "Normal")

	textW := pdf.GetStringWidth(wm.Text)
	cx := pageW / 2
	cy := pageH / 2

	pdf.TransformBegin()
	pdf.TransformRotate(wm.Angle, cx, cy)

	x := cx - textW/2
	y := cy + wm.FontSize/3 // approximate vertical centering

	pdf.Text(x, y, wm.Text)
	pdf.TransformEnd()

	pdf.SetAlpha(1.0, "Normal")
}
