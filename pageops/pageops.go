// Package pageops post-processes generated documents: merging the fixed
// front-matter and flowing body into one PDF, stamping draft watermarks, and
// numbering pages.
//
// Pages are re-imported as form XObjects through gofpdi, so the operations
// work on any PDF this engine produces.
package pageops

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	realgofpdi "github.com/phpdave11/gofpdi"
)

// Letter page dimensions in points, the fallback when an imported page
// carries no usable MediaBox.
const (
	letterW = 612.0
	letterH = 792.0
)

// Position specifies where to place an element on a page.
type Position int

const (
	Center Position = iota
	TopLeft
	TopCenter
	TopRight
	BottomLeft
	BottomCenter
	BottomRight
)

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

// importPage imports a single page from a source file into the target PDF.
// Returns the template ID and page dimensions.
func importPage(pdf *fpdf.Fpdf, imp *gofpdi.Importer, sourceFile string, pageNum int) (tplID int, w, h float64) {
	tplID = imp.ImportPage(pdf, sourceFile, pageNum, "/MediaBox")
	sizes := imp.GetPageSizes()
	if dims, ok := sizes[pageNum]; ok {
		if mb, ok := dims["/MediaBox"]; ok {
			w = mb["w"]
			h = mb["h"]
		}
	}
	return
}

// getPageCount returns the number of pages in a PDF file. The gofpdi parser
// panics on malformed input, which is translated into an error here.
func getPageCount(filename string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pageops: reading %s: %v", filename, r)
		}
	}()
	if _, statErr := os.Stat(filename); statErr != nil {
		return 0, fmt.Errorf("pageops: reading %s: %w", filename, statErr)
	}
	imp := realgofpdi.NewImporter()
	imp.SetSourceFile(filename)
	return imp.GetNumPages(), nil
}

// writePDF writes the PDF to a writer.
func writePDF(pdf *fpdf.Fpdf, w io.Writer) error {
	return pdf.Output(w)
}

// writePDFToFile writes the PDF to a file.
func writePDFToFile(pdf *fpdf.Fpdf, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("pageops: creating %s: %w", filename, err)
	}
	defer f.Close()
	return pdf.Output(f)
}

func newImportTarget() *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}
