package pageops

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// MergeFiles combines multiple PDF files into a single output file.
// Pages are added in order: all pages from the first file, then all from the
// second, etc.
func MergeFiles(outputPath string, inputPaths ...string) error {
	pdf, err := buildMergedPDF(inputPaths)
	if err != nil {
		return err
	}
	return writePDFToFile(pdf, outputPath)
}

// Merge combines multiple PDF files and writes the result to w.
func Merge(w io.Writer, inputPaths ...string) error {
	pdf, err := buildMergedPDF(inputPaths)
	if err != nil {
		return err
	}
	return writePDF(pdf, w)
}

func buildMergedPDF(inputPaths []string) (pdf *fpdf.Fpdf, err error) {
	if len(inputPaths) == 0 {
		return nil, fmt.Errorf("pageops: no input files provided")
	}

	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, fmt.Errorf("pageops: merge: %v", r)
		}
	}()

	out := newImportTarget()
	for _, inputPath := range inputPaths {
		if err := appendFile(out, inputPath); err != nil {
			return nil, fmt.Errorf("pageops: merging %s: %w", inputPath, err)
		}
	}
	return out, nil
}

// appendFile imports all pages from a PDF file into the target PDF.
func appendFile(pdf *fpdf.Fpdf, inputPath string) error {
	pageCount, err := getPageCount(inputPath)
	if err != nil {
		return err
	}

	imp := gofpdi.NewImporter()

	for i := 1; i <= pageCount; i++ {
		tplID, w, h := importPage(pdf, imp, inputPath, i)
		if w == 0 || h == 0 {
			w = letterW
			h = letterH
		}

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(pdf, tplID, 0, 0, w, h)
	}

	return pdf.Error()
}
