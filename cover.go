package proposalpdf

import (
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/rickar/cal/v2"

	"github.com/MackKirk/proposalpdf/assetcache"
	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/textfit"
)

// Letter page geometry shared by the fixed and flowing composers.
const (
	pageW = 612.0
	pageH = 792.0

	marginX  = 40.0
	contentW = pageW - 2*marginX
)

// Cover layout constants.
const (
	logoMaxDim   = 300
	heroY        = 140.0
	heroH        = 300.0
	overlayY     = 470.0
	overlayH     = 130.0
	coverLineY   = 508.0
	coverLine2Y  = 532.0
	titleY       = 620.0
	orderY       = 662.0
	barcodeW     = 180.0
	barcodeH     = 36.0
	barcodeY     = pageH - 72
)

// composeFront renders the fixed front matter (cover page, and for
// proposals the info page) and returns the path of the transient PDF.
func (r *request) composeFront() (string, error) {
	cv := r.newCanvas()

	r.drawCover(cv)
	if !r.doc.IsQuote {
		r.drawInfoPage(cv)
	}

	path := r.tempPath("front")
	if err := cv.PDF().OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

// background stretches the cached, flattened template art across the page.
// A missing or unreadable template is skipped, never fatal.
func (r *request) background(cv canvas.Canvas, kind string) {
	style := r.doc.Style.normalized()
	src := filepath.Join(r.g.assetDir, "templates", fmt.Sprintf("%s_%s.png", kind, style))
	cached, err := r.g.cache.Background(src)
	if err != nil {
		r.g.log.Warn("background template unavailable", "kind", kind, "style", string(style), "err", err)
		return
	}
	cv.Image(canvas.ImageRef{Path: cached}, 0, 0, pageW, pageH)
}

func (r *request) drawCover(cv canvas.Canvas) {
	doc := r.doc
	cv.AddPage()
	r.background(cv, "cover")

	// Hero image, converted to grayscale so it sits behind the overlay art.
	if !doc.CoverImage.Empty() {
		hero := r.resolveImage(doc.CoverImage, "cover")
		if len(hero.Data) > 0 {
			if gray, ok := assetcache.Grayscale(hero.Data); ok {
				hero.Data = gray
				hero.Format = "jpg"
				hero.Name += "-gray"
				cv.Image(hero, (pageW-460)/2, heroY, 460, heroH)
			} else {
				r.g.log.Warn("hero image not decodable, skipping", "path", doc.CoverImage.Path)
			}
		}
	}

	// Company logo, bounded through the cache to keep the file size down.
	if doc.LogoPath != "" {
		if logo, err := r.g.cache.Bounded(doc.LogoPath, logoMaxDim); err == nil {
			cv.Image(canvas.ImageRef{Path: logo}, marginX, 36, 120, 0)
		} else {
			r.g.log.Warn("logo unavailable", "path", doc.LogoPath, "err", err)
		}
	}

	// Semi-transparent band carrying the identity lines.
	cv.SetAlpha(0.75)
	cv.SetFillColor(255, 255, 255)
	cv.Rect(0, overlayY, pageW, overlayH, "F")
	cv.SetAlpha(1)

	cv.SetTextColor(30, 30, 30)
	r.centeredFit(cv, doc.CompanyName, "B", 22, 12, contentW, coverLineY)
	second := doc.CompanyAddress
	if doc.IsQuote {
		second = doc.Contact.String()
	}
	r.centeredFit(cv, second, "", 13, 9, contentW, coverLine2Y)

	// Main title, shrunk to fit and truncated only as a last resort.
	title, size := textfit.Fit(cv, doc.Title, r.font("B", 34), 34, 18, contentW)
	f := r.font("B", size)
	cv.SetFont(f)
	cv.Text((pageW-cv.StringWidth(title, f))/2, titleY, title)

	// Order number, right-aligned, with a scannable Code 128 twin.
	if doc.OrderNumber != "" {
		of := r.font("", 12)
		cv.SetFont(of)
		label := "Order # " + doc.OrderNumber
		cv.Text(pageW-marginX-cv.StringWidth(label, of), orderY, label)
		r.drawOrderBarcode(cv, doc.OrderNumber)
	}

	if doc.IsQuote {
		vf := r.font("", 10)
		cv.SetFont(vf)
		line := "Valid until " + r.validUntil().Format("January 2, 2006")
		cv.Text(pageW-marginX-cv.StringWidth(line, vf), orderY+16, line)
	}
	cv.SetTextColor(0, 0, 0)
}

// centeredFit draws one auto-fit, horizontally centered line.
func (r *request) centeredFit(cv canvas.Canvas, text, style string, maxSize, minSize, maxWidth, baseline float64) {
	if text == "" {
		return
	}
	fitted, size := textfit.Fit(cv, text, r.font(style, maxSize), maxSize, minSize, maxWidth)
	f := r.font(style, size)
	cv.SetFont(f)
	cv.Text((pageW-cv.StringWidth(fitted, f))/2, baseline, fitted)
}

// drawOrderBarcode renders the order number as Code 128 in the lower right
// corner. Encoding failures just drop the barcode.
func (r *request) drawOrderBarcode(cv canvas.Canvas, orderNo string) {
	bc, err := code128.Encode(orderNo)
	if err != nil {
		r.g.log.Debug("order barcode encode failed", "order", orderNo, "err", err)
		return
	}
	scaled, err := barcode.Scale(bc, int(barcodeW*2), int(barcodeH*2))
	if err != nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return
	}
	cv.Image(canvas.ImageRef{
		Name:   "order-barcode",
		Data:   buf.Bytes(),
		Format: "png",
	}, pageW-marginX-barcodeW, barcodeY, barcodeW, barcodeH)
}

// validUntil is the quote expiry: validityDays business days from the issue
// date (today when unset).
func (r *request) validUntil() time.Time {
	issue := r.doc.IssueDate
	if issue.IsZero() {
		issue = time.Now()
	}
	c := cal.NewBusinessCalendar()
	return c.WorkdaysFrom(issue, r.g.validityDays)
}

// Info page layout constants.
const (
	infoTitleY   = 96.0
	infoRowsY    = 150.0
	infoRowH     = 14.0
	infoRowGap   = 10.0
	infoValueW   = 300.0
	infoImageW   = 320.0
	infoImageH   = 240.0
)

// drawInfoPage renders the proposal info page: auto-fit header, label/value
// rows with justified wrapped values, and an optional secondary image.
func (r *request) drawInfoPage(cv canvas.Canvas) {
	doc := r.doc
	cv.AddPage()
	r.background(cv, "info")

	header, size := textfit.Fit(cv, doc.Title, r.font("B", 18), 18, 12, 360)
	hf := r.font("B", size)
	cv.SetFont(hf)
	cv.Text(marginX, infoTitleY, header)

	lf := r.font("B", 10)
	vf := r.font("", 10)
	y := infoRowsY
	for _, row := range doc.GeneralDetails {
		cv.SetFont(lf)
		cv.Text(marginX, y, row.Label)
		if row.Value != "" {
			lines := textfit.WrapJustified(cv, row.Value, vf, pageW-marginX, infoValueW)
			y = textfit.DrawLines(cv, lines, vf, y, infoRowH)
		} else {
			y += infoRowH
		}
		y += infoRowGap
	}

	if !doc.SecondaryImage.Empty() {
		img := r.resolveImage(doc.SecondaryImage, "section")
		if !img.Zero() {
			cv.Image(img, (pageW-infoImageW)/2, y+12, infoImageW, infoImageH)
		}
	}
}
