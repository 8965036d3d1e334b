package blocks

import (
	"fmt"

	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/textfit"
)

// Geometry shared by the pricing and optional-services renderers.
const (
	priceLineH      = 16.0  // vertical advance per value line
	titleAllowance  = 20.0  // space reserved above a block title
	totalRuleGap    = 8.0   // gap between the rule and the TOTAL line
	totalExtra      = 36.0  // extra allowance when a TOTAL line is shown
	thumbSize       = 40.0  // product thumbnail edge length
	thumbGutter     = 10.0  // gap between thumbnail and label
	qtyTotalReserve = 150.0 // width reserved for quantity and line total
	itemGap         = 6.0   // vertical gap between cost items
)

// CostItem is one line of an itemized pricing table.
type CostItem struct {
	Label     string
	UnitPrice float64
	Quantity  float64
	PST       bool
	GST       bool
	ShowImage bool
	Image     canvas.ImageRef // zero with ShowImage set draws a placeholder
}

// EffectiveQuantity treats a missing quantity as a single unit.
func (i CostItem) EffectiveQuantity() float64 {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

// LineTotal is the item's extended price.
func (i CostItem) LineTotal() float64 {
	return i.UnitPrice * i.EffectiveQuantity()
}

// EstimatePricing is the simplified bid-price presentation: a Bid Price
// line, an optional flat GST line, and an optional TOTAL line preceded by a
// horizontal rule.
type EstimatePricing struct {
	BidPrice  float64
	GSTValue  float64
	Total     float64
	ShowGST   bool
	ShowTotal bool
	Title     string
	LabelFont canvas.Font
	TitleFont canvas.Font
}

func (e *EstimatePricing) labelFont() canvas.Font { return fallback(e.LabelFont, "", 11) }
func (e *EstimatePricing) titleFont() canvas.Font { return fallback(e.TitleFont, "B", 13) }

func (e *EstimatePricing) Height(c canvas.Canvas, width float64) float64 {
	shown := 1 // Bid Price
	if e.ShowGST {
		shown++
	}
	h := titleAllowance + float64(shown)*priceLineH
	if e.ShowTotal {
		h += priceLineH + totalExtra
	}
	return h
}

func (e *EstimatePricing) Draw(c canvas.Canvas, x, y, width float64) {
	f := e.labelFont()
	if e.Title != "" {
		tf := e.titleFont()
		c.SetFont(tf)
		c.Text(x, y+tf.Size, e.Title)
	}
	base := y + titleAllowance + f.Size

	drawValueLine(c, f, x, base, width, "Bid Price", Money(e.BidPrice))
	base += priceLineH
	if e.ShowGST {
		drawValueLine(c, f, x, base, width, "GST", Money(e.GSTValue))
		base += priceLineH
	}
	if e.ShowTotal {
		c.SetLineWidth(0.4)
		c.Line(x, base-f.Size+2, x+width, base-f.Size+2)
		c.SetLineWidth(0.2)
		base += totalRuleGap
		bold := f
		bold.Style = "B"
		drawValueLine(c, bold, x, base, width, "TOTAL", Money(e.Total))
	}
}

// drawValueLine draws a label on the left and a right-aligned value.
func drawValueLine(c canvas.Canvas, f canvas.Font, x, baseline, width float64, label, value string) {
	c.SetFont(f)
	c.Text(x, baseline, label)
	c.Text(x+width-c.StringWidth(value, f), baseline, value)
}

// taxLine is one derived summary row under an itemized table.
type taxLine struct {
	label string
	value float64
	total bool // TOTAL row, drawn bold under a rule
}

// itemLayout carries the derived quantities one cost item needs at both
// measure and draw time.
type itemLayout struct {
	lines     []string
	height    float64
	showImage bool
	qty       string
	total     float64
}

// itemizedLayout is the single source of truth consumed by both Height and
// Draw of ItemizedPricing.
type itemizedLayout struct {
	items  []itemLayout
	taxes  []taxLine
	titleH float64
	height float64
}

// ItemizedPricing renders a cost table: per-item wrapped labels, optional
// product thumbnails, optional quantities, right-aligned line totals, then
// conditional PST/GST lines and a ruled TOTAL.
type ItemizedPricing struct {
	Title string
	Items []CostItem

	PSTRate float64 // percent
	GSTRate float64 // percent

	ShowPST   bool
	ShowGST   bool
	ShowTotal bool

	// Precomputed section totals win over recomputation when supplied.
	PrecomputedPST   *float64
	PrecomputedGST   *float64
	PrecomputedTotal *float64

	LabelFont canvas.Font
	TitleFont canvas.Font
}

func (b *ItemizedPricing) labelFont() canvas.Font { return fallback(b.LabelFont, "", 10) }
func (b *ItemizedPricing) titleFont() canvas.Font { return fallback(b.TitleFont, "B", 13) }

func (b *ItemizedPricing) layout(m textfit.Measurer, width float64) itemizedLayout {
	f := b.labelFont()
	var lay itemizedLayout
	if b.Title != "" {
		lay.titleH = titleAllowance
	}
	lay.height = lay.titleH

	subtotal, pstBase, gstBase := 0.0, 0.0, 0.0
	for _, it := range b.Items {
		labelW := width - qtyTotalReserve
		if it.ShowImage {
			labelW -= thumbSize + thumbGutter
		}
		il := itemLayout{
			lines:     textfit.Wrap(m, it.Label, f, labelW),
			showImage: it.ShowImage,
			total:     it.LineTotal(),
		}
		if it.Quantity > 0 {
			il.qty = trimQty(it.Quantity)
		}
		il.height = float64(len(il.lines)) * priceLineH
		if it.ShowImage && il.height < thumbSize+4 {
			il.height = thumbSize + 4
		}
		lay.items = append(lay.items, il)
		lay.height += il.height + itemGap

		subtotal += il.total
		if it.PST {
			pstBase += il.total
		}
		if it.GST {
			gstBase += il.total
		}
	}

	pst := pstBase * b.PSTRate / 100
	if b.PrecomputedPST != nil {
		pst = *b.PrecomputedPST
	}
	gst := gstBase * b.GSTRate / 100
	if b.PrecomputedGST != nil {
		gst = *b.PrecomputedGST
	}
	if b.ShowPST && pst > 0 {
		lay.taxes = append(lay.taxes, taxLine{label: fmt.Sprintf("PST (%s%%)", trimQty(b.PSTRate)), value: pst})
	}
	if b.ShowGST && gst > 0 {
		lay.taxes = append(lay.taxes, taxLine{label: fmt.Sprintf("GST (%s%%)", trimQty(b.GSTRate)), value: gst})
	}
	if b.ShowTotal {
		total := subtotal + pst + gst
		if b.PrecomputedTotal != nil {
			total = *b.PrecomputedTotal
		}
		lay.taxes = append(lay.taxes, taxLine{label: "TOTAL", value: total, total: true})
	}

	for _, t := range lay.taxes {
		lay.height += priceLineH
		if t.total {
			lay.height += totalRuleGap
		}
	}
	return lay
}

func (b *ItemizedPricing) Height(c canvas.Canvas, width float64) float64 {
	return b.layout(c, width).height
}

func (b *ItemizedPricing) Draw(c canvas.Canvas, x, y, width float64) {
	lay := b.layout(c, width)
	f := b.labelFont()

	if b.Title != "" {
		tf := b.titleFont()
		c.SetFont(tf)
		c.Text(x, y+tf.Size, b.Title)
	}
	cursor := y + lay.titleH

	for i, il := range lay.items {
		labelX := x
		// Thumbnail and label block share the row's vertical center, so a
		// single-line label sits centered against the image.
		textH := float64(len(il.lines)) * priceLineH
		textTop := cursor + (il.height-textH)/2
		if il.showImage {
			b.drawThumb(c, b.Items[i].Image, x, cursor+(il.height-thumbSize)/2)
			labelX += thumbSize + thumbGutter
		}

		c.SetFont(f)
		base := textTop + f.Size + 2
		for _, line := range il.lines {
			c.Text(labelX, base, line)
			base += priceLineH
		}

		// Quantity and line total sit on the final wrapped label line.
		lastBase := textTop + f.Size + 2 + float64(len(il.lines)-1)*priceLineH
		if il.qty != "" {
			qty := "x " + il.qty
			c.Text(x+width-qtyTotalReserve+10, lastBase, qty)
		}
		total := Money(il.total)
		c.Text(x+width-c.StringWidth(total, f), lastBase, total)

		cursor += il.height + itemGap
	}

	for _, t := range lay.taxes {
		if t.total {
			c.SetLineWidth(0.4)
			c.Line(x, cursor+2, x+width, cursor+2)
			c.SetLineWidth(0.2)
			cursor += totalRuleGap
		}
		lf := f
		if t.total {
			lf.Style = "B"
		}
		drawValueLine(c, lf, x, cursor+f.Size+2, width, t.label, Money(t.value))
		cursor += priceLineH
	}
}

// drawThumb draws the product image, or a placeholder outline when the
// image is absent.
func (b *ItemizedPricing) drawThumb(c canvas.Canvas, img canvas.ImageRef, x, y float64) {
	if img.Zero() {
		c.SetDrawColor(190, 190, 190)
		c.Rect(x, y, thumbSize, thumbSize, "D")
		c.Line(x, y, x+thumbSize, y+thumbSize)
		c.Line(x+thumbSize, y, x, y+thumbSize)
		c.SetDrawColor(0, 0, 0)
		return
	}
	c.Image(img, x, y, thumbSize, thumbSize)
}

// trimQty formats a quantity or rate without trailing zeros.
func trimQty(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
