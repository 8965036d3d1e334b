package blocks

import (
	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/textfit"
)

// LabelValue is one detail row: a fixed label and a free-text value that
// wraps within the remaining width.
type LabelValue struct {
	Label string
	Value string
}

// labelReserve is the column width reserved for detail labels.
const labelReserve = 140.0

const detailLineH = 14.0

// QuoteHeader is the synthetic block prepended to quotation documents:
// general details followed by an optional project-details sub-block. Its
// height tracks the wrapped length of every value field.
type QuoteHeader struct {
	Title     string
	General   []LabelValue
	Project   []LabelValue // empty slice omits the sub-block
	LabelFont canvas.Font
	TitleFont canvas.Font
}

func (h *QuoteHeader) labelFont() canvas.Font { return fallback(h.LabelFont, "", 10) }
func (h *QuoteHeader) titleFont() canvas.Font { return fallback(h.TitleFont, "B", 13) }

func (h *QuoteHeader) rowLines(m textfit.Measurer, rows []LabelValue, width float64) [][]string {
	f := h.labelFont()
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = textfit.Wrap(m, r.Value, f, width-labelReserve)
	}
	return out
}

func (h *QuoteHeader) Height(c canvas.Canvas, width float64) float64 {
	total := 0.0
	if h.Title != "" {
		total += titleAllowance
	}
	for _, lines := range h.rowLines(c, h.General, width) {
		total += float64(len(lines)) * detailLineH
	}
	if len(h.Project) > 0 {
		total += titleAllowance
		for _, lines := range h.rowLines(c, h.Project, width) {
			total += float64(len(lines)) * detailLineH
		}
	}
	return total
}

func (h *QuoteHeader) Draw(c canvas.Canvas, x, y, width float64) {
	cursor := y
	if h.Title != "" {
		tf := h.titleFont()
		c.SetFont(tf)
		c.Text(x, cursor+tf.Size, h.Title)
		cursor += titleAllowance
	}
	cursor = h.drawRows(c, h.General, x, cursor, width)
	if len(h.Project) > 0 {
		tf := h.titleFont()
		c.SetFont(tf)
		c.Text(x, cursor+tf.Size, "Project Details")
		cursor += titleAllowance
		h.drawRows(c, h.Project, x, cursor, width)
	}
}

func (h *QuoteHeader) drawRows(c canvas.Canvas, rows []LabelValue, x, y, width float64) float64 {
	f := h.labelFont()
	bold := f
	bold.Style = "B"
	cursor := y
	for i, lines := range h.rowLines(c, rows, width) {
		c.SetFont(bold)
		c.Text(x, cursor+f.Size+2, rows[i].Label)
		c.SetFont(f)
		base := cursor + f.Size + 2
		for _, line := range lines {
			c.Text(x+labelReserve, base, line)
			base += detailLineH
		}
		cursor += float64(len(lines)) * detailLineH
	}
	return cursor
}
