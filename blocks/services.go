package blocks

import (
	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/textfit"
)

// OptionalService is one add-on offering with its price.
type OptionalService struct {
	Name  string
	Price float64
}

// OptionalServices renders the add-on list: wrapped service name on the
// left, price right-aligned on the name's final wrapped line.
type OptionalServices struct {
	Title     string
	Items     []OptionalService
	LabelFont canvas.Font
	TitleFont canvas.Font
}

// priceReserve is the width kept clear of the service name for its price.
const priceReserve = 120.0

func (b *OptionalServices) labelFont() canvas.Font { return fallback(b.LabelFont, "", 10) }
func (b *OptionalServices) titleFont() canvas.Font { return fallback(b.TitleFont, "B", 13) }

func (b *OptionalServices) itemLines(m textfit.Measurer, width float64) [][]string {
	f := b.labelFont()
	out := make([][]string, len(b.Items))
	for i, it := range b.Items {
		out[i] = textfit.Wrap(m, it.Name, f, width-priceReserve)
	}
	return out
}

func (b *OptionalServices) Height(c canvas.Canvas, width float64) float64 {
	h := 0.0
	if b.Title != "" {
		h += titleAllowance
	}
	for _, lines := range b.itemLines(c, width) {
		h += float64(len(lines)) * priceLineH
	}
	return h
}

func (b *OptionalServices) Draw(c canvas.Canvas, x, y, width float64) {
	f := b.labelFont()
	cursor := y
	if b.Title != "" {
		tf := b.titleFont()
		c.SetFont(tf)
		c.Text(x, y+tf.Size, b.Title)
		cursor += titleAllowance
	}

	c.SetFont(f)
	for i, lines := range b.itemLines(c, width) {
		base := cursor + f.Size + 2
		for _, line := range lines {
			c.Text(x, base, line)
			base += priceLineH
		}
		lastBase := cursor + f.Size + 2 + float64(len(lines)-1)*priceLineH
		price := Money(b.Items[i].Price)
		c.Text(x+width-c.StringWidth(price, f), lastBase, price)
		cursor += float64(len(lines)) * priceLineH
	}
}
