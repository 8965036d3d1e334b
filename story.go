package proposalpdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/MackKirk/proposalpdf/blocks"
	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/flow"
)

// Flow frame geometry. The terms frame is narrower and shorter, reserving
// room for the footer art of the terms template.
var (
	mainFrame  = flow.Frame{X: marginX, Y: 60, W: contentW, H: pageH - 60 - 70}
	termsFrame = flow.Frame{X: 70, Y: 60, W: pageW - 140, H: pageH - 60 - 120}
)

// keepMargin pads conditional breaks ahead of title groups.
const keepMargin = 12.0

// termsKeepBody is how much body must accompany the terms title on its
// starting page.
const termsKeepBody = 80.0

// composeBody renders the flowing document body (sections, pricing,
// optional services, terms) and returns the path of the transient PDF.
func (r *request) composeBody() (string, error) {
	cv := r.newCanvas()

	d := flow.NewDocument()
	d.AddTemplate(flow.Template{
		Name:  "main",
		Frame: mainFrame,
		OnPage: func(c canvas.Canvas, pageNo int) {
			r.background(c, "body")
		},
	})
	d.AddTemplate(flow.Template{
		Name:  "terms",
		Frame: termsFrame,
		OnPage: func(c canvas.Canvas, pageNo int) {
			r.background(c, "terms")
		},
	})

	r.buildStory(d, cv)

	if err := d.Render(cv, "main"); err != nil {
		return "", err
	}

	path := r.tempPath("body")
	if err := cv.PDF().OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

// buildStory assembles the ordered block sequence. Conditional breaks are
// sized from the same Height implementations used at draw time, measured
// against the main frame width.
func (r *request) buildStory(d *flow.Document, cv canvas.Canvas) {
	doc := r.doc

	if doc.IsQuote {
		d.Add(r.quoteHeader(), &blocks.Spacer{H: 14})
	}

	for i, sec := range doc.Sections {
		if i > 0 {
			d.Add(&blocks.Spacer{H: 16})
		}
		if sec.Kind == SectionImages {
			r.addImageSection(d, cv, sec)
		} else {
			r.addTextSection(d, cv, sec)
		}
	}

	r.addPricing(d)

	if len(doc.Optional) > 0 {
		d.Add(&blocks.Spacer{H: 10}, &blocks.Divider{}, &blocks.Spacer{H: 10})
		items := make([]blocks.OptionalService, len(doc.Optional))
		for i, s := range doc.Optional {
			items[i] = blocks.OptionalService{Name: s.Name, Price: float64(s.Price)}
		}
		d.Add(&blocks.OptionalServices{
			Title:     "Optional Services",
			Items:     items,
			LabelFont: r.font("", 10),
			TitleFont: r.font("B", 13),
		})
	}

	r.addTerms(d, cv)
}

// quoteHeader synthesizes the general/project details block prepended to
// quotation documents.
func (r *request) quoteHeader() *blocks.QuoteHeader {
	doc := r.doc
	issue := doc.IssueDate
	if issue.IsZero() {
		issue = time.Now()
	}
	general := []blocks.LabelValue{
		{Label: "Order Number", Value: doc.OrderNumber},
		{Label: "Company", Value: doc.CompanyName},
		{Label: "Contact", Value: doc.Contact.String()},
		{Label: "Date", Value: issue.Format("January 2, 2006")},
	}
	for _, row := range doc.GeneralDetails {
		general = append(general, blocks.LabelValue{Label: row.Label, Value: row.Value})
	}
	var project []blocks.LabelValue
	for _, row := range doc.ProjectDetails {
		project = append(project, blocks.LabelValue{Label: row.Label, Value: row.Value})
	}
	return &blocks.QuoteHeader{
		Title:     "General Details",
		General:   general,
		Project:   project,
		LabelFont: r.font("", 10),
		TitleFont: r.font("B", 13),
	}
}

// addTextSection emits a section title kept together with its first content
// paragraph, then the remaining body lines.
func (r *request) addTextSection(d *flow.Document, cv canvas.Canvas, sec Section) {
	title := &blocks.Title{Text: sec.Title, Font: r.font("B", 13)}
	body := r.bodyBlocks(sec.Body)

	first := firstContent(body)
	keep := title.Height(cv, mainFrame.W) + keepMargin
	if first != nil {
		keep += first.Height(cv, mainFrame.W)
	}
	d.CondBreak(keep)
	d.Add(title, &blocks.Spacer{H: 4})
	d.Add(body...)
}

// bodyBlocks splits free text into paragraph and spacer blocks. A blank
// line becomes a spacer; leading tabs or four-space groups set the
// indentation level.
func (r *request) bodyBlocks(body string) []flow.Block {
	var out []flow.Block
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			out = append(out, &blocks.Spacer{H: 7})
			continue
		}
		out = append(out, &blocks.Paragraph{
			Text:   strings.TrimSpace(line),
			Font:   r.font("", 10),
			Indent: indentLevel(line),
		})
	}
	return out
}

// firstContent returns the first non-spacer block.
func firstContent(bs []flow.Block) flow.Block {
	for _, b := range bs {
		if _, ok := b.(*blocks.Spacer); !ok {
			return b
		}
	}
	return nil
}

// indentLevel counts leading whitespace groups: one tab, or one run of four
// spaces, per level.
func indentLevel(line string) int {
	level, spaces := 0, 0
	for _, c := range line {
		switch c {
		case '\t':
			level++
			spaces = 0
		case ' ':
			spaces++
			if spaces == 4 {
				level++
				spaces = 0
			}
		default:
			return level
		}
	}
	return level
}

// rowGap separates gallery rows.
const rowGap = 10.0

// addImageSection pairs gallery items into rows of two, centering a lone
// trailing image, and keeps the title with the first row.
func (r *request) addImageSection(d *flow.Document, cv canvas.Canvas, sec Section) {
	title := &blocks.Title{Text: sec.Title, Font: r.font("B", 13)}

	var rows []*blocks.ImageRow
	items := sec.Images
	for i := 0; i < len(items); i += 2 {
		left := blocks.ImageCell{
			Image:   r.resolveImage(items[i].Source, "section"),
			Caption: items[i].Caption,
		}
		row := &blocks.ImageRow{Left: left, CaptionFont: r.font("I", 9)}
		if i+1 < len(items) {
			right := blocks.ImageCell{
				Image:   r.resolveImage(items[i+1].Source, "section"),
				Caption: items[i+1].Caption,
			}
			row.Right = &right
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return
	}

	keep := title.Height(cv, mainFrame.W) + rows[0].Height(cv, mainFrame.W) + keepMargin
	d.CondBreak(keep)
	d.Add(title, &blocks.Spacer{H: 6}, rows[0])

	for _, row := range rows[1:] {
		h := row.Height(cv, mainFrame.W)
		d.CondBreak(h + rowGap)
		d.Add(&blocks.Spacer{H: rowGap}, row)
	}
}

// addPricing appends the configured pricing presentation after a divider.
func (r *request) addPricing(d *flow.Document) {
	p := r.doc.Pricing
	if p.Empty() {
		return
	}
	d.Add(&blocks.Spacer{H: 10}, &blocks.Divider{}, &blocks.Spacer{H: 10})

	switch {
	case p.Estimate != nil:
		e := p.Estimate
		d.Add(&blocks.EstimatePricing{
			BidPrice:  float64(e.BidPrice),
			GSTValue:  float64(e.GSTValue),
			Total:     float64(e.Total),
			ShowGST:   e.ShowGST,
			ShowTotal: e.ShowTotal,
			Title:     "Pricing",
			LabelFont: r.font("", 11),
			TitleFont: r.font("B", 13),
		})
	case len(p.Sections) > 0:
		for i, ps := range p.Sections {
			n := ps.Index
			if n <= 0 {
				n = i + 1
			}
			d.CondBreak(90)
			d.Add(r.itemizedBlock(fmt.Sprintf("Pricing Table #%d", n), ps.Items,
				float64(ps.PSTRate), float64(ps.GSTRate),
				ps.ShowPST, ps.ShowGST, ps.ShowTotal,
				ps.PST, ps.GST, ps.Total))
			d.Add(&blocks.Spacer{H: 14})
		}
	case len(p.Costs) > 0:
		d.CondBreak(90)
		d.Add(r.itemizedBlock("Pricing", p.Costs,
			float64(p.PSTRate), float64(p.GSTRate),
			p.ShowPST, p.ShowGST, p.ShowTotal,
			nil, nil, nil))
	}
}

func (r *request) itemizedBlock(title string, costs []AdditionalCost, pstRate, gstRate float64, showPST, showGST, showTotal bool, pst, gst, total *Amount) *blocks.ItemizedPricing {
	items := make([]blocks.CostItem, len(costs))
	for i, c := range costs {
		item := blocks.CostItem{
			Label:     c.Label,
			UnitPrice: float64(c.UnitPrice),
			Quantity:  float64(c.Quantity),
			PST:       c.PST,
			GST:       c.GST,
			ShowImage: c.ShowImage || !c.Image.Empty(),
		}
		if !c.Image.Empty() {
			item.Image = r.resolveImage(c.Image, "thumb")
		}
		items[i] = item
	}
	b := &blocks.ItemizedPricing{
		Title:     title,
		Items:     items,
		PSTRate:   pstRate,
		GSTRate:   gstRate,
		ShowPST:   showPST,
		ShowGST:   showGST,
		ShowTotal: showTotal,
		LabelFont: r.font("", 10),
		TitleFont: r.font("B", 13),
	}
	if pst != nil {
		v := float64(*pst)
		b.PrecomputedPST = &v
	}
	if gst != nil {
		v := float64(*gst)
		b.PrecomputedGST = &v
	}
	if total != nil {
		v := float64(*total)
		b.PrecomputedTotal = &v
	}
	return b
}

// addTerms switches to the narrower terms template and keeps the title with
// the leading slice of the body.
func (r *request) addTerms(d *flow.Document, cv canvas.Canvas) {
	terms := strings.TrimSpace(r.doc.Terms)
	if terms == "" {
		return
	}

	d.SwitchTemplate("terms")
	d.PageBreak()

	title := &blocks.Title{Text: "Terms & Conditions", Font: r.font("B", 13)}
	body := r.bodyBlocks(r.doc.Terms)

	bodyH := 0.0
	for _, b := range body {
		bodyH += b.Height(cv, termsFrame.W)
		if bodyH >= termsKeepBody {
			bodyH = termsKeepBody
			break
		}
	}
	d.CondBreak(title.Height(cv, termsFrame.W) + bodyH + keepMargin)
	d.Add(title, &blocks.Spacer{H: 4})
	d.Add(body...)
}
