package proposalpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/flow"
)

// stubCanvas records drawing calls per page and measures text at half the
// font size per rune.
type stubCanvas struct {
	page int
	font canvas.Font
	tpls []string // template name per page

	texts  []stubText
	images []stubImage
}

type stubText struct {
	page int
	x, y float64
	s    string
}

type stubImage struct {
	page int
	x, y float64
	ref  canvas.ImageRef
}

func (s *stubCanvas) AddPage()                 { s.page++ }
func (s *stubCanvas) PageNo() int              { return s.page }
func (s *stubCanvas) PageSize() (w, h float64) { return pageW, pageH }
func (s *stubCanvas) SetFont(f canvas.Font)    { s.font = f }
func (s *stubCanvas) TextWidth(t string) float64 {
	return s.StringWidth(t, s.font)
}
func (s *stubCanvas) StringWidth(t string, f canvas.Font) float64 {
	return 0.5 * f.Size * float64(len([]rune(t)))
}
func (s *stubCanvas) Text(x, y float64, t string) {
	s.texts = append(s.texts, stubText{page: s.page, x: x, y: y, s: t})
}
func (s *stubCanvas) Image(img canvas.ImageRef, x, y, w, h float64) {
	s.images = append(s.images, stubImage{page: s.page, x: x, y: y, ref: img})
}
func (s *stubCanvas) Line(float64, float64, float64, float64)         {}
func (s *stubCanvas) Rect(float64, float64, float64, float64, string) {}
func (s *stubCanvas) SetTextColor(int, int, int)                      {}
func (s *stubCanvas) SetDrawColor(int, int, int)                      {}
func (s *stubCanvas) SetFillColor(int, int, int)                      {}
func (s *stubCanvas) SetLineWidth(float64)                            {}
func (s *stubCanvas) SetAlpha(float64)                                {}

func (s *stubCanvas) textIndex(t string) int {
	for i, tc := range s.texts {
		if tc.s == t {
			return i
		}
	}
	return -1
}

func quietGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := NewGenerator(
		WithWorkDir(t.TempDir()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// renderStory lays out doc's story on a stub canvas with recording page
// templates.
func renderStory(t *testing.T, doc *ProposalDocument) *stubCanvas {
	t.Helper()
	r := newRequest(quietGenerator(t), doc)
	cv := &stubCanvas{}

	d := flow.NewDocument()
	d.AddTemplate(flow.Template{Name: "main", Frame: mainFrame, OnPage: func(canvas.Canvas, int) {
		cv.tpls = append(cv.tpls, "main")
	}})
	d.AddTemplate(flow.Template{Name: "terms", Frame: termsFrame, OnPage: func(canvas.Canvas, int) {
		cv.tpls = append(cv.tpls, "terms")
	}})

	r.buildStory(d, cv)
	if err := d.Render(cv, "main"); err != nil {
		t.Fatal(err)
	}
	return cv
}

func fillerBody(lines int) string {
	return strings.TrimRight(strings.Repeat("a line of filler text\n", lines), "\n")
}

// TestSectionTitleStaysWithBody drives enough filler through the flow that
// later section titles land near page bottoms, then checks no title is ever
// stranded away from its first paragraph.
func TestSectionTitleStaysWithBody(t *testing.T) {
	doc := &ProposalDocument{
		Title: "Proposal",
		Sections: []Section{
			{Kind: SectionText, Title: "Introduction", Body: fillerBody(44)},
			{Kind: SectionText, Title: "Scope of Work", Body: fillerBody(44)},
			{Kind: SectionText, Title: "Exclusions", Body: fillerBody(10)},
		},
	}
	cv := renderStory(t, doc)

	if cv.page < 2 {
		t.Fatalf("expected the story to paginate, got %d page(s)", cv.page)
	}
	for _, title := range []string{"Introduction", "Scope of Work", "Exclusions"} {
		i := cv.textIndex(title)
		if i < 0 {
			t.Fatalf("title %q not drawn", title)
		}
		if i+1 >= len(cv.texts) {
			t.Fatalf("title %q has no following content", title)
		}
		if cv.texts[i].page != cv.texts[i+1].page {
			t.Errorf("title %q on page %d, first body line on page %d",
				title, cv.texts[i].page, cv.texts[i+1].page)
		}
	}
}

func TestIndentLevel(t *testing.T) {
	cases := map[string]int{
		"plain":           0,
		"\tindented":      1,
		"\t\tdeep":        2,
		"    four spaces": 1,
		"        eight":   2,
		"  two spaces":    0,
		"\t    mixed":     2,
	}
	for in, want := range cases {
		if got := indentLevel(in); got != want {
			t.Errorf("indentLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(1, 1, color.NRGBA{R: 0x80, G: 0x20, B: 0x20, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// badPNG is a buffer that sniffs as PNG but cannot be decoded.
func badPNG() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x7f}, 64)...)
}

func TestResolveImageMalformedBytes(t *testing.T) {
	r := newRequest(quietGenerator(t), &ProposalDocument{})

	if ref := r.resolveImage(ImageSource{Data: badPNG()}, "section"); !ref.Zero() {
		t.Error("malformed bytes should resolve to nothing")
	}
	if ref := r.resolveImage(ImageSource{Data: tinyPNG(t)}, "section"); ref.Zero() {
		t.Error("valid bytes should resolve to a drawable reference")
	}
}

// TestImageSectionRows checks the two-column gallery arrangement: pairs sit
// flush left and right, a lone trailing image is centered.
func TestImageSectionRows(t *testing.T) {
	data := tinyPNG(t)
	doc := &ProposalDocument{
		Title: "Proposal",
		Sections: []Section{{
			Kind:  SectionImages,
			Title: "Site Photos",
			Images: []ImageItem{
				{Source: ImageSource{Data: data}},
				{Source: ImageSource{Data: data}},
				{Source: ImageSource{Data: data}},
			},
		}},
	}
	cv := renderStory(t, doc)

	if len(cv.images) != 3 {
		t.Fatalf("expected 3 gallery images, got %d", len(cv.images))
	}
	wantX := []float64{
		mainFrame.X,
		mainFrame.X + mainFrame.W - 252,
		mainFrame.X + (mainFrame.W-252)/2,
	}
	for i, want := range wantX {
		if cv.images[i].x != want {
			t.Errorf("image %d at x %.0f, want %.0f", i, cv.images[i].x, want)
		}
	}
	if cv.images[0].y != cv.images[1].y {
		t.Error("paired images not on one row")
	}
	if cv.images[2].y <= cv.images[0].y {
		t.Error("lone image should sit below the pair")
	}
}

// TestTermsSwitchTemplate checks the terms section starts on a fresh page
// under the terms template, and that the switch happens exactly once.
func TestTermsSwitchTemplate(t *testing.T) {
	doc := &ProposalDocument{
		Title:    "Proposal",
		Sections: []Section{{Kind: SectionText, Title: "Scope", Body: "Work."}},
		Terms:    "Payment due within 30 days.\nAll work warranted for five years.",
	}
	cv := renderStory(t, doc)

	switches := 0
	for i := 1; i < len(cv.tpls); i++ {
		if cv.tpls[i] != cv.tpls[i-1] {
			switches++
		}
	}
	if switches != 1 {
		t.Fatalf("template sequence %v, want exactly one switch", cv.tpls)
	}
	if cv.tpls[0] != "main" || cv.tpls[len(cv.tpls)-1] != "terms" {
		t.Fatalf("template sequence %v, want main pages then terms pages", cv.tpls)
	}

	i := cv.textIndex("Terms & Conditions")
	if i < 0 {
		t.Fatal("terms title not drawn")
	}
	termsPage := cv.texts[i].page
	if cv.tpls[termsPage-1] != "terms" {
		t.Errorf("terms title on page %d with template %q", termsPage, cv.tpls[termsPage-1])
	}
	// Fresh page: the title sits at the terms frame origin.
	if cv.texts[i].x != termsFrame.X {
		t.Errorf("terms title at x %.0f, want %.0f", cv.texts[i].x, termsFrame.X)
	}
}

func TestNoTermsNoSwitch(t *testing.T) {
	doc := &ProposalDocument{
		Title:    "Proposal",
		Sections: []Section{{Kind: SectionText, Title: "Scope", Body: "Work."}},
		Terms:    "   ",
	}
	cv := renderStory(t, doc)
	for _, tpl := range cv.tpls {
		if tpl != "main" {
			t.Fatalf("template sequence %v, want main only", cv.tpls)
		}
	}
	if cv.textIndex("Terms & Conditions") >= 0 {
		t.Error("terms title drawn for blank terms")
	}
}

// TestQuoteStoryOrder checks a quotation leads with the details header and
// presents estimate pricing in Bid Price, GST, TOTAL order.
func TestQuoteStoryOrder(t *testing.T) {
	doc := &ProposalDocument{
		IsQuote:     true,
		Title:       "Quotation",
		OrderNumber: "SO-1042",
		CompanyName: "Northgate Properties",
		Contact:     ContactBlock{Name: "Dana Reyes"},
		Sections:    []Section{{Kind: SectionText, Title: "Scope", Body: "Work."}},
		Pricing: PricingConfig{Estimate: &EstimateConfig{
			BidPrice: 12500, GSTValue: 625, Total: 13125,
			ShowGST: true, ShowTotal: true,
		}},
	}
	cv := renderStory(t, doc)

	header := cv.textIndex("General Details")
	if header < 0 {
		t.Fatal("quote header not drawn")
	}
	if order := cv.textIndex("Order Number"); order < header {
		t.Error("order number row missing or out of place")
	}

	bid, gst, total := cv.textIndex("Bid Price"), cv.textIndex("GST"), cv.textIndex("TOTAL")
	if bid < 0 || gst < 0 || total < 0 {
		t.Fatalf("estimate lines missing: bid=%d gst=%d total=%d", bid, gst, total)
	}
	if !(header < bid && bid < gst && gst < total) {
		t.Errorf("estimate lines out of order: header=%d bid=%d gst=%d total=%d", header, bid, gst, total)
	}
}

func TestPricingSectionNumbering(t *testing.T) {
	items := []AdditionalCost{{Label: "Membrane", UnitPrice: 1000}}
	doc := &ProposalDocument{
		Title: "Proposal",
		Pricing: PricingConfig{Sections: []PricingSection{
			{Items: items},
			{Index: 5, Items: items},
		}},
	}
	cv := renderStory(t, doc)

	if cv.textIndex("Pricing Table #1") < 0 {
		t.Error("unindexed section should default to its position")
	}
	if cv.textIndex("Pricing Table #5") < 0 {
		t.Error("explicit section index not honored")
	}
}

func TestLegacyCostsPricing(t *testing.T) {
	doc := &ProposalDocument{
		Title: "Proposal",
		Pricing: PricingConfig{
			Costs:   []AdditionalCost{{Label: "Labour", UnitPrice: 3000, GST: true}},
			GSTRate: 5, ShowGST: true, ShowTotal: true,
		},
	}
	cv := renderStory(t, doc)

	if cv.textIndex("Pricing") < 0 {
		t.Error("legacy pricing title missing")
	}
	if cv.textIndex("GST (5%)") < 0 || cv.textIndex("$3,150.00") < 0 {
		t.Error("legacy pricing totals missing")
	}
}
