package proposalpdf_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/MackKirk/proposalpdf"
)

func newTestGenerator(t *testing.T, opts ...proposalpdf.Option) *proposalpdf.Generator {
	t.Helper()
	base := []proposalpdf.Option{
		proposalpdf.WithWorkDir(t.TempDir()),
		proposalpdf.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	g, err := proposalpdf.NewGenerator(append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func sampleDocument() *proposalpdf.ProposalDocument {
	return &proposalpdf.ProposalDocument{
		Title:       "Commercial Roof Replacement",
		OrderNumber: "SO-1042",
		CompanyName: "Northgate Properties",
		Contact:     proposalpdf.ContactBlock{Name: "Dana Reyes", Email: "dana@example.com"},
		Sections: []proposalpdf.Section{
			{
				Kind:  proposalpdf.SectionText,
				Title: "Scope of Work",
				Body:  "Remove the existing membrane down to the deck.\n\tInstall two-ply torch-applied SBS membrane.\n\tReplace all perimeter flashing.",
			},
		},
		Pricing: proposalpdf.PricingConfig{Estimate: &proposalpdf.EstimateConfig{
			BidPrice: 42500, GSTValue: 2125, Total: 44625,
			ShowGST: true, ShowTotal: true,
		}},
		Optional: []proposalpdf.OptionalService{{Name: "Annual inspection", Price: 450}},
		Terms:    "Quotation valid for 30 days.\nPayment net 30 from invoice date.",
	}
}

func TestGenerateProducesPDF(t *testing.T) {
	g := newTestGenerator(t)

	var buf bytes.Buffer
	if err := g.Generate(sampleDocument(), &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output lacks PDF header")
	}
	if buf.Len() < 1000 {
		t.Errorf("output suspiciously small: %d bytes", buf.Len())
	}
}

func TestGenerateFile(t *testing.T) {
	g := newTestGenerator(t)
	out := filepath.Join(t.TempDir(), "proposal.pdf")

	if err := g.GenerateFile(sampleDocument(), out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("file lacks PDF header")
	}
}

func TestGenerateQuote(t *testing.T) {
	g := newTestGenerator(t, proposalpdf.WithValidityDays(10))
	doc := sampleDocument()
	doc.IsQuote = true
	doc.GeneralDetails = []proposalpdf.DetailRow{{Label: "Site", Value: "1200 Main St"}}

	var buf bytes.Buffer
	if err := g.Generate(doc, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("quote output lacks PDF header")
	}
}

func TestGenerateWithPostProcessing(t *testing.T) {
	g := newTestGenerator(t,
		proposalpdf.WithDraftWatermark("DRAFT"),
		proposalpdf.WithPageNumbers(),
	)

	var buf bytes.Buffer
	if err := g.Generate(sampleDocument(), &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("post-processed output lacks PDF header")
	}
}

// TestGenerateSkipsMalformedImages feeds undecodable PNG-sniffing bytes in
// as both the cover image and a section image; the document must render
// without them rather than fail.
func TestGenerateSkipsMalformedImages(t *testing.T) {
	g := newTestGenerator(t)
	bad := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0x7f}, 64)...)

	doc := sampleDocument()
	doc.CoverImage = proposalpdf.ImageSource{Data: bad}
	doc.Sections = append(doc.Sections, proposalpdf.Section{
		Kind:   proposalpdf.SectionImages,
		Title:  "Site Photos",
		Images: []proposalpdf.ImageItem{{Source: proposalpdf.ImageSource{Data: bad}}},
	})

	var buf bytes.Buffer
	if err := g.Generate(doc, &buf); err != nil {
		t.Fatalf("malformed image bytes aborted generation: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output lacks PDF header")
	}
}

func TestGenerateCleansWorkDir(t *testing.T) {
	work := t.TempDir()
	g := newTestGenerator(t, proposalpdf.WithWorkDir(work))

	var buf bytes.Buffer
	if err := g.Generate(sampleDocument(), &buf); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(work)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		// The persistent template cache directory is the only survivor.
		if e.Name() != "pdf_template_cache" {
			t.Errorf("transient artifact left behind: %s", e.Name())
		}
	}
}

func TestGenerateArgumentErrors(t *testing.T) {
	g := newTestGenerator(t)

	if err := g.Generate(nil, &bytes.Buffer{}); !errors.Is(err, proposalpdf.ErrNilDocument) {
		t.Errorf("nil document: got %v, want ErrNilDocument", err)
	}
	if err := g.Generate(sampleDocument(), nil); !errors.Is(err, proposalpdf.ErrNoOutput) {
		t.Errorf("nil writer: got %v, want ErrNoOutput", err)
	}
}

func TestGenErrorWrapsStep(t *testing.T) {
	g := newTestGenerator(t)
	err := g.GenerateFile(sampleDocument(), filepath.Join(t.TempDir(), "no", "such", "dir.pdf"))
	if err == nil {
		t.Fatal("expected error for unwritable output path")
	}
	var genErr *proposalpdf.GenError
	if !errors.As(err, &genErr) {
		t.Fatalf("error %T is not a *GenError", err)
	}
	if genErr.Op != "output" {
		t.Errorf("Op = %q, want %q", genErr.Op, "output")
	}
	if genErr.Unwrap() == nil {
		t.Error("GenError should wrap the underlying error")
	}
}
