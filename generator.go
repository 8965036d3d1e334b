package proposalpdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/MackKirk/proposalpdf/assetcache"
	"github.com/MackKirk/proposalpdf/canvas"
	"github.com/MackKirk/proposalpdf/pageops"
)

// fontFamily is the name custom fonts are registered under.
const fontFamily = "ProposalSans"

// Generator renders ProposalDocuments to PDF. It is safe for concurrent use:
// per-request state lives in the request value, and the template cache is
// internally synchronized.
type Generator struct {
	workDir  string
	cacheDir string
	assetDir string

	fontRegular string
	fontBold    string
	family      string

	presets  map[string]assetcache.Preset
	optimize bool

	watermark    string
	pageNumbers  bool
	validityDays int

	cache *assetcache.Cache
	log   *slog.Logger
}

// NewGenerator creates a Generator, resolving fonts and preparing the
// template cache directory.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		workDir:      os.TempDir(),
		assetDir:     "assets",
		presets:      assetcache.DefaultPresets(),
		optimize:     true,
		validityDays: 30,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.cacheDir == "" {
		g.cacheDir = filepath.Join(g.workDir, "pdf_template_cache")
	}
	if g.fontRegular == "" {
		g.fontRegular = filepath.Join(g.assetDir, "fonts", "ProposalSans-Regular.ttf")
	}
	if g.fontBold == "" {
		g.fontBold = filepath.Join(g.assetDir, "fonts", "ProposalSans-Bold.ttf")
	}

	cache, err := assetcache.New(g.cacheDir)
	if err != nil {
		return nil, newGenError("init", err)
	}
	g.cache = cache

	// Font assets are optional: absence means the built-in core font, never
	// a hard failure.
	g.family = "Helvetica"
	if fileExists(g.fontRegular) && fileExists(g.fontBold) {
		g.family = fontFamily
	} else {
		g.log.Warn("font assets not found, falling back to Helvetica",
			"regular", g.fontRegular, "bold", g.fontBold)
	}

	return g, nil
}

// Generate renders doc and writes the merged PDF byte stream to w.
// Transient artifacts are removed unconditionally, best effort.
func (g *Generator) Generate(doc *ProposalDocument, w io.Writer) error {
	if doc == nil {
		return ErrNilDocument
	}
	if w == nil {
		return ErrNoOutput
	}

	req := newRequest(g, doc)
	defer req.cleanup()

	frontPath, err := req.composeFront()
	if err != nil {
		return newGenError("compose-front", err)
	}
	bodyPath, err := req.composeBody()
	if err != nil {
		return newGenError("compose-body", err)
	}

	out := w
	var numberSrc string
	if g.watermark != "" || g.pageNumbers {
		merged := req.tempPath("merged")
		if err := pageops.MergeFiles(merged, frontPath, bodyPath); err != nil {
			return newGenError("merge", err)
		}
		numberSrc = merged
		if g.watermark != "" {
			stamped := req.tempPath("stamped")
			wm := pageops.TextWatermark{Text: g.watermark}
			if err := pageops.AddTextWatermarkToFile(merged, stamped, wm); err != nil {
				return newGenError("watermark", err)
			}
			numberSrc = stamped
		}
		if g.pageNumbers {
			style := pageops.PageNumberStyle{SkipFirst: true}
			if err := pageops.AddPageNumbers(out, numberSrc, style); err != nil {
				return newGenError("page-numbers", err)
			}
		} else {
			if err := copyFile(out, numberSrc); err != nil {
				return newGenError("output", err)
			}
		}
	} else {
		if err := pageops.Merge(out, frontPath, bodyPath); err != nil {
			return newGenError("merge", err)
		}
	}

	stats := req.optimizer.TakeStats()
	if stats.Count > 0 {
		g.log.Info("image optimization",
			"images", stats.Count,
			"originalBytes", stats.OriginalBytes,
			"optimizedBytes", stats.OptimizedBytes)
	}
	return nil
}

// GenerateFile renders doc to a file at path.
func (g *Generator) GenerateFile(doc *ProposalDocument, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return newGenError("output", err)
	}
	defer f.Close()
	return g.Generate(doc, f)
}

// request bundles the per-call state: the document, the one-shot optimizer
// stats, and the transient files to delete afterwards.
type request struct {
	g         *Generator
	doc       *ProposalDocument
	optimizer *assetcache.Optimizer
	temps     []string
	imgSeq    int
}

func newRequest(g *Generator, doc *ProposalDocument) *request {
	return &request{
		g:         g,
		doc:       doc,
		optimizer: assetcache.NewOptimizer(g.presets, g.optimize, g.log),
	}
}

// newCanvas builds a Letter-size point-unit document with the generator's
// fonts registered.
func (r *request) newCanvas() *canvas.FpdfCanvas {
	pdf := fpdf.New("P", "pt", "Letter", "")
	if r.g.family == fontFamily {
		pdf.AddUTF8Font(fontFamily, "", r.g.fontRegular)
		pdf.AddUTF8Font(fontFamily, "B", r.g.fontBold)
	}
	return canvas.NewFpdf(pdf)
}

// font builds a canvas font in the generator's resolved family.
func (r *request) font(style string, size float64) canvas.Font {
	return canvas.Font{Family: r.g.family, Style: style, Size: size}
}

// tempPath reserves a transient file name scheduled for cleanup.
func (r *request) tempPath(tag string) string {
	f, err := os.CreateTemp(r.g.workDir, "proposal-"+tag+"-*.pdf")
	if err != nil {
		// Fall back to a predictable name in the work dir.
		p := filepath.Join(r.g.workDir, fmt.Sprintf("proposal-%s-%d.pdf", tag, os.Getpid()))
		r.temps = append(r.temps, p)
		return p
	}
	f.Close()
	r.temps = append(r.temps, f.Name())
	return f.Name()
}

// cleanup removes transient artifacts. Failures are swallowed.
func (r *request) cleanup() {
	for _, p := range r.temps {
		os.Remove(p)
	}
}

// resolveImage normalizes an image source into a drawable reference,
// optimizing bytes under the named preset. Unreadable sources degrade to the
// raw path or bytes, and malformed bytes are dropped entirely, rather than
// failing the document.
func (r *request) resolveImage(src ImageSource, preset string) canvas.ImageRef {
	if src.Empty() {
		return canvas.ImageRef{}
	}
	data := src.Data
	if data == nil {
		b, err := os.ReadFile(src.Path)
		if err != nil {
			r.g.log.Warn("unreadable image, using path directly", "path", src.Path, "err", err)
			return canvas.ImageRef{Path: src.Path}
		}
		data = b
	}
	out := r.optimizer.Optimize(data, preset)
	r.imgSeq++
	format := "jpg"
	if len(out) == len(data) {
		// Pass-through: the original format survives. Formats the PDF
		// writer cannot embed are skipped entirely.
		format = sniffFormat(data)
		if format == "" {
			r.g.log.Warn("unsupported image format, skipping", "path", src.Path)
			return canvas.ImageRef{}
		}
		// A matching magic number is not proof of a decodable stream, and
		// the PDF writer's error state is sticky once bad bytes register.
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			r.g.log.Warn("malformed image bytes, skipping", "path", src.Path, "err", err)
			return canvas.ImageRef{}
		}
	}
	return canvas.ImageRef{
		Name:   fmt.Sprintf("img-%s-%d", preset, r.imgSeq),
		Data:   out,
		Format: format,
	}
}

// sniffFormat recognizes the formats the PDF writer embeds natively;
// anything else yields "".
func sniffFormat(data []byte) string {
	switch {
	case len(data) > 8 && string(data[1:4]) == "PNG":
		return "png"
	case len(data) > 6 && string(data[:3]) == "GIF":
		return "gif"
	case len(data) > 3 && data[0] == 0xFF && data[1] == 0xD8:
		return "jpg"
	default:
		return ""
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
