package assetcache

import (
	"bytes"
	"image"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"

	// Register extra decode formats so webp/bmp/tiff uploads are optimized
	// instead of passed through.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Preset names a normalization target: the bound on the larger pixel
// dimension and the JPEG re-encode quality.
type Preset struct {
	MaxDim  int
	Quality int
}

// DefaultPresets returns the built-in presets for proposal imagery.
func DefaultPresets() map[string]Preset {
	return map[string]Preset{
		"cover":   {MaxDim: 1600, Quality: 82},
		"section": {MaxDim: 1200, Quality: 80},
		"thumb":   {MaxDim: 400, Quality: 75},
	}
}

// Stats accumulates optimizer activity across one generation request.
type Stats struct {
	Count          int
	OriginalBytes  int64
	OptimizedBytes int64
}

// Optimizer normalizes uploaded image bytes per preset. It never returns a
// buffer larger than its input, and any decode or encode failure degrades to
// returning the input unchanged.
type Optimizer struct {
	enabled bool
	presets map[string]Preset
	log     *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// NewOptimizer creates an optimizer. A nil presets map uses DefaultPresets;
// a nil logger uses slog.Default.
func NewOptimizer(presets map[string]Preset, enabled bool, log *slog.Logger) *Optimizer {
	if presets == nil {
		presets = DefaultPresets()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Optimizer{enabled: enabled, presets: presets, log: log}
}

// Optimize flattens alpha to white, downscales proportionally when the
// larger dimension exceeds the preset's bound (never upscaling), and
// re-encodes as JPEG. If the result is not smaller than the input, the input
// bytes are returned unchanged.
func (o *Optimizer) Optimize(data []byte, preset string) []byte {
	out := o.optimize(data, preset)
	o.mu.Lock()
	o.stats.Count++
	o.stats.OriginalBytes += int64(len(data))
	o.stats.OptimizedBytes += int64(len(out))
	o.mu.Unlock()
	return out
}

func (o *Optimizer) optimize(data []byte, preset string) []byte {
	if !o.enabled {
		return data
	}
	p, ok := o.presets[preset]
	if !ok {
		o.log.Warn("unknown image preset, keeping original", "preset", preset)
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		o.log.Debug("image decode failed, keeping original", "preset", preset, "err", err)
		return data
	}

	flat := flattenWhite(img)
	var resized image.Image = flat
	b := flat.Bounds()
	if b.Dx() > p.MaxDim || b.Dy() > p.MaxDim {
		resized = imaging.Fit(flat, p.MaxDim, p.MaxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		o.log.Debug("image encode failed, keeping original", "preset", preset, "err", err)
		return data
	}
	if buf.Len() >= len(data) {
		return data
	}
	return buf.Bytes()
}

// Grayscale re-encodes image bytes as a grayscale JPEG, flattening any alpha
// to white first. Decode or encode failure returns the input unchanged with
// ok false; callers must not assume the bytes are JPEG in that case.
func Grayscale(data []byte) (out []byte, ok bool) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data, false
	}
	gray := imaging.Grayscale(flattenWhite(img))
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.JPEG, imaging.JPEGQuality(backgroundQuality)); err != nil {
		return data, false
	}
	return buf.Bytes(), true
}

// TakeStats returns the accumulated statistics and resets them.
func (o *Optimizer) TakeStats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.stats
	o.stats = Stats{}
	return s
}
