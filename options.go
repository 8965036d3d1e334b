package proposalpdf

import (
	"log/slog"

	"github.com/MackKirk/proposalpdf/assetcache"
)

// Option is a functional option for configuring a Generator.
type Option func(*Generator)

// WithWorkDir sets the directory for transient per-request artifacts.
// Defaults to the system temp directory.
func WithWorkDir(dir string) Option {
	return func(g *Generator) {
		g.workDir = dir
	}
}

// WithCacheDir sets the directory of the persistent template-conversion
// cache. Defaults to "pdf_template_cache" under the work directory.
func WithCacheDir(dir string) Option {
	return func(g *Generator) {
		g.cacheDir = dir
	}
}

// WithAssetDir sets the directory holding background template art, the
// company logo and font files.
func WithAssetDir(dir string) Option {
	return func(g *Generator) {
		g.assetDir = dir
	}
}

// WithFonts sets the regular and bold font files registered with each
// document. A missing file falls back to the built-in Helvetica, never a
// hard failure.
func WithFonts(regular, bold string) Option {
	return func(g *Generator) {
		g.fontRegular = regular
		g.fontBold = bold
	}
}

// WithLogger sets the logger for degraded-asset and statistics reporting.
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) {
		g.log = log
	}
}

// WithOptimization toggles upload image optimization globally.
func WithOptimization(enabled bool) Option {
	return func(g *Generator) {
		g.optimize = enabled
	}
}

// WithImagePreset overrides one named optimization preset.
func WithImagePreset(name string, maxDim, quality int) Option {
	return func(g *Generator) {
		g.presets[name] = assetcache.Preset{MaxDim: maxDim, Quality: quality}
	}
}

// WithDraftWatermark stamps every page of the merged document with the given
// text at reduced opacity.
func WithDraftWatermark(text string) Option {
	return func(g *Generator) {
		g.watermark = text
	}
}

// WithPageNumbers numbers every page after the cover.
func WithPageNumbers() Option {
	return func(g *Generator) {
		g.pageNumbers = true
	}
}

// WithValidityDays sets how many business days a quotation stays valid,
// measured from its issue date. Defaults to 30.
func WithValidityDays(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.validityDays = n
		}
	}
}
