// Package assetcache normalizes raster images for embedding and keeps the
// expensive conversions in a content-addressed, file-system-backed store.
//
// Cache keys are derived from the absolute source path plus the transform
// parameters, so the same input always resolves to the same cached file.
// Entries are written to a temp file and atomically renamed into place:
// concurrent first-writers for one key race harmlessly, and readers never
// observe a partial file. The engine never evicts entries.
package assetcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// backgroundQuality is the fixed JPEG quality for converted template art.
const backgroundQuality = 85

// Cache is a process-wide key→path store for normalized image files. Safe
// for concurrent use by multiple generation requests.
type Cache struct {
	dir string

	mu    sync.Mutex
	paths map[string]string
}

// New creates a cache rooted at dir, creating the directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assetcache: creating %s: %w", dir, err)
	}
	return &Cache{dir: dir, paths: make(map[string]string)}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Background returns the path to a flattened, JPEG-encoded copy of the
// template image at src, converting it on first use. Any alpha channel is
// composited onto white. Subsequent calls with the same source are cache
// hits and perform no decoding.
func (c *Cache) Background(src string) (string, error) {
	key := cacheKey(src, "background")
	name := cacheName(src, key, 0, "jpg")
	return c.resolve(key, name, func(dst string) error {
		img, err := imaging.Open(src)
		if err != nil {
			return fmt.Errorf("assetcache: opening %s: %w", src, err)
		}
		return c.writeAtomic(dst, flattenWhite(img), imaging.JPEG, backgroundQuality)
	})
}

// Bounded returns the path to a copy of src downscaled so its larger
// dimension does not exceed maxDim. It never upscales and preserves the PNG
// format (and alpha) of PNG sources; everything else is re-encoded as JPEG.
func (c *Cache) Bounded(src string, maxDim int) (string, error) {
	ext := "jpg"
	if strings.EqualFold(filepath.Ext(src), ".png") {
		ext = "png"
	}
	key := cacheKey(src, fmt.Sprintf("bounded:%d", maxDim))
	name := cacheName(src, key, maxDim, ext)
	return c.resolve(key, name, func(dst string) error {
		img, err := imaging.Open(src)
		if err != nil {
			return fmt.Errorf("assetcache: opening %s: %w", src, err)
		}
		b := img.Bounds()
		if b.Dx() > maxDim || b.Dy() > maxDim {
			img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		}
		if ext == "png" {
			return c.writeAtomic(dst, img, imaging.PNG, 0)
		}
		return c.writeAtomic(dst, flattenWhite(img), imaging.JPEG, backgroundQuality)
	})
}

// resolve implements check-then-create: an in-memory hit, then an on-disk
// hit, then the conversion.
func (c *Cache) resolve(key, name string, convert func(dst string) error) (string, error) {
	c.mu.Lock()
	if p, ok := c.paths[key]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	dst := filepath.Join(c.dir, name)
	if _, err := os.Stat(dst); err != nil {
		if err := convert(dst); err != nil {
			return "", err
		}
	}

	c.mu.Lock()
	c.paths[key] = dst
	c.mu.Unlock()
	return dst, nil
}

// writeAtomic encodes img to a temp file in the cache directory and renames
// it over dst.
func (c *Cache) writeAtomic(dst string, img image.Image, format imaging.Format, quality int) error {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("assetcache: temp file: %w", err)
	}
	var opts []imaging.EncodeOption
	if quality > 0 {
		opts = append(opts, imaging.JPEGQuality(quality))
	}
	if err := imaging.Encode(tmp, img, format, opts...); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("assetcache: encoding %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("assetcache: publishing %s: %w", dst, err)
	}
	return nil
}

// flattenWhite composites img onto an opaque white background, discarding
// any alpha channel.
func flattenWhite(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func cacheKey(src, params string) string {
	abs, err := filepath.Abs(src)
	if err != nil {
		abs = src
	}
	sum := sha256.Sum256([]byte(abs + "|" + params))
	return hex.EncodeToString(sum[:])[:12]
}

func cacheName(src, key string, maxDim int, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if maxDim > 0 {
		return fmt.Sprintf("%s_%s_%dpx.%s", stem, key, maxDim, ext)
	}
	return fmt.Sprintf("%s_%s.%s", stem, key, ext)
}
