package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// Image sizes served to the catalog grid
const (
	SizeThumb  = "thumb"
	SizeMedium = "medium"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// ImageOptimizer resizes embedded product images to JPEG and caches the result on disk
type ImageOptimizer struct {
	cacheDir string
	logger   *zap.Logger
}

// NewImageOptimizer creates an optimizer that caches under cacheDir
func NewImageOptimizer(cacheDir string, logger *zap.Logger) (*ImageOptimizer, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image cache directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageOptimizer{cacheDir: cacheDir, logger: logger}, nil
}

// CachePath returns the cache file path for image bytes at a given size.
// Keyed on content so a changed or duplicated product picture never
// resolves to another picture's rendition.
func (o *ImageOptimizer) CachePath(data []byte, size string) string {
	sum := sha256.Sum256(data)
	return filepath.Join(o.cacheDir, fmt.Sprintf("%s_%s.jpg", hex.EncodeToString(sum[:]), normalizeImageSize(size)))
}

// Optimized returns the JPEG rendition of data at size, serving it from
// cache when the same bytes were optimized before. sourceID and code only
// label log entries.
func (o *ImageOptimizer) Optimized(sourceID, code, size string, data []byte) ([]byte, error) {
	size = normalizeImageSize(size)
	cachePath := o.CachePath(data, size)

	if cached, err := os.ReadFile(cachePath); err == nil {
		return cached, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		o.logger.Warn("⚠️  failed to read image cache", zap.String("path", cachePath), zap.Error(err))
	}

	optimized, err := OptimizeImage(data, size)
	if err != nil {
		o.logger.Debug("⚠️  image not optimizable", zap.String("sourceId", sourceID), zap.String("code", code), zap.Error(err))
		return nil, err
	}

	if err := atomic.WriteFile(cachePath, bytes.NewReader(optimized)); err != nil {
		o.logger.Warn("⚠️  failed to write image cache", zap.String("path", cachePath), zap.Error(err))
	} else {
		o.logger.Debug("✓ image cached", zap.String("path", cachePath), zap.Int("bytes", len(optimized)))
	}
	return optimized, nil
}

// OptimizeImage decodes raw image bytes (PNG, JPEG, GIF, ...), fits them
// inside the size's bounding box and re-encodes as JPEG.
func OptimizeImage(data []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if normalizeImageSize(size) == SizeThumb {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizeImageSize(size string) string {
	if size == SizeThumb {
		return SizeThumb
	}
	return SizeMedium
}
