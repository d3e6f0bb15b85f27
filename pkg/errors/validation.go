package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxGridSide bounds rows and cols accepted from untrusted input (HTTP, presets).
// The generator itself only requires >= 1.
const MaxGridSide = 512

// Canvas limits. MaxCanvasSize bounds the canvas width in pixels, MaxScale
// the PNG scale factor, and MaxRasterPixels the pixel count of a rasterized
// canvas (width*scale × height*scale).
const (
	MaxCanvasSize   = 8192.0
	MaxScale        = 8.0
	MaxRasterPixels = 1 << 25
)

// ValidateDimensions checks that a grid has at least one row and one column
// and that rows*cols fits in an int.
func ValidateDimensions(rows, cols int) error {
	if rows < 1 {
		return New(ErrCodeInvalidParameter, "rows must be >= 1, got %d", rows)
	}
	if cols < 1 {
		return New(ErrCodeInvalidParameter, "cols must be >= 1, got %d", cols)
	}
	if cols > math.MaxInt/rows {
		return New(ErrCodeInvalidParameter, "grid %dx%d has too many cells", rows, cols)
	}
	return nil
}

// ValidateBoundedDimensions is ValidateDimensions plus the MaxGridSide limit.
func ValidateBoundedDimensions(rows, cols int) error {
	if err := ValidateDimensions(rows, cols); err != nil {
		return err
	}
	if rows > MaxGridSide || cols > MaxGridSide {
		return New(ErrCodeInvalidParameter, "grid %dx%d exceeds maximum side %d", rows, cols, MaxGridSide)
	}
	return nil
}

// ValidateDensity checks that density is a finite fraction in [0, 1].
func ValidateDensity(density float64) error {
	if math.IsNaN(density) || density < 0 || density > 1 {
		return New(ErrCodeInvalidParameter, "density must be in [0, 1], got %v", density)
	}
	return nil
}

// ValidateFraction checks that v is in [0, 0.5). Used for the canvas margin,
// which is applied on both sides of the canvas.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v >= 0.5 {
		return New(ErrCodeInvalidParameter, "%s must be in [0, 0.5), got %v", name, v)
	}
	return nil
}

// ValidateNonNegative checks that v is a finite value >= 0.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidParameter, "%s must be >= 0, got %v", name, v)
	}
	return nil
}

// ValidateCanvasSize checks that size is in (0, MaxCanvasSize].
func ValidateCanvasSize(size float64) error {
	if math.IsNaN(size) || size <= 0 || size > MaxCanvasSize {
		return New(ErrCodeInvalidParameter, "size must be in (0, %g], got %v", MaxCanvasSize, size)
	}
	return nil
}

// ValidateScale checks that scale is in [0, MaxScale]. Zero selects the
// renderer's default.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || scale < 0 || scale > MaxScale {
		return New(ErrCodeInvalidParameter, "scale must be in [0, %g], got %v", MaxScale, scale)
	}
	return nil
}

// ValidateRasterSize checks that a width × height pixel buffer stays within
// MaxRasterPixels.
func ValidateRasterSize(width, height float64) error {
	w, h := math.Ceil(width), math.Ceil(height)
	if math.IsNaN(w*h) || math.IsInf(w*h, 0) || w < 0 || h < 0 || w*h > MaxRasterPixels {
		return New(ErrCodeInvalidParameter, "raster %vx%v exceeds %d pixels", w, h, MaxRasterPixels)
	}
	return nil
}

// ValidateName validates a user-supplied display name (gallery entries).
//
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}
