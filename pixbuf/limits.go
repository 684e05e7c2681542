package pixbuf

import "fmt"

const (
	// DefaultMaxDimension caps width/height so a lying header cannot force a
	// huge allocation.
	DefaultMaxDimension = 32768
	// DefaultMaxPixels bounds the pixel count (64 Mpx). The float working
	// copy costs 24 bytes per pixel, so this keeps a transfer under ~1.5 GB.
	DefaultMaxPixels int64 = 64 * 1024 * 1024
)

// Limits bounds the size of images accepted for decoding.
type Limits struct {
	MaxDimension int
	MaxPixels    int64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxDimension: DefaultMaxDimension,
		MaxPixels:    DefaultMaxPixels,
	}
}

// Check validates width and height against l. Zero fields fall back to the
// defaults.
func (l Limits) Check(width, height int) error {
	maxDim, maxPix := l.MaxDimension, l.MaxPixels
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	if maxPix <= 0 {
		maxPix = DefaultMaxPixels
	}
	if width <= 0 || height <= 0 {
		return &InvalidInputError{Reason: fmt.Sprintf("image bounds invalid (%d x %d)", width, height)}
	}
	if width > maxDim || height > maxDim {
		return fmt.Errorf("%w: dimension exceeds limit (%d x %d > %d)", ErrTooLarge, width, height, maxDim)
	}
	if pixels := int64(width) * int64(height); pixels > maxPix {
		return fmt.Errorf("%w: pixel count %d exceeds limit %d", ErrTooLarge, pixels, maxPix)
	}
	return nil
}
