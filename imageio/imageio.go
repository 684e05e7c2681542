// Package imageio reads image files into RGB pixel buffers and writes them
// back out. Decoding accepts PNG, JPEG, GIF, BMP, TIFF and WebP; encoding
// supports PNG, JPEG, BMP and TIFF.
package imageio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register decoders
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/wudi/colortransfer/pixbuf"
)

// Format names an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// DefaultJPEGQuality is used when EncodeOptions.JPEGQuality is zero.
const DefaultJPEGQuality = 95

var ErrUnsupportedFormat = errors.New("unsupported image format")

// EncodeOptions tunes lossy encoders.
type EncodeOptions struct {
	JPEGQuality int // 1-100, 0 means DefaultJPEGQuality
}

// ParseFormat normalizes a format name ("jpg" -> "jpeg", "tif" -> "tiff").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Decode reads an image and converts it to an RGB buffer. The header is
// checked against limits before the pixels are decoded. The second result
// is the name of the detected input format.
func Decode(r io.Reader, limits pixbuf.Limits) (*pixbuf.Buffer, string, error) {
	// Only the bytes consumed by the header probe are kept; they are
	// replayed ahead of the rest of the stream for the full decode.
	var header bytes.Buffer
	br := bufio.NewReader(r)
	cfg, format, err := image.DecodeConfig(io.TeeReader(br, &header))
	if err != nil {
		return nil, "", fmt.Errorf("read image header: %w", err)
	}
	if err := limits.Check(cfg.Width, cfg.Height); err != nil {
		return nil, format, err
	}
	img, _, err := image.Decode(io.MultiReader(&header, br))
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	return pixbuf.FromImage(img), format, nil
}

// ReadFile opens and decodes path.
func ReadFile(path string, limits pixbuf.Limits) (*pixbuf.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return Decode(f, limits)
}

// Encode writes an RGB buffer in the given format.
func Encode(w io.Writer, buf *pixbuf.Buffer, format Format, opts EncodeOptions) error {
	img, err := buf.Image()
	if err != nil {
		return err
	}
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		q := opts.JPEGQuality
		if q == 0 {
			q = DefaultJPEGQuality
		}
		if q < 1 || q > 100 {
			return fmt.Errorf("jpeg quality %d out of range 1-100", q)
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteFile encodes buf to path, choosing the format from the extension.
// The file is written to a temporary sibling and renamed into place, so a
// failed encode never leaves a truncated output behind.
func WriteFile(path string, buf *pixbuf.Buffer, opts EncodeOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".colortransfer-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, buf, format, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
