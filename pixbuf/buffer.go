// Package pixbuf holds the in-memory pixel buffer shared by the transfer
// engine and the image codecs.
package pixbuf

import "fmt"

// Buffer is a (Height, Width, Channels) array of 8-bit samples stored
// pixel-major: sample (x, y, c) lives at Pix[(y*Width+x)*Channels+c].
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// New allocates a zeroed buffer.
func New(width, height, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("bounds invalid (%d x %d)", width, height)}
	}
	if channels <= 0 {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("channel count %d", channels)}
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// NewRGB allocates a zeroed 3-channel buffer.
func NewRGB(width, height int) (*Buffer, error) {
	return New(width, height, 3)
}

// FromRGB wraps a copy of pix as a 3-channel buffer.
func FromRGB(width, height int, pix []uint8) (*Buffer, error) {
	b := &Buffer{Width: width, Height: height, Channels: 3, Pix: append([]uint8(nil), pix...)}
	if err := b.ValidateRGB(); err != nil {
		return nil, err
	}
	return b, nil
}

// Shape returns (height, width, channels).
func (b *Buffer) Shape() (int, int, int) {
	return b.Height, b.Width, b.Channels
}

// Len returns the number of pixels.
func (b *Buffer) Len() int {
	return b.Width * b.Height
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// At returns sample c of pixel (x, y).
func (b *Buffer) At(x, y, c int) uint8 {
	return b.Pix[b.offset(x, y)+c]
}

// Set stores sample c of pixel (x, y).
func (b *Buffer) Set(x, y, c int, v uint8) {
	b.Pix[b.offset(x, y)+c] = v
}

// Fill sets every pixel of an RGB buffer to the given color.
func (b *Buffer) Fill(r, g, bl uint8) {
	for i := 0; i+2 < len(b.Pix); i += b.Channels {
		b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.Pix = append([]uint8(nil), b.Pix...)
	return &c
}

// Validate checks the buffer is non-empty and that Pix matches its shape.
func (b *Buffer) Validate() error {
	if b == nil {
		return &InvalidInputError{Reason: "nil buffer"}
	}
	if b.Width <= 0 || b.Height <= 0 {
		return &InvalidInputError{Reason: fmt.Sprintf("bounds invalid (%d x %d)", b.Width, b.Height)}
	}
	if b.Channels <= 0 {
		return &InvalidInputError{Reason: fmt.Sprintf("channel count %d", b.Channels)}
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return &InvalidInputError{Reason: fmt.Sprintf("sample count %d does not match shape (want %d)", len(b.Pix), want)}
	}
	return nil
}

// ValidateRGB is Validate plus a check for exactly three channels.
func (b *Buffer) ValidateRGB() error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Channels != 3 {
		return &InvalidInputError{Reason: fmt.Sprintf("expected 3 channels, got %d", b.Channels)}
	}
	return nil
}
