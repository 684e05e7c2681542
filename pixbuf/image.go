package pixbuf

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage converts any image to a 3-channel RGB buffer. Alpha is dropped
// without compositing; color values are taken un-premultiplied.
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba, ok := src.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	}

	buf := &Buffer{Width: w, Height: h, Channels: 3, Pix: make([]uint8, w*h*3)}
	i := 0
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			buf.Pix[i] = row[x*4]
			buf.Pix[i+1] = row[x*4+1]
			buf.Pix[i+2] = row[x*4+2]
			i += 3
		}
	}
	return buf
}

// Image converts an RGB buffer to an opaque *image.NRGBA.
func (b *Buffer) Image() (*image.NRGBA, error) {
	if err := b.ValidateRGB(); err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	i := 0
	for p := 0; p < len(img.Pix); p += 4 {
		img.Pix[p] = b.Pix[i]
		img.Pix[p+1] = b.Pix[i+1]
		img.Pix[p+2] = b.Pix[i+2]
		img.Pix[p+3] = 255
		i += 3
	}
	return img, nil
}
