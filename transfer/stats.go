package transfer

import (
	"math"

	"github.com/wudi/colortransfer/colorspace"
	"github.com/wudi/colortransfer/pixbuf"
)

// Stats holds per-channel statistics of a buffer in a working space.
type Stats struct {
	Mean [3]float64 `yaml:"mean"`
	Std  [3]float64 `yaml:"std"`
}

// ChannelStats returns the working-space mean and population standard
// deviation of each channel of an RGB buffer.
func ChannelStats(buf *pixbuf.Buffer, space colorspace.Space) (Stats, error) {
	if err := validate("buffer", buf); err != nil {
		return Stats{}, err
	}
	if space == nil {
		space = colorspace.Default()
	}
	return computeStats(toWorking(buf, space)), nil
}

// toWorking converts every pixel of a validated RGB buffer.
func toWorking(buf *pixbuf.Buffer, space colorspace.Space) [][3]float64 {
	px := make([][3]float64, buf.Len())
	for i := range px {
		o := i * 3
		px[i] = space.ToWorking([3]float64{
			float64(buf.Pix[o]) / 255,
			float64(buf.Pix[o+1]) / 255,
			float64(buf.Pix[o+2]) / 255,
		})
	}
	return px
}

// computeStats uses two passes so the variance does not lose precision to
// cancellation.
func computeStats(px [][3]float64) Stats {
	var s Stats
	if len(px) == 0 {
		return s
	}
	n := float64(len(px))
	var sum [3]float64
	for _, p := range px {
		sum[0] += p[0]
		sum[1] += p[1]
		sum[2] += p[2]
	}
	for c := 0; c < 3; c++ {
		s.Mean[c] = sum[c] / n
	}
	var sq [3]float64
	for _, p := range px {
		for c := 0; c < 3; c++ {
			d := p[c] - s.Mean[c]
			sq[c] += d * d
		}
	}
	for c := 0; c < 3; c++ {
		s.Std[c] = math.Sqrt(sq[c] / n)
	}
	return s
}
