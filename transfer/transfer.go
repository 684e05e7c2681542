// Package transfer recolors a content image so that its per-channel mean
// and standard deviation, measured in a decorrelated working color space,
// match those of a reference image (Reinhard et al., "Color Transfer
// between Images", 2001).
package transfer

import (
	"errors"
	"math"
	"time"

	"github.com/wudi/colortransfer/colorspace"
	"github.com/wudi/colortransfer/observability"
	"github.com/wudi/colortransfer/pixbuf"
)

// FlatThreshold is the deviation below which a content channel is treated as
// constant. Float rounding keeps the deviation of a constant channel a few
// ulps above zero.
const FlatThreshold = 1e-9

type Config struct {
	Space   colorspace.Space // nil means colorspace.Default()
	Logger  observability.Logger
	Metrics *observability.Metrics
}

// Engine performs color transfers. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	space   colorspace.Space
	logger  observability.Logger
	metrics *observability.Metrics
}

func New(cfg Config) *Engine {
	space := cfg.Space
	if space == nil {
		space = colorspace.Default()
	}
	return &Engine{
		space:   space,
		logger:  observability.OrNop(cfg.Logger),
		metrics: cfg.Metrics,
	}
}

// Space returns the working color space.
func (e *Engine) Space() colorspace.Space { return e.space }

var defaultEngine = New(Config{})

// Transfer recolors content with the statistics of reference using the
// default lαβ space.
func Transfer(content, reference *pixbuf.Buffer) (*pixbuf.Buffer, error) {
	return defaultEngine.Transfer(content, reference)
}

// Transfer returns a new buffer shaped like content. Neither input is
// modified. Buffers must be 3-channel RGB with non-zero bounds, otherwise a
// *pixbuf.InvalidInputError naming the argument is returned.
func (e *Engine) Transfer(content, reference *pixbuf.Buffer) (*pixbuf.Buffer, error) {
	out, _, err := e.TransferWithReport(content, reference)
	return out, err
}

// TransferWithReport is Transfer plus the statistics behind the result.
func (e *Engine) TransferWithReport(content, reference *pixbuf.Buffer) (*pixbuf.Buffer, *Report, error) {
	if err := validate("content", content); err != nil {
		e.metrics.Fail("transfer")
		return nil, nil, err
	}
	if err := validate("reference", reference); err != nil {
		e.metrics.Fail("transfer")
		return nil, nil, err
	}

	start := time.Now()
	cw := toWorking(content, e.space)
	cs := computeStats(cw)
	rs := computeStats(toWorking(reference, e.space))

	rep := &Report{
		Space:           e.space.Name(),
		Width:           content.Width,
		Height:          content.Height,
		ReferenceWidth:  reference.Width,
		ReferenceHeight: reference.Height,
		Content:         cs,
		Reference:       rs,
	}
	for c := 0; c < 3; c++ {
		if cs.Std[c] < FlatThreshold {
			rep.Scale[c] = 1
			rep.FlatChannels = append(rep.FlatChannels, c)
			continue
		}
		rep.Scale[c] = rs.Std[c] / cs.Std[c]
	}

	out := &pixbuf.Buffer{
		Width:    content.Width,
		Height:   content.Height,
		Channels: 3,
		Pix:      make([]uint8, len(content.Pix)),
	}
	for i, p := range cw {
		var v [3]float64
		for c := 0; c < 3; c++ {
			v[c] = (p[c]-cs.Mean[c])*rep.Scale[c] + rs.Mean[c]
		}
		rgb := e.space.FromWorking(v)
		for c := 0; c < 3; c++ {
			s, clipped := quantize(rgb[c])
			if clipped {
				rep.ClippedSamples++
			}
			out.Pix[i*3+c] = s
		}
	}
	rep.Duration = time.Since(start)
	rep.Output = computeStats(toWorking(out, e.space))

	e.metrics.ObserveTransfer(rep.Duration, content.Len(), len(rep.FlatChannels), rep.ClippedSamples)
	e.logger.Debug("color transfer complete",
		observability.String("space", rep.Space),
		observability.Int("width", rep.Width),
		observability.Int("height", rep.Height),
		observability.Int("flat_channels", len(rep.FlatChannels)),
		observability.Int("clipped_samples", rep.ClippedSamples),
		observability.Duration("duration", rep.Duration),
	)
	return out, rep, nil
}

// quantize maps a [0,1] component to 8 bits, rounding half away from zero.
// The second result reports whether the rounded value had to be clipped.
func quantize(v float64) (uint8, bool) {
	s := math.Round(v * 255)
	switch {
	case math.IsNaN(s) || s < 0:
		return 0, true
	case s > 255:
		return 255, true
	}
	return uint8(s), false
}

func validate(arg string, b *pixbuf.Buffer) error {
	err := b.ValidateRGB()
	if err == nil {
		return nil
	}
	var iie *pixbuf.InvalidInputError
	if errors.As(err, &iie) {
		return &pixbuf.InvalidInputError{Arg: arg, Reason: iie.Reason}
	}
	return err
}
