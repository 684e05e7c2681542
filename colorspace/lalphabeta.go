package colorspace

import "math"

// LMSOffset is added to each cone response before the logarithm. One 8-bit
// code value keeps black finite and the map invertible.
const LMSOffset = 1.0 / 255

var (
	rgbToLMS = Mat3{
		0.3811, 0.5783, 0.0402,
		0.1967, 0.7244, 0.0782,
		0.0241, 0.1288, 0.8444,
	}
	lmsToRGB = mustInverse(rgbToLMS)

	logLMSToLAB = Mat3{
		1 / math.Sqrt(3), 0, 0,
		0, 1 / math.Sqrt(6), 0,
		0, 0, 1 / math.Sqrt(2),
	}.Mul(Mat3{
		1, 1, 1,
		1, 1, -2,
		1, -1, 0,
	})
	labToLogLMS = mustInverse(logLMSToLAB)
)

// LAlphaBeta is Ruderman's lαβ space as used by Reinhard et al.: RGB is
// taken to LMS cone space, log-compressed, then rotated onto an achromatic
// axis (l) and two opponent axes (α yellow-blue, β red-green).
var LAlphaBeta Space = lalphabeta{}

type lalphabeta struct{}

func (lalphabeta) Name() string { return "lalphabeta" }

func (lalphabeta) ToWorking(rgb [3]float64) [3]float64 {
	lms := rgbToLMS.Apply(rgb)
	for i := range lms {
		lms[i] = math.Log10(math.Max(lms[i], 0) + LMSOffset)
	}
	return logLMSToLAB.Apply(lms)
}

func (lalphabeta) FromWorking(v [3]float64) [3]float64 {
	lms := labToLogLMS.Apply(v)
	for i := range lms {
		lms[i] = math.Max(math.Pow(10, lms[i])-LMSOffset, 0)
	}
	return lmsToRGB.Apply(lms)
}
