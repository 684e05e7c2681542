package colorspace

import "math"

// sRGB primaries with a D65 white (IEC 61966-2-1).
var (
	linearRGBToXYZ = Mat3{
		0.4124, 0.3576, 0.1805,
		0.2126, 0.7152, 0.0722,
		0.0193, 0.1192, 0.9505,
	}
	xyzToLinearRGB = mustInverse(linearRGBToXYZ)

	// whiteD65 is derived from the matrix so that RGB white maps to a = b = 0.
	whiteD65 = linearRGBToXYZ.Apply([3]float64{1, 1, 1})
)

const labDelta = 6.0 / 29.0

// CIELab is CIE 1976 L*a*b* relative to D65, reached through companded sRGB.
var CIELab Space = cielab{}

type cielab struct{}

func (cielab) Name() string { return "cielab" }

func (cielab) ToWorking(rgb [3]float64) [3]float64 {
	lin := [3]float64{SRGBToLinear(rgb[0]), SRGBToLinear(rgb[1]), SRGBToLinear(rgb[2])}
	return XYZToLab(linearRGBToXYZ.Apply(lin), whiteD65)
}

func (cielab) FromWorking(v [3]float64) [3]float64 {
	lin := xyzToLinearRGB.Apply(LabToXYZ(v, whiteD65))
	return [3]float64{LinearToSRGB(lin[0]), LinearToSRGB(lin[1]), LinearToSRGB(lin[2])}
}

// XYZToLab converts XYZ relative to white into L*a*b*.
func XYZToLab(xyz, white [3]float64) [3]float64 {
	fx := labF(xyz[0] / white[0])
	fy := labF(xyz[1] / white[1])
	fz := labF(xyz[2] / white[2])
	return [3]float64{
		116*fy - 16,
		500 * (fx - fy),
		200 * (fy - fz),
	}
}

// LabToXYZ is the inverse of XYZToLab.
func LabToXYZ(lab, white [3]float64) [3]float64 {
	fy := (lab[0] + 16) / 116
	fx := fy + lab[1]/500
	fz := fy - lab[2]/200
	return [3]float64{
		white[0] * labFInv(fx),
		white[1] * labFInv(fy),
		white[2] * labFInv(fz),
	}
}

func labF(t float64) float64 {
	if t > labDelta*labDelta*labDelta {
		return math.Cbrt(t)
	}
	return t/(3*labDelta*labDelta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	if t > labDelta {
		return t * t * t
	}
	return 3 * labDelta * labDelta * (t - 4.0/29.0)
}

const (
	srgbKnee   = 0.04045
	srgbSlope  = 12.92
	linearKnee = srgbKnee / srgbSlope
)

// SRGBToLinear removes the sRGB transfer curve from a component in [0,1].
func SRGBToLinear(s float64) float64 {
	if s <= srgbKnee {
		return s / srgbSlope
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB transfer curve. Negative input maps to 0.
func LinearToSRGB(l float64) float64 {
	if l <= 0 {
		return 0
	}
	if l <= linearKnee {
		return srgbSlope * l
	}
	return 1.055*math.Pow(l, 1/2.4) - 0.055
}
