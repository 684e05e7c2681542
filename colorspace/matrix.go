package colorspace

import (
	"errors"
	"math"
)

// Mat3 is a row-major 3x3 matrix.
type Mat3 [9]float64

// Apply returns m·v.
func (m Mat3) Apply(v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Mul returns m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3]*n[c] + m[r*3+1]*n[3+c] + m[r*3+2]*n[6+c]
		}
	}
	return out
}

// Inverse returns m⁻¹ by cofactor expansion.
func (m Mat3) Inverse() (Mat3, error) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < 1e-12 {
		return Mat3{}, errors.New("matrix is singular")
	}
	invDet := 1.0 / det

	return Mat3{
		(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet,
		(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet,
		(d*h - e*g) * invDet, (g*b - a*h) * invDet, (a*e - b*d) * invDet,
	}, nil
}

// mustInverse is for package-level constants known to be invertible.
func mustInverse(m Mat3) Mat3 {
	inv, err := m.Inverse()
	if err != nil {
		panic("colorspace: " + err.Error())
	}
	return inv
}
