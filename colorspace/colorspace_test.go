package colorspace

import (
	"math"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultName},
		{"lalphabeta", "lalphabeta"},
		{"LAlphaBeta", "lalphabeta"},
		{" cielab ", "cielab"},
		{"CIELAB", "cielab"},
	}
	for _, tc := range tests {
		s, err := Lookup(tc.in)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", tc.in, err)
		}
		if s.Name() != tc.want {
			t.Errorf("Lookup(%q): expected %s, got %s", tc.in, tc.want, s.Name())
		}
	}

	_, err := Lookup("hsv")
	if err == nil {
		t.Fatal("expected error for unknown space")
	}
	if !strings.Contains(err.Error(), "cielab") {
		t.Errorf("expected error to list known spaces, got %q", err)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != "cielab" || names[1] != "lalphabeta" {
		t.Fatalf("unexpected names %v", names)
	}
}

// Every 8-bit color on a coarse grid must survive RGB -> space -> RGB.
func TestRoundTrip8Bit(t *testing.T) {
	levels := []int{0, 1, 2, 5, 17, 42, 64, 100, 128, 180, 200, 254, 255}
	for _, name := range Names() {
		s, _ := Lookup(name)
		t.Run(name, func(t *testing.T) {
			for _, r := range levels {
				for _, g := range levels {
					for _, b := range levels {
						in := [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}
						out := s.FromWorking(s.ToWorking(in))
						for c := 0; c < 3; c++ {
							want := int(math.Round(in[c] * 255))
							got := int(math.Round(out[c] * 255))
							if d := got - want; d < -1 || d > 1 {
								t.Fatalf("(%d,%d,%d) channel %d: expected %d, got %d", r, g, b, c, want, got)
							}
						}
					}
				}
			}
		})
	}
}

func TestCIELabWhiteAndBlack(t *testing.T) {
	white := CIELab.ToWorking([3]float64{1, 1, 1})
	if math.Abs(white[0]-100) > 1e-9 || math.Abs(white[1]) > 1e-9 || math.Abs(white[2]) > 1e-9 {
		t.Errorf("expected white at (100,0,0), got %v", white)
	}
	black := CIELab.ToWorking([3]float64{0, 0, 0})
	for c := 0; c < 3; c++ {
		if math.Abs(black[c]) > 1e-9 {
			t.Errorf("expected black at origin, got %v", black)
		}
	}
}

func TestLAlphaBetaGrayIsNearlyAchromatic(t *testing.T) {
	for _, v := range []float64{0.1, 0.5, 0.9} {
		lab := LAlphaBeta.ToWorking([3]float64{v, v, v})
		if math.Abs(lab[1]) > 0.01 || math.Abs(lab[2]) > 0.01 {
			t.Errorf("gray %.1f: expected small chroma, got α=%f β=%f", v, lab[1], lab[2])
		}
	}
	dark := LAlphaBeta.ToWorking([3]float64{0.1, 0.1, 0.1})
	light := LAlphaBeta.ToWorking([3]float64{0.9, 0.9, 0.9})
	if dark[0] >= light[0] {
		t.Errorf("expected l to increase with brightness: dark=%f light=%f", dark[0], light[0])
	}
}

func TestLAlphaBetaBlackIsFinite(t *testing.T) {
	lab := LAlphaBeta.ToWorking([3]float64{0, 0, 0})
	for c := 0; c < 3; c++ {
		if math.IsInf(lab[c], 0) || math.IsNaN(lab[c]) {
			t.Fatalf("expected finite value for black, got %v", lab)
		}
	}
}

func TestSRGBCurve(t *testing.T) {
	for _, v := range []float64{0, 0.02, 0.04045, 0.2, 0.5, 1} {
		back := LinearToSRGB(SRGBToLinear(v))
		if math.Abs(back-v) > 1e-12 {
			t.Errorf("sRGB curve round trip %f -> %f", v, back)
		}
	}
	if LinearToSRGB(-0.5) != 0 {
		t.Errorf("expected negative linear input to clamp to 0")
	}
}
