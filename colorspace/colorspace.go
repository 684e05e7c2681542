// Package colorspace provides the working color spaces used for statistical
// color transfer. Every space is a stateless pair of pure functions between
// RGB (components in [0,1]) and the working representation.
package colorspace

import (
	"fmt"
	"sort"
	"strings"
)

// Space maps RGB triples to a working space and back.
type Space interface {
	// Name returns the registry name, e.g. "lalphabeta".
	Name() string
	// ToWorking converts an RGB triple with components in [0,1].
	ToWorking(rgb [3]float64) [3]float64
	// FromWorking converts back to RGB. The result is not clipped and may
	// fall outside [0,1] when the input left the gamut.
	FromWorking(v [3]float64) [3]float64
}

// DefaultName is the space used when none is configured.
const DefaultName = "lalphabeta"

var registry = map[string]Space{
	LAlphaBeta.Name(): LAlphaBeta,
	CIELab.Name():     CIELab,
}

// Default returns the lαβ space.
func Default() Space {
	return LAlphaBeta
}

// Lookup resolves a space by name, case-insensitively. An empty name
// selects the default.
func Lookup(name string) (Space, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Default(), nil
	}
	if s, ok := registry[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown color space %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the registered spaces in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
