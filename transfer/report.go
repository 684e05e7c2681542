package transfer

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Report describes one transfer.
type Report struct {
	Space           string        `yaml:"space"`
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	ReferenceWidth  int           `yaml:"reference_width"`
	ReferenceHeight int           `yaml:"reference_height"`
	Content         Stats         `yaml:"content"`
	Reference       Stats         `yaml:"reference"`
	Output          Stats         `yaml:"output"`
	Scale           [3]float64    `yaml:"scale"`
	FlatChannels    []int         `yaml:"flat_channels,omitempty"`
	ClippedSamples  int           `yaml:"clipped_samples"`
	Duration        time.Duration `yaml:"duration"`
}

// WriteYAML encodes the report as a YAML document.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// ReadReport decodes a report written by WriteYAML.
func ReadReport(r io.Reader) (*Report, error) {
	var rep Report
	if err := yaml.NewDecoder(r).Decode(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
