package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/wudi/colortransfer/colorspace"
	"github.com/wudi/colortransfer/imageio"
	"github.com/wudi/colortransfer/pixbuf"
)

const (
	SupportedSchema = "v1"
	// EnvPrefix selects environment overrides; "__" separates nested keys,
	// e.g. COLORTRANSFER_LOG__LEVEL=debug.
	EnvPrefix = "COLORTRANSFER_"
)

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type LimitsConfig struct {
	MaxDimension int   `koanf:"max_dimension"`
	MaxPixels    int64 `koanf:"max_pixels"`
}

type Config struct {
	SchemaVersion string       `koanf:"schema_version"`
	Content       string       `koanf:"content"`
	Reference     string       `koanf:"reference"`
	Output        string       `koanf:"output"`
	ColorSpace    string       `koanf:"color_space"`
	JPEGQuality   int          `koanf:"jpeg_quality"`
	Report        string       `koanf:"report"`       // optional YAML transfer report
	MetricsFile   string       `koanf:"metrics_file"` // optional Prometheus text file
	Log           LogConfig    `koanf:"log"`
	Limits        LimitsConfig `koanf:"limits"`
}

// Load merges YAML (if present) with environment variables and applies
// defaults. An empty path or a missing file loads only the environment.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("schema_version %q not supported (want %q)", sv, SupportedSchema)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Default returns a configuration with every default applied.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.ColorSpace == "" {
		c.ColorSpace = colorspace.DefaultName
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = imageio.DefaultJPEGQuality
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Limits.MaxDimension == 0 {
		c.Limits.MaxDimension = pixbuf.DefaultMaxDimension
	}
	if c.Limits.MaxPixels == 0 {
		c.Limits.MaxPixels = pixbuf.DefaultMaxPixels
	}
}

// Validate reports the first problem that would stop a run.
func (c Config) Validate() error {
	if c.Content == "" {
		return errors.New("content image path is required")
	}
	if c.Reference == "" {
		return errors.New("reference image path is required")
	}
	if c.Output == "" {
		return errors.New("output image path is required")
	}
	if _, err := imageio.FormatFromPath(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if _, err := colorspace.Lookup(c.ColorSpace); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d out of range 1-100", c.JPEGQuality)
	}
	if c.Limits.MaxDimension < 0 || c.Limits.MaxPixels < 0 {
		return errors.New("limits must not be negative")
	}
	return nil
}

// PixelLimits converts the limits section for the decoder.
func (c Config) PixelLimits() pixbuf.Limits {
	return pixbuf.Limits{
		MaxDimension: c.Limits.MaxDimension,
		MaxPixels:    c.Limits.MaxPixels,
	}
}
