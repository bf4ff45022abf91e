package life

import (
	"fmt"
	"strconv"

	engine "torus-life/pkg/life"
)

// Seeder names accepted by Config.Seeder.
const (
	SeederRand    = "rand"
	SeederNoise   = "noise"
	SeederEntropy = "entropy"
)

// Config controls the Life simulation dimensions and initial fill.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	Seed int64 `yaml:"seed"`

	// Seeder picks the randomness source for Reset. Ignored when Pattern is set.
	Seeder     string  `yaml:"seeder"`
	NoiseScale float64 `yaml:"noise_scale"`

	// Pattern is a built-in pattern name or a YAML pattern file.
	Pattern string `yaml:"pattern"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Width: 256, Height: 256, Seed: 42, Seeder: SeederRand, NoiseScale: 8}
}

// FromMap populates a Config from a string map. Unparsable values keep the
// default; parsed dimensions are kept as given and checked by Validate.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["seeder"]; ok && v != "" {
		c.Seeder = v
	}
	if v, ok := cfg["noise_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.NoiseScale = parsed
		}
	}
	if v, ok := cfg["pattern"]; ok {
		c.Pattern = v
	}
	return c
}

// Map is the inverse of FromMap.
func (c Config) Map() map[string]string {
	return map[string]string{
		"w":           strconv.Itoa(c.Width),
		"h":           strconv.Itoa(c.Height),
		"seed":        strconv.FormatInt(c.Seed, 10),
		"seeder":      c.Seeder,
		"noise_scale": strconv.FormatFloat(c.NoiseScale, 'g', -1, 64),
		"pattern":     c.Pattern,
	}
}

// Validate rejects empty dimensions and unknown seeders.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: got %dx%d", engine.ErrInvalidSize, c.Width, c.Height)
	}
	switch c.Seeder {
	case SeederRand, SeederNoise, SeederEntropy:
		return nil
	default:
		return fmt.Errorf("unknown seeder %q (want %s, %s or %s)", c.Seeder, SeederRand, SeederNoise, SeederEntropy)
	}
}
