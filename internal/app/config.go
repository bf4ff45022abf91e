package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"torus-life/internal/driver"
	"torus-life/internal/render"
	"torus-life/internal/sims/life"
)

// Config represents the parameters shared by the CLI and the GUI.
type Config struct {
	Sim  string      `yaml:"sim"`
	Life life.Config `yaml:"life"`

	TPS      int    `yaml:"tps"`
	MaxTicks uint64 `yaml:"max_ticks"`

	// Every records a snapshot each Every generations when DB is set.
	Every uint64 `yaml:"every"`
	DB    string `yaml:"db"`

	// Viewport sizes the grid for windowed runs. Zero keeps Life's size.
	ViewportW int `yaml:"viewport_width"`
	ViewportH int `yaml:"viewport_height"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "life",
		Life:     life.DefaultConfig(),
		TPS:      60,
		MaxTicks: driver.DefaultMaxTicks,
		Every:    100,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Life.Width, "width", c.Life.Width, "grid width in cells")
	fs.IntVar(&c.Life.Height, "height", c.Life.Height, "grid height in cells")
	fs.Int64Var(&c.Life.Seed, "seed", c.Life.Seed, "seed for random fills")
	fs.StringVar(&c.Life.Seeder, "seeder", c.Life.Seeder, "random fill source (rand|noise|entropy)")
	fs.Float64Var(&c.Life.NoiseScale, "noise-scale", c.Life.NoiseScale, "feature size in cells for the noise seeder")
	fs.StringVarP(&c.Life.Pattern, "pattern", "p", c.Life.Pattern, "built-in pattern name or YAML pattern file")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second (0 = unpaced)")
	fs.Uint64Var(&c.MaxTicks, "ticks", c.MaxTicks, "stop after this many ticks (0 = run until interrupted)")
	fs.Uint64Var(&c.Every, "every", c.Every, "record a snapshot every N generations")
	fs.StringVar(&c.DB, "db", c.DB, "SQLite database for run history")
	fs.IntVar(&c.ViewportW, "viewport-width", c.ViewportW, "size the grid to fit this many pixels across")
	fs.IntVar(&c.ViewportH, "viewport-height", c.ViewportH, "size the grid to fit this many pixels down")
}

// LoadFile overlays values from a YAML file. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// Overlay copies every flag explicitly set on fs from src into c. fs must have
// been bound to src.
func (c *Config) Overlay(fs *pflag.FlagSet, src *Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "sim":
			c.Sim = src.Sim
		case "width":
			c.Life.Width = src.Life.Width
		case "height":
			c.Life.Height = src.Life.Height
		case "seed":
			c.Life.Seed = src.Life.Seed
		case "seeder":
			c.Life.Seeder = src.Life.Seeder
		case "noise-scale":
			c.Life.NoiseScale = src.Life.NoiseScale
		case "pattern":
			c.Life.Pattern = src.Life.Pattern
		case "tps":
			c.TPS = src.TPS
		case "ticks":
			c.MaxTicks = src.MaxTicks
		case "every":
			c.Every = src.Every
		case "db":
			c.DB = src.DB
		case "viewport-width":
			c.ViewportW = src.ViewportW
		case "viewport-height":
			c.ViewportH = src.ViewportH
		}
	})
}

// Resolve starts from base, loads the optional config file and then applies
// explicitly set flags, so flags win over the file and the file wins over
// base. A nil base means NewConfig.
func Resolve(base *Config, file string, fs *pflag.FlagSet, flags *Config) (*Config, error) {
	if base == nil {
		base = NewConfig()
	}
	cfg := *base
	if file != "" {
		if err := cfg.LoadFile(file); err != nil {
			return nil, err
		}
	}
	cfg.Overlay(fs, flags)
	if err := cfg.Life.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LifeConfig returns the Life configuration, resized to fit the viewport when
// either viewport dimension is set.
func (c *Config) LifeConfig() life.Config {
	lc := c.Life
	if c.ViewportW > 0 || c.ViewportH > 0 {
		lc.Width, lc.Height = render.GridSize(c.ViewportW, c.ViewportH)
	}
	return lc
}
