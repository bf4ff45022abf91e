// Package life registers Conway's Game of Life as a core.Sim.
package life

import (
	"fmt"
	"strconv"

	"torus-life/internal/core"
	"torus-life/internal/pattern"
	engine "torus-life/pkg/life"
	"torus-life/pkg/sample"
)

// Life implements Conway's Game of Life with toroidal wrapping.
type Life struct {
	cfg   Config
	seed  int64
	grid  *engine.Grid
	cells []uint8
}

// New returns a Life simulation seeded from cfg.
func New(cfg Config) (*Life, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Life{cfg: cfg}
	if err := l.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return l, nil
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return "life" }

// Size returns the grid dimensions.
func (l *Life) Size() core.Size { return core.Size{W: l.grid.Width(), H: l.grid.Height()} }

// Cells exposes the render buffer, one byte per cell. It is refreshed after
// every Step and Reset; writes to it do not affect the simulation.
func (l *Life) Cells() []uint8 { return l.cells }

// Grid returns a copy of the current generation.
func (l *Life) Grid() *engine.Grid { return l.grid.Clone() }

// Generation returns the number of steps since the last reset.
func (l *Life) Generation() uint64 { return l.grid.Generation() }

// Population returns the number of live cells.
func (l *Life) Population() int { return l.grid.Population() }

// Reset rebuilds the board from the configured pattern, or from the
// configured seeder using seed.
func (l *Life) Reset(seed int64) error {
	g, err := l.build(seed)
	if err != nil {
		return err
	}
	l.seed = seed
	l.grid = g
	if len(l.cells) != g.Len() {
		l.cells = make([]uint8, g.Len())
	}
	g.CopyCells(l.cells)
	return nil
}

func (l *Life) build(seed int64) (*engine.Grid, error) {
	if l.cfg.Pattern != "" {
		p, err := pattern.Load(l.cfg.Pattern)
		if err != nil {
			return nil, err
		}
		return p.GridSized(l.cfg.Width, l.cfg.Height)
	}
	var src sample.Sampler
	switch l.cfg.Seeder {
	case SeederNoise:
		src = sample.NewNoiseSampler(seed, l.cfg.Width, l.cfg.NoiseScale)
	case SeederEntropy:
		src = sample.NewEntropySampler(nil)
	default:
		src = sample.NewRNG(seed)
	}
	return engine.NewRandom(l.cfg.Width, l.cfg.Height, src)
}

// Step advances the simulation by one generation.
func (l *Life) Step() {
	l.grid.Tick()
	l.grid.CopyCells(l.cells)
}

// Parameters describes the current configuration and run state.
func (l *Life) Parameters() core.ParameterSnapshot {
	source := l.cfg.Seeder
	if l.cfg.Pattern != "" {
		source = "pattern:" + l.cfg.Pattern
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", l.grid.Width()),
				intParam("h", "Height", l.grid.Height()),
				{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Value: strconv.FormatInt(l.seed, 10)},
				{Key: "source", Label: "Source", Type: core.ParamTypeString, Value: source},
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				{Key: "generation", Label: "Generation", Type: core.ParamTypeInt, Value: strconv.FormatUint(l.grid.Generation(), 10)},
				intParam("population", "Population", l.grid.Population()),
			},
		},
	}}
}

func intParam(key, label string, v int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(v)}
}

// String renders the current generation as text.
func (l *Life) String() string { return l.grid.String() }

func init() {
	core.Register("life", func(cfg map[string]string) (core.Sim, error) {
		l, err := New(FromMap(cfg))
		if err != nil {
			return nil, fmt.Errorf("life: %w", err)
		}
		return l, nil
	})
}
