package cli

import (
	"context"

	"github.com/spf13/cobra"

	"torus-life/internal/app"
	"torus-life/internal/driver"
	"torus-life/internal/pattern"
	"torus-life/internal/ui"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	YAML   bool
	Params bool
}

// GridView is the JSON payload of the show command.
type GridView struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Generation uint64   `json:"generation"`
	Population int      `json:"population"`
	Rows       []string `json:"rows"`
}

func showDefaults() *app.Config {
	cfg := app.NewConfig()
	cfg.Life.Width, cfg.Life.Height = 16, 16
	cfg.TPS = 0
	cfg.MaxTicks = 0
	return cfg
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}
	flags := showDefaults()

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a generation as text",
		Long: `Build a grid, advance it --ticks generations and print it.

Live cells print as ◼ and dead cells as ◻, one line per row. With --yaml the
grid is printed as a pattern file that --pattern can load again.

Example:
  life show --pattern blinker --ticks 1
  life show --width 8 --height 8 --seed 7 --yaml > seed.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Resolve(showDefaults(), opts.Config, cmd.Flags(), flags)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			return show(cmd, opts, cfg)
		},
	}

	flags.Bind(cmd.Flags())
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "print the grid as a YAML pattern")
	cmd.Flags().BoolVar(&opts.Params, "params", false, "print the sim parameters after the grid")

	return cmd
}

func show(cmd *cobra.Command, opts *ShowOptions, cfg *app.Config) error {
	sim, err := newSim(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build grid", err)
	}
	if cfg.MaxTicks > 0 {
		loop := &driver.Loop{Sim: sim, MaxTicks: cfg.MaxTicks}
		if _, err := loop.Run(context.Background()); err != nil {
			return WrapExitError(ExitFailure, "run failed", err)
		}
	}

	grid := sim.Grid()
	p := pattern.FromGrid(source(cfg), grid)
	view := GridView{
		Width:      grid.Width(),
		Height:     grid.Height(),
		Generation: grid.Generation(),
		Population: grid.Population(),
		Rows:       p.Rows,
	}

	text := grid.String()
	if opts.YAML {
		data, err := p.Marshal()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to encode pattern", err)
		}
		text = string(data)
	}
	if opts.Params {
		text += ui.StatusLine(sim.Parameters()) + "\n"
	}
	return NewOutputFormatter(opts.Format, cmd.OutOrStdout()).Emit(text, view)
}
