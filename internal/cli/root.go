// Package cli implements the life command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"torus-life/internal/app"
	"torus-life/internal/core"
	_ "torus-life/internal/sims/life"
	"torus-life/pkg/life"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the life CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "life",
		Short: "Conway's Game of Life on a torus",
		Long: `Run, inspect and record Conway's Game of Life on a wrap-around grid.

Grids are seeded from a built-in or YAML pattern, or filled at random from a
seeded generator, Perlin noise or the system entropy source.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError, "invalid flags",
					fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			app.Initialize(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "YAML config file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSizeCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// gridSim is a sim that can hand out copies of its grid.
type gridSim interface {
	core.Sim
	core.ParameterProvider
	Grid() *life.Grid
	Generation() uint64
}

func newSim(cfg *app.Config) (gridSim, error) {
	sim, err := core.Lookup(cfg.Sim, cfg.LifeConfig().Map())
	if err != nil {
		return nil, err
	}
	gs, ok := sim.(gridSim)
	if !ok {
		return nil, fmt.Errorf("sim %q does not expose a life grid", cfg.Sim)
	}
	return gs, nil
}

func source(cfg *app.Config) string {
	if cfg.Life.Pattern != "" {
		return "pattern:" + cfg.Life.Pattern
	}
	return cfg.Life.Seeder
}
