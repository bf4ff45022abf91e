package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"torus-life/internal/app"
	"torus-life/internal/core"
	"torus-life/internal/driver"
	"torus-life/internal/render"
	"torus-life/internal/store"
)

// printLimit is the largest grid whose final state run prints as text.
const printLimit = 80 * 80

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	PNG   string
	Quiet bool
}

// RunSummary is the JSON payload of the run command.
type RunSummary struct {
	RunID       string                 `json:"run_id,omitempty"`
	Width       int                    `json:"width"`
	Height      int                    `json:"height"`
	Ticks       uint64                 `json:"ticks"`
	Population  int                    `json:"population"`
	Elapsed     time.Duration          `json:"elapsed_ns"`
	Interrupted bool                   `json:"interrupted"`
	Parameters  core.ParameterSnapshot `json:"parameters"`
}

func runDefaults() *app.Config {
	cfg := app.NewConfig()
	cfg.TPS = 0
	cfg.MaxTicks = 100
	return cfg
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}
	flags := runDefaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless",
		Long: `Run the simulation without a window for a number of ticks.

With --db every --every-th generation, plus the first and the last, is stored
in a SQLite run history. Interrupting the run stops it cleanly and still
records the last generation.

Example:
  life run --width 64 --height 64 --ticks 500 --db runs.db
  life run --pattern glider --width 20 --height 20 --ticks 80 --png glider.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Resolve(runDefaults(), opts.Config, cmd.Flags(), flags)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			return runHeadless(cmd, opts, cfg)
		},
	}

	flags.Bind(cmd.Flags())
	cmd.Flags().StringVar(&opts.PNG, "png", "", "write the final generation to this PNG file")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print the final generation")

	return cmd
}

func runHeadless(cmd *cobra.Command, opts *RunOptions, cfg *app.Config) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := newSim(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build grid", err)
	}
	size := sim.Size()
	slog.Info("grid ready", "width", size.W, "height", size.H, "source", source(cfg))

	rec, err := openRecorder(ctx, cfg, sim)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history", err)
	}
	defer rec.Close()

	loop := &driver.Loop{
		Sim:      sim,
		MaxTicks: cfg.MaxTicks,
		TPS:      cfg.TPS,
		Logger:   slog.Default(),
		Redraw: func(gen uint64, _ []uint8) error {
			if cfg.Every > 0 && gen%cfg.Every == 0 {
				return rec.Record(ctx, sim)
			}
			return nil
		},
	}
	res, err := loop.Run(ctx)
	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return WrapExitError(ExitFailure, "run failed", err)
	}
	if interrupted {
		slog.Info("run interrupted", "ticks", res.Ticks)
	}
	if err := rec.Record(context.WithoutCancel(ctx), sim); err != nil {
		return WrapExitError(ExitFailure, "failed to record final generation", err)
	}

	if opts.PNG != "" {
		if err := writePNG(opts.PNG, sim); err != nil {
			return WrapExitError(ExitFailure, "failed to write png", err)
		}
		slog.Info("wrote png", "path", opts.PNG)
	}

	grid := sim.Grid()
	summary := RunSummary{
		RunID:       rec.RunID(),
		Width:       size.W,
		Height:      size.H,
		Ticks:       res.Ticks,
		Population:  grid.Population(),
		Elapsed:     res.Elapsed,
		Interrupted: interrupted,
		Parameters:  sim.Parameters(),
	}

	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())
	text := ""
	if !opts.Quiet && size.W*size.H <= printLimit {
		text = grid.String()
	}
	text += fmt.Sprintf("generation %d of a %dx%d grid, population %s",
		grid.Generation(), size.W, size.H, out.Sprintf("%d", summary.Population))
	if summary.RunID != "" {
		text += " (run " + summary.RunID + ")"
	}
	return out.Emit(text+"\n", summary)
}

func writePNG(path string, sim core.Sim) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	size := sim.Size()
	if err := render.WritePNG(f, sim.Cells(), size.W, size.H); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// recorder writes generations to the run history. The zero value records
// nothing.
type recorder struct {
	st   *store.Store
	run  store.Run
	last uint64
	seen bool
}

func openRecorder(ctx context.Context, cfg *app.Config, sim gridSim) (*recorder, error) {
	if cfg.DB == "" {
		return &recorder{}, nil
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	size := sim.Size()
	run, err := st.CreateRun(ctx, size.W, size.H, cfg.Life.Seed, source(cfg))
	if err != nil {
		st.Close()
		return nil, err
	}
	slog.Info("recording run", "run", run.ID, "db", cfg.DB, "every", cfg.Every)
	rec := &recorder{st: st, run: run}
	if err := rec.Record(ctx, sim); err != nil {
		st.Close()
		return nil, err
	}
	return rec, nil
}

// Record stores the sim's current generation unless it was the last one
// recorded.
func (r *recorder) Record(ctx context.Context, sim gridSim) error {
	if r.st == nil {
		return nil
	}
	gen := sim.Generation()
	if r.seen && gen == r.last {
		return nil
	}
	if err := r.st.RecordGeneration(ctx, r.run.ID, gen, sim.Grid()); err != nil {
		return err
	}
	slog.Debug("recorded generation", "run", r.run.ID, "generation", gen)
	r.last, r.seen = gen, true
	return nil
}

func (r *recorder) RunID() string { return r.run.ID }

func (r *recorder) Close() {
	if r.st == nil {
		return
	}
	if err := r.st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
