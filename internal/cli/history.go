package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"torus-life/internal/pattern"
	"torus-life/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	Generation int64
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs and generations",
		Long: `List the runs stored by "life run --db".

With a run ID, list that run's recorded generations. With --generation, print
the recorded grid for that generation.

Example:
  life history --db runs.db
  life history --db runs.db 0190b3c4-... --generation 100`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return history(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().Int64VarP(&opts.Generation, "generation", "g", -1, "print this recorded generation")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func history(cmd *cobra.Command, opts *HistoryOptions, args []string) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	out := NewOutputFormatter(opts.Format, cmd.OutOrStdout())

	if len(args) == 0 {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to list runs", err)
		}
		var b strings.Builder
		for _, r := range runs {
			fmt.Fprintf(&b, "%s  %s  %dx%d  seed %d  %s\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Width, r.Height, r.Seed, r.Source)
		}
		if len(runs) == 0 {
			b.WriteString("no runs recorded\n")
		}
		return out.Emit(b.String(), runs)
	}

	runID := args[0]
	if opts.Generation >= 0 {
		grid, err := st.LoadSnapshot(ctx, runID, uint64(opts.Generation))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load generation", err)
		}
		view := GridView{
			Width:      grid.Width(),
			Height:     grid.Height(),
			Generation: uint64(opts.Generation),
			Population: grid.Population(),
			Rows:       pattern.FromGrid(runID, grid).Rows,
		}
		return out.Emit(grid.String(), view)
	}

	gens, err := st.Generations(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list generations", err)
	}
	var b strings.Builder
	for _, g := range gens {
		fmt.Fprintf(&b, "generation %d  population %s\n", g.Generation, out.Sprintf("%d", g.Population))
	}
	return out.Emit(b.String(), gens)
}
