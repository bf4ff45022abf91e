package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"torus-life/internal/render"
)

// GridSizeView is the JSON payload of the size command.
type GridSizeView struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`
}

// NewSizeCommand creates the size command.
func NewSizeCommand(rootOpts *RootOptions) *cobra.Command {
	var vw, vh int

	cmd := &cobra.Command{
		Use:   "size",
		Short: "Print the grid size that fits a viewport",
		Long: fmt.Sprintf(`Print how many cells fit a viewport in pixels.

Each cell is %d pixels with a %d pixel border. A viewport dimension of zero
falls back to %d pixels.`, render.CellSize, render.BorderSize, render.FallbackViewport),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h := render.GridSize(vw, vh)
			fw, fh := render.FrameSize(w, h)
			view := GridSizeView{Width: w, Height: h, FrameWidth: fw, FrameHeight: fh}
			text := fmt.Sprintf("%dx%d cells (%dx%d pixels)\n", w, h, fw, fh)
			return NewOutputFormatter(rootOpts.Format, cmd.OutOrStdout()).Emit(text, view)
		},
	}

	cmd.Flags().IntVar(&vw, "viewport-width", 0, "viewport width in pixels")
	cmd.Flags().IntVar(&vh, "viewport-height", 0, "viewport height in pixels")

	return cmd
}
