//go:build ebiten

package ui

import (
	"torus-life/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws a status line with the sim's parameters on top of the grid.
type Overlay struct {
	sim  core.Sim
	show bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim) *Overlay {
	return &Overlay{sim: sim, show: true}
}

// Update toggles the overlay with the H key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.show = !o.show
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show {
		return
	}
	provider, ok := o.sim.(core.ParameterProvider)
	if !ok {
		return
	}
	ebitenutil.DebugPrint(screen, StatusLine(provider.Parameters()))
}
