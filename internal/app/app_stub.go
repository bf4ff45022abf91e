//go:build !ebiten

package app

import (
	"errors"

	"torus-life/internal/core"
)

// errNoGUI is reported by every Game method in builds without ebiten.
var errNoGUI = errors.New("app: the window requires the ebiten build tag; use cmd/life for headless runs")

// Game stands in for the windowed game so headless builds still compile.
type Game struct{}

// New panics: there is no window without the ebiten build tag.
func New(core.Sim, int64, uint64) *Game {
	panic(errNoGUI)
}

// Reset does nothing.
func (g *Game) Reset(int64) {}

// Update reports errNoGUI.
func (g *Game) Update() error { return errNoGUI }

// Draw does nothing.
func (g *Game) Draw(any) {}

// Layout returns zeros.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
