//go:build ebiten

package app

import (
	"log/slog"
	"time"

	"torus-life/internal/core"
	"torus-life/internal/render"
	"torus-life/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay

	paused   bool
	tickOnce bool
	seed     int64

	ticks    uint64
	maxTicks uint64
}

// New constructs a Game for the provided simulation. The game stops stepping
// after maxTicks ticks; zero means no limit.
func New(sim core.Sim, seed int64, maxTicks uint64) *Game {
	size := sim.Size()
	return &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim),
		seed:     seed,
		maxTicks: maxTicks,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	if err := g.sim.Reset(seed); err != nil {
		slog.Error("reset failed", "seed", seed, "error", err)
		return
	}
	g.seed = seed
	g.ticks = 0
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.overlay.Update()

	if g.maxTicks > 0 && g.ticks >= g.maxTicks {
		return nil
	}
	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.ticks++
		g.tickOnce = false
		if g.ticks == g.maxTicks {
			slog.Info("tick limit reached", "ticks", g.ticks)
		}
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), render.AliveColor, render.DeadColor)
	g.overlay.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return render.FrameSize(s.W, s.H)
}
