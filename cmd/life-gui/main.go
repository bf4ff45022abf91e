//go:build ebiten

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"torus-life/internal/app"
	"torus-life/internal/core"
	"torus-life/internal/render"
	_ "torus-life/internal/sims/life"
)

// defaults sizes the grid to the fallback window. Setting both viewport flags
// to zero keeps --width and --height instead.
func defaults() *app.Config {
	cfg := app.NewConfig()
	cfg.ViewportW, cfg.ViewportH = render.FallbackViewport, render.FallbackViewport
	return cfg
}

func main() {
	flags := defaults()
	flags.Bind(pflag.CommandLine)
	file := pflag.StringP("config", "c", "", "YAML config file")
	verbose := pflag.BoolP("verbose", "v", false, "verbose output")
	pflag.Parse()

	app.Initialize(os.Stderr, *verbose)

	cfg, err := app.Resolve(defaults(), *file, pflag.CommandLine, flags)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	sim, err := core.Lookup(cfg.Sim, cfg.LifeConfig().Map())
	if err != nil {
		slog.Error("failed to build grid", "error", err)
		os.Exit(2)
	}

	game := app.New(sim, cfg.Life.Seed, cfg.MaxTicks)
	size := sim.Size()
	fw, fh := render.FrameSize(size.W, size.H)

	ebiten.SetWindowTitle("torus-life: " + sim.Name())
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}
	ebiten.SetWindowSize(fw, fh)

	slog.Info("starting", "width", size.W, "height", size.H, "tps", cfg.TPS, "max_ticks", cfg.MaxTicks)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("game stopped", "error", err)
		os.Exit(1)
	}
}
