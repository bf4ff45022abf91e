// Package driver runs a simulation repeatedly outside any windowing system.
package driver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"torus-life/internal/core"
)

// DefaultMaxTicks bounds windowed runs unless configured otherwise.
const DefaultMaxTicks = 36000

// Loop repeatedly steps a simulation and hands each generation to Redraw.
type Loop struct {
	Sim core.Sim

	// Redraw is called after every step. A returned error stops the loop.
	Redraw func(gen uint64, cells []uint8) error

	// MaxTicks stops the loop after that many steps. Zero runs until the
	// context is cancelled.
	MaxTicks uint64

	// TPS paces the loop. Zero runs as fast as possible.
	TPS int

	Logger *slog.Logger

	// now and sleep are replaced in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Result summarises a finished run.
type Result struct {
	Ticks   uint64
	Elapsed time.Duration
}

// Run drives the loop until MaxTicks is reached, Redraw fails, or ctx is
// done. Cancellation returns ctx.Err() along with the ticks completed.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	if l.Sim == nil {
		return Result{}, errors.New("driver: no simulation")
	}
	now := l.now
	if now == nil {
		now = time.Now
	}
	sleep := l.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	log := l.Logger
	if log == nil {
		log = slog.Default()
	}

	var pace *core.FixedStep
	if l.TPS > 0 {
		pace = core.NewFixedStepWithClock(l.TPS, now)
	}

	start := now()
	var res Result
	finish := func(err error) (Result, error) {
		res.Elapsed = now().Sub(start)
		log.Debug("loop stopped", "sim", l.Sim.Name(), "ticks", res.Ticks, "elapsed", res.Elapsed, "err", err)
		return res, err
	}

	log.Debug("loop started", "sim", l.Sim.Name(), "max_ticks", l.MaxTicks, "tps", l.TPS)
	for {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if l.MaxTicks > 0 && res.Ticks >= l.MaxTicks {
			return finish(nil)
		}
		if pace != nil && !pace.ShouldStep() {
			if err := sleep(ctx, pace.Remaining()); err != nil {
				return finish(err)
			}
			continue
		}

		l.Sim.Step()
		res.Ticks++
		if l.Redraw != nil {
			if err := l.Redraw(res.Ticks, l.Sim.Cells()); err != nil {
				return finish(err)
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
