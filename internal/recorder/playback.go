package recorder

import (
	"context"
	"io"
	"time"

	"main/internal/model"
)

// Clock abstracts pacing sleeps so playback can be driven instantly in tests.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// PlaybackConfig controls a paced replay session. Speed is a multiplier over
// recorded time: 2.0 replays twice as fast, 0 or less means no pacing at all.
type PlaybackConfig struct {
	Path  string  `json:"path"`
	Speed float64 `json:"speed"`
}

// Playback streams a recorded log through a callback, sleeping between ticks
// to reproduce the recorded inter-tick gaps scaled by the configured speed.
type Playback struct {
	cfg   PlaybackConfig
	clock Clock
}

// NewPlayback builds a playback session with the wall clock.
func NewPlayback(cfg PlaybackConfig) *Playback {
	return &Playback{cfg: cfg, clock: realClock{}}
}

// WithClock replaces the pacing clock.
func (p *Playback) WithClock(clock Clock) *Playback {
	p.clock = clock
	return p
}

// Run replays every tick in order. It returns nil on a clean end of stream
// and the context error when cancelled mid-session.
func (p *Playback) Run(ctx context.Context, emit func(model.MarketTick)) error {
	r, err := OpenReplayer(p.cfg.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	var prev model.Nanos
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tick, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if p.cfg.Speed > 0 && !prev.IsZero() {
			if gap := tick.TimestampNanos.DeltaNanos(prev); gap > 0 {
				p.clock.Sleep(time.Duration(float64(gap) / p.cfg.Speed))
			}
		}
		prev = tick.TimestampNanos

		emit(tick)
	}
}
