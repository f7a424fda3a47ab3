package services

import (
	"context"
	"time"
)

// DefaultTickInterval gives ~100 pacing decisions per second, fine enough
// for the highest speed setting.
const DefaultTickInterval = 10 * time.Millisecond

// Scheduler converts wall-clock time and the configured speed into batches
// of drawings. It runs independently of any display or web consumer, so the
// drawing rate stays accurate even when a consumer lags.
type Scheduler struct {
	game *Game
	tick time.Duration
	now  func() time.Time

	windowStart time.Time
	drawsDone   int // drawings executed in the current one-second window
}

func NewScheduler(game *Game, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	return &Scheduler{
		game: game,
		tick: tick,
		now:  time.Now,
	}
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.windowStart = s.now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick executes the drawings owed for the elapsed part of the current
// one-second window and returns how many it ran. A single tick never runs
// more than one second's worth of drawings, so a stalled process does not
// trigger an unbounded catch-up burst.
func (s *Scheduler) Tick() int {
	running, playerCount, speed := s.game.Status()
	now := s.now()
	elapsed := now.Sub(s.windowStart).Seconds()

	executed := 0
	if running && playerCount > 0 {
		target := int(elapsed * float64(speed))
		if target > s.drawsDone {
			todo := target - s.drawsDone
			if todo > speed {
				todo = speed
			}
			for i := 0; i < todo; i++ {
				s.game.RunDrawing()
			}
			s.drawsDone += todo
			executed = todo
		}
	}

	if elapsed >= 1.0 {
		s.windowStart = now
		s.drawsDone = 0
	}
	return executed
}
