package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/worker"
)

const (
	WorkerName      = "login-attempt-sweeper"
	DefaultInterval = time.Minute
)

// Sweepable is implemented by loginguard.Guard.
type Sweepable interface {
	Sweep() int
}

// LoginSweeper periodically evicts idle login attempt records so the guard's
// map does not grow with every email ever tried.
type LoginSweeper struct {
	*worker.BaseWorker
	guard    Sweepable
	interval time.Duration
}

// NewLoginSweeper - a non-positive interval falls back to DefaultInterval
func NewLoginSweeper(guard Sweepable, interval time.Duration, logger *zap.Logger) *LoginSweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &LoginSweeper{
		BaseWorker: worker.NewBaseWorker(WorkerName, logger),
		guard:      guard,
		interval:   interval,
	}
}

// Start runs the sweep loop until ctx is done or Stop is called.
func (s *LoginSweeper) Start(ctx context.Context) error {
	s.RunEvery(ctx, s.interval, s.sweep)
	return nil
}

func (s *LoginSweeper) sweep() {
	if evicted := s.guard.Sweep(); evicted > 0 {
		s.Logger().Debug("Evicted idle login attempt records", zap.Int("count", evicted))
	}
}
