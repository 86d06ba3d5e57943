package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BaseWorker - stop signalling and a named logger shared by in-process
// workers. Embed it and implement Start.
type BaseWorker struct {
	name     string
	logger   *zap.Logger
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewBaseWorker - the logger is tagged with the worker name
func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:     name,
		logger:   logger.With(zap.String("worker", name)),
		stopChan: make(chan struct{}),
	}
}

// Name - worker name used in logs and by the manager
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop signals the worker to return from Start. Safe to call more than once.
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true
	return nil
}

// IsStopped - true once Stop has been called
func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// StopChan - closed by Stop
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// Logger - logger tagged with the worker name
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// RunEvery calls tick once per interval until ctx is done or Stop is called.
// The first call happens after one interval. It returns the number of ticks
// run.
func (w *BaseWorker) RunEvery(ctx context.Context, interval time.Duration, tick func()) int {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("Worker started", zap.Duration("interval", interval))

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Worker context done", zap.Int("ticks", ticks))
			return ticks
		case <-w.stopChan:
			w.logger.Info("Worker stopped", zap.Int("ticks", ticks))
			return ticks
		case <-ticker.C:
			tick()
			ticks++
		}
	}
}
