package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/worker"
)

type blockingWorker struct {
	*worker.BaseWorker
	started chan struct{}
	ignore  bool
}

func newBlockingWorker(name string, ignoreStop bool) *blockingWorker {
	return &blockingWorker{
		BaseWorker: worker.NewBaseWorker(name, zap.NewNop()),
		started:    make(chan struct{}),
		ignore:     ignoreStop,
	}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	if w.ignore {
		time.Sleep(time.Second)
		return nil
	}
	select {
	case <-ctx.Done():
	case <-w.StopChan():
	}
	return nil
}

type failingWorker struct {
	*worker.BaseWorker
}

func (w *failingWorker) Start(context.Context) error {
	return errors.New("boom")
}

func TestManager_StartStop(t *testing.T) {
	m := worker.NewManager(zap.NewNop())
	a := newBlockingWorker("a", false)
	b := newBlockingWorker("b", false)
	m.Register(a)
	m.Register(b)
	m.Register(&failingWorker{BaseWorker: worker.NewBaseWorker("c", zap.NewNop())})

	require.NoError(t, m.Start(context.Background()))
	<-a.started
	<-b.started

	assert.Error(t, m.Start(context.Background()), "second start is rejected")

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestManager_NoWorkers(t *testing.T) {
	m := worker.NewManager(zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestManager_StopTimeout(t *testing.T) {
	m := worker.NewManager(zap.NewNop())
	m.SetShutdownTimeout(20 * time.Millisecond)

	w := newBlockingWorker("stubborn", true)
	m.Register(w)
	require.NoError(t, m.Start(context.Background()))
	<-w.started

	err := m.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
