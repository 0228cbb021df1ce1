package bot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	startErr error
	block    chan struct{}
	inFlight atomic.Bool
	drained  atomic.Bool
	stopErr  error
}

func (f *fakeHandler) Start() error {
	if f.block != nil {
		<-f.block
	}
	return f.startErr
}

func (f *fakeHandler) StopWithContext(context.Context) error {
	// Pretend an in-flight handler finishes during the drain.
	if f.inFlight.Load() {
		f.drained.Store(true)
	}
	if f.block != nil {
		close(f.block)
	}
	return f.stopErr
}

func TestRunHandlerDrainsOnCancel(t *testing.T) {
	h := &fakeHandler{block: make(chan struct{})}
	h.inFlight.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHandler(ctx, h, time.Second) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runHandler did not return after cancel")
	}
	assert.True(t, h.drained.Load())
}

func TestRunHandlerReturnsStartError(t *testing.T) {
	h := &fakeHandler{startErr: errors.New("already running")}

	err := runHandler(context.Background(), h, time.Second)
	require.ErrorIs(t, err, h.startErr)
}

func TestRunHandlerReportsDrainFailure(t *testing.T) {
	h := &fakeHandler{block: make(chan struct{}), stopErr: context.DeadlineExceeded}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runHandler(ctx, h, time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
