package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/pkg/workerpool"
)

func TestPool_SubmitWaitRunsEveryTask(t *testing.T) {
	pool := workerpool.New("test", 4)
	ctx := context.Background()

	const n = 100
	var count atomic.Int64
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(ctx, func() error {
			count.Add(1)
			return nil
		}))
	}

	require.NoError(t, pool.Shutdown(ctx))
	assert.EqualValues(t, n, count.Load())
}

func TestPool_SubmitReturnsFullUnderBackpressure(t *testing.T) {
	pool := workerpool.New("test", 1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, pool.Submit(func() error {
		close(started)
		<-release
		return nil
	}))
	<-started

	// One busy worker plus a queue of two.
	require.NoError(t, pool.Submit(func() error { return nil }))
	require.NoError(t, pool.Submit(func() error { return nil }))
	assert.ErrorIs(t, pool.Submit(func() error { return nil }), workerpool.ErrPoolFull)

	close(release)
	require.NoError(t, pool.Shutdown(context.Background()))
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New("test", 2)
	require.NoError(t, pool.Shutdown(context.Background()))
	require.NoError(t, pool.Shutdown(context.Background()))

	assert.ErrorIs(t, pool.Submit(func() error { return nil }), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, pool.SubmitWait(context.Background(), func() error { return nil }), workerpool.ErrPoolClosed)
}

func TestPool_SurvivesPanicsAndErrors(t *testing.T) {
	pool := workerpool.New("test", 1)
	ctx := context.Background()

	var ran atomic.Bool
	require.NoError(t, pool.SubmitWait(ctx, func() error { panic("boom") }))
	require.NoError(t, pool.SubmitWait(ctx, func() error { return errors.New("failed") }))
	require.NoError(t, pool.SubmitWait(ctx, func() error {
		ran.Store(true)
		return nil
	}))

	require.NoError(t, pool.Shutdown(ctx))
	assert.True(t, ran.Load())
}

func TestPool_ShutdownHonoursDeadline(t *testing.T) {
	pool := workerpool.New("test", 1)
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, pool.Submit(func() error {
		defer wg.Done()
		<-release
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	wg.Wait()
	require.NoError(t, pool.Shutdown(context.Background()))
}

func TestPool_SubmitWaitHonoursContext(t *testing.T) {
	pool := workerpool.New("test", 1)
	release := make(chan struct{})
	started := make(chan struct{})
	block := func() error { <-release; return nil }

	require.NoError(t, pool.Submit(func() error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, pool.Submit(block))
	require.NoError(t, pool.Submit(block))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.SubmitWait(ctx, block), context.DeadlineExceeded)

	close(release)
	require.NoError(t, pool.Shutdown(context.Background()))
}
