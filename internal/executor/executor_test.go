package executor_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkm/heatlamp/internal/ctxlog"
	"github.com/vkm/heatlamp/internal/executor"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestRunProcessesEveryIndex(t *testing.T) {
	const count = 50
	seen := make([]bool, count)
	var mu sync.Mutex

	pool := executor.New(8)
	err := pool.Run(testContext(), count, func(ctx context.Context, i int) error {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	for i, ok := range seen {
		assert.True(t, ok, "index %d was not processed", i)
	}
}

func TestRunReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")

	pool := executor.New(4)
	err := pool.Run(testContext(), 100, func(ctx context.Context, i int) error {
		if i == 10 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	var mu sync.Mutex
	ran := 0
	pool := executor.New(2)
	err := pool.Run(ctx, 1000, func(ctx context.Context, i int) error {
		mu.Lock()
		ran++
		mu.Unlock()
		return nil
	})
	assert.Error(t, err)
	mu.Lock()
	assert.Less(t, ran, 1000)
	mu.Unlock()
}

func TestZeroJobs(t *testing.T) {
	pool := executor.New(4)
	assert.NoError(t, pool.Run(testContext(), 0, func(ctx context.Context, i int) error {
		t.Fatal("job must not run")
		return nil
	}))
}

func TestWorkerCountFloor(t *testing.T) {
	pool := executor.New(0)
	err := pool.Run(testContext(), 3, func(ctx context.Context, i int) error { return nil })
	assert.NoError(t, err)
}
