package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	mu      sync.Mutex
	calls   int
	marked  int
	err     error
	block   chan struct{} // when set, SweepOverdue blocks until closed
	lastDry bool
}

func (f *fakeSweeper) SweepOverdue(ctx context.Context, _ time.Time, dryRun bool) (int, error) {
	f.mu.Lock()
	f.calls++
	f.lastDry = dryRun
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.marked, f.err
}

func (f *fakeSweeper) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSweepTriggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SweepTriggerConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*SweepTriggerConfig) {}},
		{name: "midnight", mutate: func(c *SweepTriggerConfig) { c.DailyHour = 0; c.DailyMinute = 0 }},
		{name: "hour out of range", mutate: func(c *SweepTriggerConfig) { c.DailyHour = 24 }, wantErr: true},
		{name: "negative minute", mutate: func(c *SweepTriggerConfig) { c.DailyMinute = -1 }, wantErr: true},
		{name: "zero check interval", mutate: func(c *SweepTriggerConfig) { c.CheckInterval = 0 }, wantErr: true},
		{name: "zero job timeout", mutate: func(c *SweepTriggerConfig) { c.JobTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSweepTriggerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultSweepTriggerConfig(t *testing.T) {
	cfg := DefaultSweepTriggerConfig()

	assert.Equal(t, 1, cfg.DailyHour)
	assert.Equal(t, 0, cfg.DailyMinute)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
}

func TestNewSweepTrigger_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultSweepTriggerConfig()
	cfg.DailyHour = 99

	_, err := NewSweepTrigger(cfg, &fakeSweeper{}, zap.NewNop())

	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSweepTrigger_TriggerManual(t *testing.T) {
	t.Run("runs the sweeper once", func(t *testing.T) {
		sweeper := &fakeSweeper{marked: 3}
		trigger, err := NewSweepTrigger(DefaultSweepTriggerConfig(), sweeper, zap.NewNop())
		require.NoError(t, err)

		require.NoError(t, trigger.TriggerManual(context.Background()))

		assert.Equal(t, 1, sweeper.callCount())
		assert.False(t, sweeper.lastDry, "scheduled sweeps must write")
	})

	t.Run("propagates sweeper errors", func(t *testing.T) {
		wantErr := errors.New("database unavailable")
		sweeper := &fakeSweeper{err: wantErr}
		trigger, err := NewSweepTrigger(DefaultSweepTriggerConfig(), sweeper, zap.NewNop())
		require.NoError(t, err)

		assert.ErrorIs(t, trigger.TriggerManual(context.Background()), wantErr)
	})

	t.Run("rejects a concurrent sweep", func(t *testing.T) {
		block := make(chan struct{})
		sweeper := &fakeSweeper{block: block}
		trigger, err := NewSweepTrigger(DefaultSweepTriggerConfig(), sweeper, zap.NewNop())
		require.NoError(t, err)

		firstDone := make(chan error, 1)
		go func() {
			firstDone <- trigger.TriggerManual(context.Background())
		}()

		// Wait for the first sweep to be in flight
		require.Eventually(t, func() bool {
			return sweeper.callCount() == 1
		}, time.Second, 5*time.Millisecond)

		assert.ErrorIs(t, trigger.TriggerManual(context.Background()), ErrSweepAlreadyRunning)

		close(block)
		assert.NoError(t, <-firstDone)
	})
}

func TestSweepTrigger_StartStop(t *testing.T) {
	cfg := DefaultSweepTriggerConfig()
	cfg.CheckInterval = 10 * time.Millisecond
	trigger, err := NewSweepTrigger(cfg, &fakeSweeper{}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, trigger.Start(ctx))
	// Starting twice is a no-op
	require.NoError(t, trigger.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(stopCtx))
	// Stopping twice is a no-op
	require.NoError(t, trigger.Stop(stopCtx))
}
