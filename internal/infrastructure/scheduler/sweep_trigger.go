package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdueSweeper flags unpaid invoices past their due date. The dry-run
// form reports candidates without writing.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time, dryRun bool) (int, error)
}

// SweepTriggerConfig holds configuration for the daily overdue sweep
type SweepTriggerConfig struct {
	// DailyHour and DailyMinute are the local time to run the sweep each day
	DailyHour   int
	DailyMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration

	// JobTimeout bounds a single sweep run
	JobTimeout time.Duration
}

// DefaultSweepTriggerConfig returns default sweep trigger configuration
func DefaultSweepTriggerConfig() SweepTriggerConfig {
	return SweepTriggerConfig{
		DailyHour:     1, // 1am
		DailyMinute:   0,
		CheckInterval: time.Minute,
		JobTimeout:    5 * time.Minute,
	}
}

// Validate checks the configuration for obvious mistakes
func (c SweepTriggerConfig) Validate() error {
	if c.DailyHour < 0 || c.DailyHour > 23 || c.DailyMinute < 0 || c.DailyMinute > 59 {
		return ErrInvalidConfig
	}
	if c.CheckInterval <= 0 || c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SweepTrigger runs the overdue invoice sweep once per day at a fixed time
type SweepTrigger struct {
	config  SweepTriggerConfig
	sweeper OverdueSweeper
	logger  *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	sweeping    bool
	lastRunDate string // Track which date we last ran for
}

// NewSweepTrigger creates a new sweep trigger
func NewSweepTrigger(config SweepTriggerConfig, sweeper OverdueSweeper, logger *zap.Logger) (*SweepTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SweepTrigger{
		config:  config,
		sweeper: sweeper,
		logger:  logger,
	}, nil
}

// Start starts the trigger loop
func (t *SweepTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Overdue sweep trigger started",
		zap.Int("daily_hour", t.config.DailyHour),
		zap.Int("daily_minute", t.config.DailyMinute),
		zap.Duration("check_interval", t.config.CheckInterval),
	)

	return nil
}

// Stop stops the trigger loop and waits for an in-flight sweep to finish
func (t *SweepTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Overdue sweep trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the sweep
func (t *SweepTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs the sweep when the configured time of day arrives,
// at most once per calendar date
func (t *SweepTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	t.mu.Lock()
	alreadyRan := t.lastRunDate == currentDate
	t.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != t.config.DailyHour || now.Minute() != t.config.DailyMinute {
		return
	}

	t.mu.Lock()
	t.lastRunDate = currentDate
	t.mu.Unlock()

	t.logger.Info("Triggering daily overdue sweep")
	if err := t.runSweep(ctx, now); err != nil {
		t.logger.Error("Overdue sweep failed", zap.Error(err))
	}
}

// runSweep executes one sweep with the configured timeout. Concurrent runs
// are rejected so a slow sweep cannot pile up behind itself.
func (t *SweepTrigger) runSweep(ctx context.Context, asOf time.Time) error {
	t.mu.Lock()
	if t.sweeping {
		t.mu.Unlock()
		return ErrSweepAlreadyRunning
	}
	t.sweeping = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.sweeping = false
		t.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, t.config.JobTimeout)
	defer cancel()

	marked, err := t.sweeper.SweepOverdue(ctx, asOf, false)
	if err != nil {
		return err
	}

	t.logger.Info("Overdue sweep completed", zap.Int("invoices_marked", marked))
	return nil
}

// TriggerManual runs the sweep immediately, outside the daily schedule
func (t *SweepTrigger) TriggerManual(ctx context.Context) error {
	return t.runSweep(ctx, time.Now())
}
