package scheduler

import "errors"

var (
	// ErrSweepAlreadyRunning is returned when a sweep is already in progress
	ErrSweepAlreadyRunning = errors.New("overdue sweep already in progress")

	// ErrInvalidConfig is returned when trigger configuration is invalid
	ErrInvalidConfig = errors.New("invalid trigger configuration")
)
