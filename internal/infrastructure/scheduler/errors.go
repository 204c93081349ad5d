package scheduler

import "errors"

var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrJobQueueFull        = errors.New("job queue is full")
	ErrUnknownJob          = errors.New("unknown job")
	ErrJobAlreadyRunning   = errors.New("job is already running")

	errPanic = errors.New("job panicked")
)
