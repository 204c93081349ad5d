package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a job run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Task is the work behind a named job
type Task func(ctx context.Context) error

// Run is one execution of a named job
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Status      JobStatus  `json:"status"`
	Attempts    int        `json:"attempts"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Config holds scheduler configuration
type Config struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

type registration struct {
	name     string
	interval time.Duration
	task     Task
}

// Scheduler runs registered jobs on fixed intervals through a worker pool.
// A job is never run twice concurrently; a tick that finds it still running
// is skipped. Failed runs are retried after RetryDelay up to RetryAttempts.
type Scheduler struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	jobs    map[string]registration
	active  map[string]bool
	last    map[string]Run
	queue   chan string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a scheduler
func New(cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}
	return &Scheduler{
		cfg:    cfg,
		logger: logger.Named("scheduler"),
		jobs:   make(map[string]registration),
		active: make(map[string]bool),
		last:   make(map[string]Run),
	}
}

// Every registers a job that runs once per interval. It must be called before Start.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[name] = registration{name: name, interval: interval, task: task}
}

// Start launches the tickers and the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.queue = make(chan string, len(s.jobs)+s.cfg.MaxConcurrentJobs)
	s.running = true

	for i := 0; i < s.cfg.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	for _, reg := range s.jobs {
		if reg.interval <= 0 {
			continue
		}
		s.wg.Add(1)
		go s.ticker(ctx, reg)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.cfg.MaxConcurrentJobs),
		zap.Strings("jobs", s.namesLocked()),
	)
	return nil
}

// Stop cancels running jobs and waits for the goroutines to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger queues an immediate run of a registered job
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ErrSchedulerNotRunning
	}
	if _, ok := s.jobs[name]; !ok {
		return ErrUnknownJob
	}
	if s.active[name] {
		return ErrJobAlreadyRunning
	}
	return s.enqueueLocked(name)
}

// LastRuns returns the latest run of every job, sorted by name
func (s *Scheduler) LastRuns() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Run, 0, len(s.jobs))
	for _, name := range s.namesLocked() {
		if r, ok := s.last[name]; ok {
			out = append(out, r)
		} else {
			out = append(out, Run{Name: name, Status: JobStatusPending})
		}
	}
	return out
}

func (s *Scheduler) namesLocked() []string {
	names := make([]string, 0, len(s.jobs))
	for n := range s.jobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) enqueueLocked(name string) error {
	select {
	case s.queue <- name:
		s.active[name] = true
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) ticker(ctx context.Context, reg registration) {
	defer s.wg.Done()
	t := time.NewTicker(reg.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.mu.Lock()
			if s.running && !s.active[reg.name] {
				if err := s.enqueueLocked(reg.name); err != nil {
					s.logger.Warn("Skipping scheduled run", zap.String("job", reg.name), zap.Error(err))
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case name := <-s.queue:
			s.run(ctx, name)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, name string) {
	s.mu.Lock()
	reg := s.jobs[name]
	s.mu.Unlock()

	started := time.Now()
	run := Run{ID: uuid.New(), Name: name, Status: JobStatusRunning, StartedAt: &started}
	s.record(run, true)

	var err error
	for attempt := 0; attempt <= s.cfg.RetryAttempts; attempt++ {
		run.Attempts = attempt + 1
		err = s.execute(ctx, reg)
		if err == nil || ctx.Err() != nil {
			break
		}
		s.logger.Warn("Job attempt failed",
			zap.String("job", name),
			zap.Int("attempt", run.Attempts),
			zap.Error(err),
		)
		if attempt == s.cfg.RetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(s.cfg.RetryDelay):
		}
	}

	completed := time.Now()
	run.CompletedAt = &completed
	if err != nil {
		run.Status = JobStatusFailed
		run.Error = err.Error()
		s.logger.Error("Job failed", zap.String("job", name), zap.Int("attempts", run.Attempts), zap.Error(err))
	} else {
		run.Status = JobStatusSuccess
		s.logger.Info("Job completed", zap.String("job", name), zap.Duration("duration", completed.Sub(started)))
	}
	s.record(run, false)
}

func (s *Scheduler) execute(ctx context.Context, reg registration) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Job panicked", zap.String("job", reg.name), zap.Any("panic", r))
			err = errPanic
		}
	}()
	return reg.task(ctx)
}

func (s *Scheduler) record(run Run, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[run.Name] = run
	s.active[run.Name] = active
}
