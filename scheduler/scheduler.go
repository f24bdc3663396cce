package scheduler

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a task at a fixed interval until stopped
type Scheduler struct {
	interval time.Duration
	task     func(context.Context)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a scheduler for the given task
func New(interval time.Duration, task func(context.Context)) *Scheduler {
	return &Scheduler{
		interval: interval,
		task:     task,
	}
}

// Start begins periodic execution. When runNow is true the task runs once
// before the first tick. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context, runNow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx, runNow)
}

func (s *Scheduler) loop(ctx context.Context, runNow bool) {
	defer s.wg.Done()

	if runNow {
		s.task(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.task(ctx)
		}
	}
}

// Stop cancels the periodic execution and waits for the task goroutine
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running = false
}

// IsRunning reports whether the scheduler is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
