package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a function run every Interval. Aligned jobs wait for the next
// multiple of Interval (in UTC) instead of firing at registration.
type Job struct {
	Name     string
	Interval time.Duration
	Aligned  bool
	Fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs until its parent context ends or Stop is called.
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	now    func() time.Time
}

func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

// AddJob registers fn to run at start and then every interval.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.add(Job{Name: name, Interval: interval, Fn: fn})
}

// AddAlignedJob registers fn to run on interval boundaries, e.g. at the top
// of every hour for interval=time.Hour.
func (s *Scheduler) AddAlignedJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.add(Job{Name: name, Interval: interval, Aligned: true, Fn: fn})
}

func (s *Scheduler) add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	slog.Info("cron job registered", "name", job.Name, "interval", job.Interval, "aligned", job.Aligned)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(job)
	}
	slog.Info("cron scheduler started", "jobs", len(s.jobs))
}

// Stop cancels running loops and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("cron scheduler stopped")
}

func (s *Scheduler) loop(job Job) {
	defer s.wg.Done()

	if !job.Aligned {
		s.execute(s.ctx, job)
	}

	timer := time.NewTimer(s.untilNext(job))
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-timer.C:
			s.execute(s.ctx, job)
			timer.Reset(s.untilNext(job))
		}
	}
}

func (s *Scheduler) untilNext(job Job) time.Duration {
	if !job.Aligned {
		return job.Interval
	}
	return nextBoundary(s.now(), job.Interval).Sub(s.now())
}

// nextBoundary returns the first multiple of interval since the Unix epoch
// strictly after t.
func nextBoundary(t time.Time, interval time.Duration) time.Time {
	next := t.UTC().Truncate(interval).Add(interval)
	if !next.After(t) {
		next = next.Add(interval)
	}
	return next
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		slog.Error("cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("cron job completed", "name", job.Name, "duration", time.Since(start))
}

// RunOnce runs every registered job synchronously.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.execute(ctx, job)
	}
}
