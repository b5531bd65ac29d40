// Package yascheduler runs detached units of work on a fixed pool of worker
// goroutines. A detached job is scheduled without the caller ever waiting on
// its completion: Schedule appends the job to an unbounded FIFO queue and
// returns immediately, workers drain the queue until the scheduler context is
// cancelled.
//
// The primary consumer is yacallback, which uses the scheduler to fire
// callback-query acknowledgments concurrently with the response action that
// triggered them.
package yascheduler

import (
	"context"
	"sync"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yalogger"
)

// Job is a single detached unit of work. The context passed to the job is the
// scheduler's own context, not the context of whoever scheduled it, so a
// cancelled caller never tears down an in-flight job.
type Job func(ctx context.Context)

// Scheduler owns the pending queue and the worker pool.
// The zero value is not valid - use New.
type Scheduler struct {
	cond    sync.Cond
	pending []Job
	stopped bool
	log     yalogger.Logger
}

// New creates a Scheduler and starts workerCount worker goroutines.
// Workers exit when ctx is cancelled; jobs still pending at that point are
// dropped.
//
// Example usage:
//
//	scheduler := yascheduler.New(ctx, 4, log)
//	scheduler.Schedule(func(ctx context.Context) { doWork(ctx) })
func New(ctx context.Context, workerCount uint, log yalogger.Logger) *Scheduler {
	scheduler := &Scheduler{
		cond: *sync.NewCond(&sync.Mutex{}),
		log:  log,
	}

	for i := range workerCount {
		go scheduler.worker(ctx, i)
	}

	go scheduler.watchContext(ctx)

	return scheduler
}

// Schedule enqueues a job for execution. It never blocks the caller: the job
// is appended to the pending queue and picked up by a worker later.
// Jobs scheduled after the scheduler context is cancelled are dropped.
//
// Example usage:
//
//	scheduler.Schedule(func(ctx context.Context) {
//	    if _, err := event.Answer(ctx, opts); err != nil {
//	        log.Errorf("answer failed: %v", err)
//	    }
//	})
func (s *Scheduler) Schedule(job Job) {
	if job == nil {
		return
	}

	s.cond.L.Lock()
	defer s.cond.L.Unlock()

	if s.stopped {
		s.log.Debug("Scheduler stopped, dropping detached job")

		return
	}

	s.pending = append(s.pending, job)

	s.cond.Signal()
}

// Len reports the number of jobs waiting for a worker.
func (s *Scheduler) Len() int {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()

	return len(s.pending)
}

// worker pops jobs from the pending queue and executes them until the
// scheduler is stopped.
func (s *Scheduler) worker(ctx context.Context, id uint) {
	for {
		s.cond.L.Lock()

		for len(s.pending) == 0 && !s.stopped {
			s.cond.Wait()
		}

		if s.stopped {
			s.cond.L.Unlock()

			return
		}

		job := s.pending[0]
		s.pending = s.pending[1:]

		s.cond.L.Unlock()

		s.run(ctx, job, id)
	}
}

// run executes a single job, recovering panics so one bad job cannot kill a
// worker.
func (s *Scheduler) run(ctx context.Context, job Job, id uint) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Recovered panic in detached job on worker %d: %v", id, r)
		}
	}()

	job(ctx)
}

// watchContext wakes all workers up once the scheduler context is cancelled.
func (s *Scheduler) watchContext(ctx context.Context) {
	<-ctx.Done()

	s.cond.L.Lock()
	s.stopped = true
	s.cond.Broadcast()
	s.cond.L.Unlock()
}
