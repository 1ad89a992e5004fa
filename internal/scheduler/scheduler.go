package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/worker"
)

// LogMsgEnqueueFailed is logged when a tick could not hand its job to the pool
const LogMsgEnqueueFailed = "Failed to enqueue scheduled job"

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool *worker.Pool
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New creates a new scheduler. Ticks stop when ctx is cancelled or Stop is called.
func New(ctx context.Context, pool *worker.Pool) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		workerPool: pool,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Schedule registers a job to run at a fixed interval. A tick that finds the
// pool queue full waits for room rather than skipping.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.workerPool.Enqueue(s.ctx, job); err != nil {
					if s.ctx.Err() == nil {
						logger.FromContext(s.ctx).Warn(LogMsgEnqueueFailed, "error", err)
					}
					if errors.Is(err, worker.ErrPoolStopped) {
						return
					}
				}
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
