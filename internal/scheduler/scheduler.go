package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/MessageStats_Go/internal/worker"
)

// Enqueuer accepts jobs without blocking.
type Enqueuer interface {
	TryEnqueue(job worker.Job) bool
}

// Scheduler hands jobs to a worker pool at fixed intervals.
type Scheduler struct {
	pool     Enqueuer
	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func New(pool Enqueuer) *Scheduler {
	return &Scheduler{pool: pool, quit: make(chan struct{})}
}

// Schedule runs job every interval until Stop. A tick is dropped when the
// pool queue is full, so a slow flush never queues up behind itself.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.pool.TryEnqueue(job) {
					slog.Debug(LogMsgTickDropped, "interval", interval.String())
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop ends every schedule and waits for the tickers to exit. Jobs already
// handed to the pool are not waited for.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}

// LogMsgTickDropped is logged when the pool queue had no room for a tick.
const LogMsgTickDropped = "Scheduled job skipped, queue full"
