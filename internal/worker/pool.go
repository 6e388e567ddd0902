package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/MessageStats_Go/internal/logger"
)

// Job is a unit of background work, such as a periodic store flush.
type Job interface {
	Process(ctx context.Context) error
}

// Named jobs report a name in pool log records.
type Named interface {
	Name() string
}

// Pool runs queued jobs on a fixed number of goroutines. A job that panics
// is logged and does not take its worker down.
type Pool struct {
	workers int
	queue   chan Job
	wg      sync.WaitGroup
	quit    chan struct{}
	once    sync.Once
}

// NewPool creates a pool; call Start before enqueuing from other goroutines.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		queue:   make(chan Job, queueSize),
		quit:    make(chan struct{}),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.loop()
	}
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.queue:
			p.run(job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(job Job) {
	ctx := logger.WithNewRequestID(context.Background())
	log := logger.FromContext(ctx).With(AttrKeyJob, jobName(job))
	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgWorkerJobPanicked, "panic", r)
		}
	}()
	if err := job.Process(ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "error", err)
	}
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", job)
}

// Enqueue adds a job, blocking while the queue is full.
func (p *Pool) Enqueue(job Job) {
	p.queue <- job
}

// TryEnqueue adds a job without blocking and reports whether it was queued.
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case p.queue <- job:
		return true
	default:
		return false
	}
}

// Stop waits for running jobs and discards queued ones. It is safe to call twice.
func (p *Pool) Stop() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
