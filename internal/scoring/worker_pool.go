package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/jexpert/profile-enrichment/pkg/logger"
)

// DefaultPollInterval is how often the pool checks the repository for
// newly-pending jobs when its queue channel is empty.
const DefaultPollInterval = 5 * time.Second

// WorkerPool runs a small fixed-size pool of goroutines draining a
// buffered channel of job ids, the plain sync.WaitGroup + buffered-channel
// idiom used elsewhere in the pack for bootstrap fan-out (no goroutine-pool
// library precedent exists in the corpus to import instead).
type WorkerPool struct {
	engine   *Engine
	size     int
	queue    chan string
	wg       sync.WaitGroup
}

func NewWorkerPool(engine *Engine, size int) *WorkerPool {
	if size <= 0 {
		size = 4
	}
	return &WorkerPool{
		engine: engine,
		size:   size,
		queue:  make(chan string, 256),
	}
}

// Enqueue submits a job id for background processing. Non-blocking; if
// the queue is full the id is dropped and will be picked up by the next
// poll cycle instead.
func (p *WorkerPool) Enqueue(jobID string) {
	select {
	case p.queue <- jobID:
	default:
		logger.Log.Warn("scoring worker pool queue full, relying on poll to pick up job", "job_id", jobID)
	}
}

// Run starts the worker goroutines and a poll loop that feeds any pending
// jobs the queue missed (e.g. jobs enqueued before the pool started, or
// dropped due to a full queue). Blocks until done is closed.
func (p *WorkerPool) Run(ctx context.Context, jobs interface {
	ListPending(ctx context.Context, limit int) ([]string, error)
}, done <-chan struct{}) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	ticker := time.NewTicker(DefaultPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ids, err := jobs.ListPending(ctx, p.size*2)
			if err != nil {
				logger.Log.Error("poll for pending scoring jobs failed", "error", err)
				continue
			}
			for _, id := range ids {
				p.Enqueue(id)
			}
		case <-done:
			close(p.queue)
			p.wg.Wait()
			return
		}
	}
}

func (p *WorkerPool) worker(ctx context.Context) {
	defer p.wg.Done()
	for jobID := range p.queue {
		claimed, err := p.engine.Process(ctx, jobID)
		if err != nil {
			logger.Log.Error("scoring job processing failed", "job_id", jobID, "error", err)
			continue
		}
		if !claimed {
			logger.Log.Debug("scoring job already claimed by another worker", "job_id", jobID)
		}
	}
}
