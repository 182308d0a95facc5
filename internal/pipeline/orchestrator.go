package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/stylechunk/internal/config"
	"github.com/dgallion1/stylechunk/internal/pathstore"
	"github.com/dgallion1/stylechunk/internal/stats"
)

// Orchestrator manages the asynchronous chunking pipeline.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	proc   *Processor
	sink   *pathstore.Sink
	window *stats.Window
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. sink may be nil when no pathstore
// is configured.
func NewOrchestrator(cfg config.Config, proc *Processor, sink *pathstore.Sink, window *stats.Window, log *slog.Logger) *Orchestrator {
	if window == nil {
		window = stats.NewWindow(time.Hour)
	}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		proc:   proc,
		sink:   sink,
		window: window,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.proc, o.sink, o.window, o.log, o.cfg.MaxConcurrentStore)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Processor returns the shared processor for synchronous API calls.
func (o *Orchestrator) Processor() *Processor {
	return o.proc
}

// Sink returns the pathstore sink, or nil when storage is disabled.
func (o *Orchestrator) Sink() *pathstore.Sink {
	return o.sink
}

// Stats returns the latency window.
func (o *Orchestrator) Stats() *stats.Window {
	return o.window
}
