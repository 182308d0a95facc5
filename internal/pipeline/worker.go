package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/stylechunk/internal/pathstore"
	"github.com/dgallion1/stylechunk/internal/stats"
	"github.com/dgallion1/stylechunk/internal/styled"
)

// Worker processes a single document job.
type Worker struct {
	proc   *Processor
	sink   *pathstore.Sink
	window *stats.Window
	log    *slog.Logger

	maxConcurrentStore int
	backoff            func(int) time.Duration
}

// NewWorker creates a worker. sink and window may be nil.
func NewWorker(proc *Processor, sink *pathstore.Sink, window *stats.Window, log *slog.Logger, maxStore int) *Worker {
	if maxStore <= 0 {
		maxStore = 1
	}
	return &Worker{
		proc:               proc,
		sink:               sink,
		window:             window,
		log:                log,
		maxConcurrentStore: maxStore,
		backoff:            Backoff,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "doc", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := w.proc.Parse(job.Filename, job.FileData())
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.mu.Lock()
	job.Title = doc.Title
	job.ContentHash = DocumentHash(doc)
	job.mu.Unlock()

	// Phase 1.5: Dedup check
	if w.sink != nil && !job.Options.Force {
		existing, found, err := w.sink.FindByHash(ctx, job.ContentHash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if found {
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	res, err := w.proc.Chunk(doc, job.Options.Chunk)
	if err != nil {
		log.Error("chunking failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	job.SetChunking(len(res.Chunks), res.Boundaries(), res.Cutoff)
	log.Info("chunked document", "tokens", len(res.Tokens), "chunks", len(res.Chunks), "cutoff", res.Cutoff)

	out := &Output{Document: doc, ContentHash: job.ContentHash, Result: res}

	// Phase 3: Versions
	if job.Options.Versions {
		job.SetStatus(StatusReconstructing, "reconstructing")
		r, err := w.proc.Versions(res, job.Options.Scoped)
		if err != nil {
			log.Error("reconstruction failed", "error", err)
			job.AddError(err.Error())
			job.SetOutput(out)
			job.SetStatus(StatusFailed, "reconstructing")
			return
		}
		out.Readings = &r
	}
	job.SetOutput(out)

	if w.window != nil {
		w.window.Record(time.Since(start), len(res.Chunks))
	}

	if w.sink == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 4: Store chunks.
	job.SetStatus(StatusStoring, "storing")
	stored, failed := w.storeChunks(ctx, log, job, res.Chunks)

	meta := pathstore.DocumentMeta{
		DocID:       job.DocID,
		Filename:    job.Filename,
		Title:       doc.Title,
		ContentHash: job.ContentHash,
		Chunks:      stored,
		Cutoff:      res.Cutoff,
		CreatedAt:   job.CreatedAt,
	}
	if err := withRetry(ctx, log, w.backoff, "meta", func() error { return w.sink.PutMeta(ctx, meta) }); err != nil {
		log.Error("meta write failed", "error", err)
		job.AddError(fmt.Sprintf("meta: %s", err))
		failed++
	}
	if err := w.sink.PutHashIndex(ctx, job.ContentHash, job.DocID, job.Filename); err != nil {
		log.Error("hash index write failed", "error", err)
	}

	log.Info("storage complete", "stored", stored, "total", len(res.Chunks))
	switch {
	case failed > 0 && stored > 0:
		job.SetStatus(StatusPartial, "done")
	case failed > 0:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// storeChunks writes chunks with bounded concurrency, then links each
// stored chunk to its successor. It returns the stored and failed counts.
func (w *Worker) storeChunks(ctx context.Context, log *slog.Logger, job *Job, chunks []styled.Chunk) (int, int) {
	keys := make([]string, len(chunks))
	errs := make([]error, len(chunks))
	sem := make(chan struct{}, w.maxConcurrentStore)
	var wg sync.WaitGroup

	for i, c := range chunks {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, c styled.Chunk) {
			defer func() {
				<-sem
				wg.Done()
			}()
			rec := pathstore.ChunkRecord{
				Index:   i,
				ChunkID: c.ID,
				Text:    c.Text(),
				Words:   c.Words(),
				Chars:   c.Chars(),
			}
			errs[i] = withRetry(ctx, log, w.backoff, fmt.Sprintf("chunk %d", i), func() error {
				key, err := w.sink.PutChunk(ctx, job.DocID, rec)
				keys[i] = key
				return err
			})
		}(i, c)
	}
	wg.Wait()

	stored, failed := 0, 0
	for i, err := range errs {
		if err != nil {
			log.Error("store failed", "chunk", i, "error", err)
			job.AddError(fmt.Sprintf("chunk %d: %s", i, err))
			failed++
			continue
		}
		stored++
		job.IncrChunksStored()
	}

	for i := 0; i+1 < len(chunks); i++ {
		if errs[i] != nil || errs[i+1] != nil {
			continue
		}
		if err := w.sink.LinkNext(ctx, keys[i], keys[i+1]); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Warn("link write failed", "from", keys[i], "error", err)
		}
	}
	return stored, failed
}
