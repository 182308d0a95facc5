package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
	chunks   int
}

// Snapshot aggregates the samples currently inside the window.
type Snapshot struct {
	Documents int     `json:"documents"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
	AvgChunks float64 `json:"avg_chunks"`
}

// Window keeps document processing samples younger than maxAge.
type Window struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewWindow(maxAge time.Duration) *Window {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Window{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one processed document. Negative values are clamped to 0.
func (w *Window) Record(d time.Duration, chunks int) {
	if d < 0 {
		d = 0
	}
	if chunks < 0 {
		chunks = 0
	}
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
	w.samples = append(w.samples, sample{at: now, duration: d, chunks: chunks})
}

func (w *Window) Snapshot() Snapshot {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
	if len(w.samples) == 0 {
		return Snapshot{}
	}

	ms := make([]float64, len(w.samples))
	var sum float64
	var chunks int
	for i, s := range w.samples {
		ms[i] = float64(s.duration.Milliseconds())
		sum += ms[i]
		chunks += s.chunks
	}
	n := float64(len(ms))
	sorted := append([]float64(nil), ms...)
	sort.Float64s(sorted)

	return Snapshot{
		Documents: len(ms),
		MinMs:     int64(sorted[0]),
		MaxMs:     int64(sorted[len(sorted)-1]),
		AvgMs:     sum / n,
		P50Ms:     quantileSorted(sorted, 0.50),
		P95Ms:     quantileSorted(sorted, 0.95),
		P99Ms:     quantileSorted(sorted, 0.99),
		AvgChunks: float64(chunks) / n,
	}
}

func (w *Window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.maxAge)
	keep := 0
	for _, s := range w.samples {
		if !s.at.Before(cutoff) {
			w.samples[keep] = s
			keep++
		}
	}
	w.samples = w.samples[:keep]
}
