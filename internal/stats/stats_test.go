package stats

import (
	"testing"
	"time"
)

func TestQuantileInterpolates(t *testing.T) {
	values := []float64{500, 100, 300, 200, 400}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 100},
		{0.5, 300},
		{0.95, 480},
		{0.99, 496},
		{1, 500},
	}
	for _, tt := range tests {
		if got := Quantile(values, tt.q); got != tt.want {
			t.Errorf("Quantile(%v) = %v, want %v", tt.q, got, tt.want)
		}
	}
	if values[0] != 500 {
		t.Fatal("input slice was reordered")
	}
}

func TestQuantileEdgeCases(t *testing.T) {
	if got := Quantile(nil, 0.5); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
	if got := Quantile([]float64{7}, 0.94); got != 7 {
		t.Fatalf("expected 7 for single value, got %v", got)
	}
}

func TestWindowSnapshot(t *testing.T) {
	w := NewWindow(time.Hour)
	for i := 1; i <= 5; i++ {
		w.Record(time.Duration(i*100)*time.Millisecond, i*2)
	}

	snap := w.Snapshot()
	if snap.Documents != 5 {
		t.Fatalf("expected documents=5, got %d", snap.Documents)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.AvgChunks != 6 {
		t.Fatalf("expected avg chunks=6, got %f", snap.AvgChunks)
	}
}

func TestWindowPrunesExpiredSamples(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	w := NewWindow(time.Minute)
	w.now = func() time.Time { return now }

	w.Record(100*time.Millisecond, 1)
	now = now.Add(2 * time.Minute)

	if snap := w.Snapshot(); snap.Documents != 0 {
		t.Fatalf("expected documents=0 after prune, got %d", snap.Documents)
	}

	w.Record(200*time.Millisecond, 1)
	snap := w.Snapshot()
	if snap.Documents != 1 || snap.MinMs != 200 {
		t.Fatalf("expected one fresh sample of 200ms, got %+v", snap)
	}
}

func TestWindowClampsNegative(t *testing.T) {
	w := NewWindow(0)
	w.Record(-time.Second, -3)
	snap := w.Snapshot()
	if snap.Documents != 1 || snap.MaxMs != 0 || snap.AvgChunks != 0 {
		t.Fatalf("expected clamped sample, got %+v", snap)
	}
}
