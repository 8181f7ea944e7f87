package status

import (
	"sync"
	"testing"
)

func TestMetricsCachePointer(t *testing.T) {
	r := NewRegistry()
	a := r.Counters.Get(KeyNetSent)
	b := r.Counters.Get(KeyNetSent)
	if a != b {
		t.Fatal("expected cached pointer")
	}
	a.Add(3)
	if got := r.Counter(KeyNetSent); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestRegistryConcurrentCount(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Count(KeyNetReceived, 1)
				r.SetGauge(KeyScoreTotal, float64(j))
			}
		}()
	}
	wg.Wait()

	if got := r.Counter(KeyNetReceived); got != 800 {
		t.Fatalf("expected 800, got %d", got)
	}
	if got := r.Gauges.Get(KeyScoreTotal).Get(); got != 99 {
		t.Fatalf("expected last gauge 99, got %f", got)
	}
}

func TestNilRegistryIgnoresWrites(t *testing.T) {
	var r *Registry
	r.Count(KeyTicks, 1)
	r.SetGauge(KeyScoreTotal, 1)
	r.SetLabel(KeyRole, "host")
	if r.Counter(KeyTicks) != 0 || r.Lines() != nil {
		t.Fatal("nil registry reported values")
	}
}

func TestRegistryLines(t *testing.T) {
	r := NewRegistry()
	r.SetLabel(KeyRole, "host")
	r.Count(KeyBlocksDestroyed, 2)
	r.Count(KeyDecodeErrors, 1)
	r.SetGauge(KeyScoreTotal, 150)

	lines := r.Lines()
	want := []string{"session.role=host", "block.destroyed=2", "net.decode_errors=1", "score.total=150.0"}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, lines)
		}
	}
}
