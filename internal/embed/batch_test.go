package embed

import (
	"context"
	"errors"
	"testing"
)

// seqEmbedder returns a distinct vector per call and can fail at a chosen
// call index.
type seqEmbedder struct {
	calls  int
	failAt int // 1-based; 0 means never
}

func (e *seqEmbedder) Available() bool { return true }

func (e *seqEmbedder) Embed(context.Context, string) ([]float64, error) {
	e.calls++
	if e.failAt != 0 && e.calls == e.failAt {
		return nil, errors.New("quota exceeded")
	}
	return []float64{float64(e.calls)}, nil
}

func TestEmbedAll(t *testing.T) {
	inner := &seqEmbedder{}
	// Effectively unlimited for the test; the limiter still sits in the path.
	e := NewRateLimited(inner, 60_000_000)

	vecs, err := e.EmbedAll(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedAll failed: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, vec := range vecs {
		if len(vec) != 1 || vec[0] != float64(i+1) {
			t.Errorf("vector %d = %v, order not preserved", i, vec)
		}
	}
}

func TestEmbedAllStopsOnError(t *testing.T) {
	inner := &seqEmbedder{failAt: 2}
	e := NewRateLimited(inner, 60_000_000)

	_, err := e.EmbedAll(context.Background(), []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("EmbedAll should surface the inner error")
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2 (stop at first failure)", inner.calls)
	}
}

func TestEmbedCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &seqEmbedder{}
	// One request per minute: the second wait cannot be satisfied, and a
	// cancelled context must not even start the first.
	e := NewRateLimited(inner, 1)

	if _, err := e.Embed(ctx, "a"); err == nil {
		t.Fatal("cancelled context must fail the wait")
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times under a cancelled context", inner.calls)
	}
}
