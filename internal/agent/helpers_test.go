package agent

import (
	"context"
	"testing"

	"trendspotter/internal/oracle"
	"trendspotter/internal/trend"
)

// scriptedOracle replays canned responses in call order.
type scriptedOracle struct {
	t         *testing.T
	responses []string
	calls     []oracle.Request
}

func (o *scriptedOracle) Name() string    { return "scripted" }
func (o *scriptedOracle) Available() bool { return true }

func (o *scriptedOracle) Complete(_ context.Context, req oracle.Request) (oracle.Response, error) {
	o.calls = append(o.calls, req)
	if len(o.responses) == 0 {
		o.t.Fatalf("oracle called with no scripted response left; prompt:\n%s", req.UserPrompt)
	}
	next := o.responses[0]
	o.responses = o.responses[1:]
	return oracle.Response{Content: next, Model: "scripted"}, nil
}

// fakeEmbedder returns a fixed vector for any text.
type fakeEmbedder struct {
	vec []float64
}

func (e *fakeEmbedder) Available() bool { return true }

func (e *fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	return e.vec, nil
}

// recordsFunc adapts a function to RecordSource.
type recordsFunc func(ctx context.Context, collection string) ([]trend.Record, error)

func (f recordsFunc) Records(ctx context.Context, collection string) ([]trend.Record, error) {
	return f(ctx, collection)
}

func staticRecords(records []trend.Record) RecordSource {
	return recordsFunc(func(context.Context, string) ([]trend.Record, error) {
		return records, nil
	})
}
