package agent

import (
	"context"
	"strings"
	"testing"

	"trendspotter/internal/trend"
)

func rankedABC() trend.RankedList {
	return trend.RankedList{
		{Texts: []string{"A"}, Likes: 700, Count: 1, Trendiness: 900},
		{Texts: []string{"B"}, Likes: 400, Count: 1, Trendiness: 600},
		{Texts: []string{"C"}, Likes: 100, Count: 1, Trendiness: 300},
	}
}

func TestSelectSlice(t *testing.T) {
	ranked := rankedABC()

	tests := []struct {
		name   string
		intent Intent
		want   []string
		ok     bool
	}{
		{"most trendy", Intent{Kind: IntentSingle}, []string{"A"}, true},
		{"top 2", Intent{Kind: IntentTopN, N: 2}, []string{"A", "B"}, true},
		{"top 10 never pads", Intent{Kind: IntentTopN, N: 10}, []string{"A", "B", "C"}, true},
		{"rank 2", Intent{Kind: IntentRank, N: 2}, []string{"B"}, true},
		{"rank 5 out of range", Intent{Kind: IntentRank, N: 5}, nil, false},
		{"unknown intent", Intent{Kind: IntentUnknown}, nil, false},
		{"top 0", Intent{Kind: IntentTopN, N: 0}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectSlice(ranked, tt.intent)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i, text := range tt.want {
				if got[i].Texts[0] != text {
					t.Errorf("entry %d = %q, want %q", i, got[i].Texts[0], text)
				}
			}
		})
	}
}

func TestSelectSlice_EmptyList(t *testing.T) {
	if _, ok := SelectSlice(nil, Intent{Kind: IntentSingle}); ok {
		t.Error("empty list must never select a slice")
	}
}

func TestCompose_OnlySliceReachesPrompt(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{
		`{"kind": "top_n", "n": 2}`,
		"A and B are the big ones right now.",
	}}
	c := NewComposer(o, 25)

	answer, err := c.Compose(context.Background(), "User: top 2 trends in tokyo", "top 2 trends in tokyo", rankedABC())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if answer != "A and B are the big ones right now." {
		t.Errorf("answer = %q", answer)
	}

	// The phrasing prompt is the second call and must carry only A and B.
	prompt := o.calls[1].UserPrompt
	if !strings.Contains(prompt, `"A"`) || !strings.Contains(prompt, `"B"`) {
		t.Errorf("prompt missing selected entries:\n%s", prompt)
	}
	if strings.Contains(prompt, `"C"`) {
		t.Errorf("prompt leaked entry outside the slice:\n%s", prompt)
	}
}

func TestCompose_RankOutOfRange(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{`{"kind": "rank", "n": 5}`}}
	c := NewComposer(o, 25)

	answer, err := c.Compose(context.Background(), "", "what's the 5th?", rankedABC())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if answer != AnswerUnknown {
		t.Errorf("answer = %q, want %q", answer, AnswerUnknown)
	}
	if len(o.calls) != 1 {
		t.Errorf("oracle called %d times; phrasing must not run for an empty slice", len(o.calls))
	}
}

func TestCompose_EmptyRankedList(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{`{"kind": "single"}`}}
	c := NewComposer(o, 25)

	answer, err := c.Compose(context.Background(), "", "what's trending?", nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if answer != AnswerUnknown {
		t.Errorf("answer = %q, want %q", answer, AnswerUnknown)
	}
}

func TestCompose_UnparseableIntentFallsBack(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{"sure, here you go!"}}
	c := NewComposer(o, 25)

	answer, err := c.Compose(context.Background(), "", "hmm", rankedABC())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if answer != AnswerUnknown {
		t.Errorf("answer = %q, want %q", answer, AnswerUnknown)
	}
}

func TestDeriveIntent_FencedJSON(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{"```json\n{\"kind\": \"rank\", \"n\": 3}\n```"}}
	c := NewComposer(o, 25)

	intent := c.DeriveIntent(context.Background(), "", "third best?")
	if intent.Kind != IntentRank || intent.N != 3 {
		t.Errorf("intent = %+v, want rank 3", intent)
	}
}
