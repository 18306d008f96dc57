package agent

import (
	"context"
	"testing"

	"trendspotter/internal/session"
	"trendspotter/internal/trend"
	"trendspotter/internal/websearch"
)

// fakeSearcher returns canned web results.
type fakeSearcher struct {
	results []websearch.Result
	queries []string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]websearch.Result, error) {
	s.queries = append(s.queries, query)
	return s.results, nil
}

// memLog records appended conversation turns.
type memLog struct {
	entries []string
}

func (l *memLog) AppendTurn(sessionID, role, content string) error {
	l.entries = append(l.entries, sessionID+"/"+role+": "+content)
	return nil
}

func newTestOrchestrator(o *scriptedOracle, records []trend.Record, searcher websearch.Searcher, log ConversationLog) *Orchestrator {
	pipeline := NewTrendPipeline(
		NewClarifier(o),
		&fakeEmbedder{vec: []float64{1, 0}},
		NewRelevanceFilter(staticRecords(records), o, "trends", 0.6),
		NewDeduplicator(o),
		NewComposer(o, 25),
	)
	return NewOrchestrator(o, pipeline, NewPopularityComposer(o), NewGeneralAgent(o, searcher), log)
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		label string
		want  Role
	}{
		{"TrendAgent", RoleTrend},
		{"PopularityAgent", RolePopularity},
		{"GeneralAgent", RoleGeneral},
		{"  TrendAgent\n", RoleTrend},
		{"Unknown", RoleUnknown},
		{"trendagent", RoleUnknown},
		{"Sure, I'd pick TrendAgent!", RoleUnknown},
		{"", RoleUnknown},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.label); got != tc.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestOrchestrator_UnknownRoleFallsBack(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{"Unknown"}}
	orch := newTestOrchestrator(o, nil, &fakeSearcher{}, nil)
	sess := session.NewManager().Get("s1")

	reply := orch.Handle(context.Background(), sess, "what is the meaning of life")
	if reply != AnswerCannotHelp {
		t.Errorf("reply = %q, want %q", reply, AnswerCannotHelp)
	}
	// No sub-agent runs for an unknown role: classification is the only call.
	if len(o.calls) != 1 {
		t.Errorf("oracle called %d times, want 1", len(o.calls))
	}

	history := sess.History()
	if len(history) != 2 {
		t.Fatalf("history has %d turns, want 2", len(history))
	}
	if history[1].Role != session.RoleAssistant || history[1].Content != AnswerCannotHelp {
		t.Errorf("assistant turn = %+v", history[1])
	}
}

func TestOrchestrator_PopularityBeforeAnyTrendQuery(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{"PopularityAgent"}}
	orch := newTestOrchestrator(o, nil, &fakeSearcher{}, nil)
	sess := session.NewManager().Get("s1")

	reply := orch.Handle(context.Background(), sess, "how many likes did it get?")
	if reply != AnswerPopularityUnavailable {
		t.Errorf("reply = %q, want %q", reply, AnswerPopularityUnavailable)
	}
	if len(o.calls) != 1 {
		t.Errorf("oracle called %d times, want classification only", len(o.calls))
	}
}

func TestOrchestrator_TrendFlowThenPopularity(t *testing.T) {
	records := []trend.Record{
		{Text: "Blue Bottle pop-up downtown", Popularity: 300, Embedding: []float64{1, 0}},
		{Text: "blue bottle popup is packed", Popularity: 100, Embedding: []float64{0.95, 0.05}},
	}
	o := &scriptedOracle{t: t, responses: []string{
		// Turn 1: full retrieval cycle.
		"TrendAgent",
		`{"complete": true}`,
		`[{"text": "Blue Bottle pop-up downtown", "likes": 300}, {"text": "blue bottle popup is packed", "likes": 100}]`,
		`[{"text": ["Blue Bottle pop-up downtown", "blue bottle popup is packed"], "likes": 400, "count": 2}]`,
		`{"kind": "single"}`,
		"The Blue Bottle pop-up downtown is the big one right now.",
		// Turn 2: popularity from the cached list, no retrieval.
		"PopularityAgent",
		"Blue Bottle pop-up got 400 likes and 2 people tweeted about it.",
	}}
	log := &memLog{}
	orch := newTestOrchestrator(o, records, &fakeSearcher{}, log)
	sess := session.NewManager().Get("s1")

	reply := orch.Handle(context.Background(), sess, "what's trending in coffee downtown?")
	if reply != "The Blue Bottle pop-up downtown is the big one right now." {
		t.Fatalf("trend reply = %q", reply)
	}

	ranked, ok := sess.Ranked()
	if !ok {
		t.Fatal("completed cycle did not cache a ranked list")
	}
	if len(ranked) != 1 || ranked[0].Trendiness != 400+2*200 {
		t.Errorf("cached list = %+v", ranked)
	}

	reply = orch.Handle(context.Background(), sess, "how many likes?")
	if reply != "Blue Bottle pop-up got 400 likes and 2 people tweeted about it." {
		t.Errorf("popularity reply = %q", reply)
	}
	if len(o.responses) != 0 {
		t.Errorf("%d scripted responses unused", len(o.responses))
	}

	// Both turns of both exchanges were persisted in order.
	if len(log.entries) != 4 {
		t.Errorf("conversation log has %d entries, want 4", len(log.entries))
	}
}

func TestOrchestrator_ClarificationDoesNotCache(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{
		"TrendAgent",
		`{"complete": false, "question": "Which city are you asking about?"}`,
	}}
	orch := newTestOrchestrator(o, nil, &fakeSearcher{}, nil)
	sess := session.NewManager().Get("s1")

	reply := orch.Handle(context.Background(), sess, "what's trending?")
	if reply != "Which city are you asking about?" {
		t.Errorf("reply = %q", reply)
	}
	if _, ok := sess.Ranked(); ok {
		t.Error("clarification turn cached a ranked list")
	}
}

func TestOrchestrator_EmptyCandidatesCachesEmptyList(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{
		"TrendAgent",
		`{"complete": true}`,
	}}
	// No stored records: the prefilter finds nothing and the pipeline
	// short-circuits before any further oracle call.
	orch := newTestOrchestrator(o, nil, &fakeSearcher{}, nil)
	sess := session.NewManager().Get("s1")

	reply := orch.Handle(context.Background(), sess, "trending bars in Oslo?")
	if reply != AnswerUnknown {
		t.Errorf("reply = %q, want %q", reply, AnswerUnknown)
	}

	ranked, ok := sess.Ranked()
	if !ok {
		t.Fatal("empty cycle result was not cached")
	}
	if len(ranked) != 0 {
		t.Errorf("cached list = %+v, want empty", ranked)
	}
}

func TestOrchestrator_PipelineFailureKeepsSessionConsistent(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{
		"TrendAgent",
		"I think you should tell me a city first.", // unparseable slot check
	}}
	orch := newTestOrchestrator(o, nil, &fakeSearcher{}, nil)
	sess := session.NewManager().Get("s1")

	reply := orch.Handle(context.Background(), sess, "what's trending?")
	if reply != AnswerTurnFailed {
		t.Errorf("reply = %q, want %q", reply, AnswerTurnFailed)
	}
	if _, ok := sess.Ranked(); ok {
		t.Error("failed turn cached a ranked list")
	}

	// The failed turn is still a complete exchange in the history.
	history := sess.History()
	if len(history) != 2 {
		t.Fatalf("history has %d turns, want 2", len(history))
	}
	if history[1].Content != AnswerTurnFailed {
		t.Errorf("assistant turn = %q", history[1].Content)
	}
}

func TestOrchestrator_GeneralFlowUsesWebContext(t *testing.T) {
	searcher := &fakeSearcher{results: []websearch.Result{
		{Title: "Blue Bottle downtown", Snippet: "Open 7am to 5pm on Main St.", URL: "https://example.com"},
	}}
	o := &scriptedOracle{t: t, responses: []string{
		"GeneralAgent",
		"Blue Bottle", // entity extraction
		"The downtown Blue Bottle is at Main St, open 7am to 5pm.",
	}}
	orch := newTestOrchestrator(o, nil, searcher, nil)
	sess := session.NewManager().Get("s1")

	reply := orch.Handle(context.Background(), sess, "what are its opening hours?")
	if reply != "The downtown Blue Bottle is at Main St, open 7am to 5pm." {
		t.Errorf("reply = %q", reply)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "Blue Bottle what are its opening hours?" {
		t.Errorf("search queries = %q", searcher.queries)
	}
}

func TestOrchestrator_SessionIsolation(t *testing.T) {
	records := []trend.Record{
		{Text: "night market on the pier", Popularity: 500, Embedding: []float64{1, 0}},
	}
	o := &scriptedOracle{t: t, responses: []string{
		"TrendAgent",
		`{"complete": true}`,
		`[{"text": "night market on the pier", "likes": 500}]`,
		`[{"text": ["night market on the pier"], "likes": 500, "count": 1}]`,
		`{"kind": "single"}`,
		"The night market on the pier is the place to be.",
	}}
	orch := newTestOrchestrator(o, records, &fakeSearcher{}, nil)
	manager := session.NewManager()
	a := manager.Get("a")
	b := manager.Get("b")

	orch.Handle(context.Background(), a, "trending events by the pier?")

	if _, ok := a.Ranked(); !ok {
		t.Error("session a is missing its ranked list")
	}
	if _, ok := b.Ranked(); ok {
		t.Error("session a's ranked list leaked into session b")
	}
	if len(b.History()) != 0 {
		t.Errorf("session b has %d turns, want 0", len(b.History()))
	}
}
