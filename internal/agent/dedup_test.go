package agent

import (
	"context"
	"errors"
	"testing"

	"trendspotter/internal/trend"
)

func TestDeduplicator_MergesDuplicates(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{
		"```json\n" +
			`[
  {"text": ["Sunny Cafe opened on 5th", "sunny cafe queue!!"], "likes": 200, "count": 2},
  {"text": ["new mural downtown"], "likes": 40, "count": 1}
]` + "\n```",
	}}
	d := NewDeduplicator(o)

	got, err := d.Deduplicate(context.Background(), []trend.Candidate{
		{Text: "Sunny Cafe opened on 5th", Likes: 120},
		{Text: "sunny cafe queue!!", Likes: 80},
		{Text: "new mural downtown", Likes: 40},
	})
	if err != nil {
		t.Fatalf("Deduplicate failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d canonical trends, want 2", len(got))
	}
	if got[0].Likes != 200 || got[0].Count != 2 {
		t.Errorf("merged entry = %+v, want likes 200 count 2", got[0])
	}
	if len(got[0].Texts) != 2 {
		t.Errorf("merged entry has %d source texts, want 2", len(got[0].Texts))
	}
	if got[1].Count != 1 {
		t.Errorf("singleton count = %d, want 1", got[1].Count)
	}
}

func TestDeduplicator_AlreadyDistinctPassesThrough(t *testing.T) {
	// A second pass over an already-deduplicated set yields the same set:
	// every group is a singleton carrying its likes through unchanged.
	o := &scriptedOracle{t: t, responses: []string{
		`[
  {"text": ["Sunny Cafe opened on 5th"], "likes": 200, "count": 2},
  {"text": ["new mural downtown"], "likes": 40, "count": 1}
]`,
	}}
	d := NewDeduplicator(o)

	got, err := d.Deduplicate(context.Background(), []trend.Candidate{
		{Text: "Sunny Cafe opened on 5th", Likes: 200},
		{Text: "new mural downtown", Likes: 40},
	})
	if err != nil {
		t.Fatalf("Deduplicate failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d canonical trends, want 2", len(got))
	}
	for i, want := range []int{200, 40} {
		if got[i].Likes != want {
			t.Errorf("trend %d likes = %d, want %d", i, got[i].Likes, want)
		}
	}
}

func TestDeduplicator_EmptyInputSkipsOracle(t *testing.T) {
	o := &scriptedOracle{t: t}
	d := NewDeduplicator(o)

	got, err := d.Deduplicate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Deduplicate failed: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
	if len(o.calls) != 0 {
		t.Errorf("oracle called %d times on empty input", len(o.calls))
	}
}

func TestDeduplicator_RejectsScalarText(t *testing.T) {
	// The original data shape before merging: text as a plain string. The
	// schema must reject it rather than silently decoding a zero value.
	o := &scriptedOracle{t: t, responses: []string{
		`[{"text": "new mural downtown", "likes": 40, "count": 1}]`,
	}}
	d := NewDeduplicator(o)

	_, err := d.Deduplicate(context.Background(), []trend.Candidate{
		{Text: "new mural downtown", Likes: 40},
	})
	if !errors.Is(err, ErrDedupParse) {
		t.Errorf("err = %v, want ErrDedupParse", err)
	}
}

func TestDeduplicator_RejectsZeroCount(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{
		`[{"text": ["new mural downtown"], "likes": 40, "count": 0}]`,
	}}
	d := NewDeduplicator(o)

	_, err := d.Deduplicate(context.Background(), []trend.Candidate{
		{Text: "new mural downtown", Likes: 40},
	})
	if !errors.Is(err, ErrDedupParse) {
		t.Errorf("err = %v, want ErrDedupParse", err)
	}
}

func TestDeduplicator_ProseResponseIsError(t *testing.T) {
	o := &scriptedOracle{t: t, responses: []string{
		"I merged the two cafe tweets for you.",
	}}
	d := NewDeduplicator(o)

	_, err := d.Deduplicate(context.Background(), []trend.Candidate{
		{Text: "a", Likes: 1},
	})
	if !errors.Is(err, ErrDedupParse) {
		t.Errorf("err = %v, want ErrDedupParse", err)
	}
}
