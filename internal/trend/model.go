// Package trend defines the domain types that flow through the retrieval
// pipeline, plus the deterministic trendiness scoring and ranking over them.
package trend

// Record is a stored trend observation, as shaped by the ingest pipeline.
// The store exposes these read-only to the retrieval pipeline.
type Record struct {
	Text       string    `json:"text"`
	Location   string    `json:"location"`
	Popularity int       `json:"popularity"`
	Embedding  []float64 `json:"embedding"`
	Keywords   []string  `json:"keywords"`
}

// Candidate is a Record reduced to the fields the pipeline needs after the
// similarity prefilter.
type Candidate struct {
	Text  string `json:"text"`
	Likes int    `json:"likes"`
}

// Canonical is a deduplicated trend: all source texts believed to refer to
// the same real-world thing, merged. Trendiness is only meaningful once
// Rank has run over a deduplicated set.
type Canonical struct {
	Texts      []string `json:"text"`
	Likes      int      `json:"likes"`
	Count      int      `json:"count"`
	Trendiness int      `json:"trendiness"`
}

// RankedList is an ordered sequence of canonical trends, strictly descending
// by trendiness. A fresh list is built per retrieval cycle; it is never
// mutated in place.
type RankedList []Canonical

// Top returns the highest-ranked entry and true, or a zero value and false
// for an empty list.
func (l RankedList) Top() (Canonical, bool) {
	if len(l) == 0 {
		return Canonical{}, false
	}
	return l[0], true
}

// TopN returns at most n leading entries in rank order, never padding.
func (l RankedList) TopN(n int) RankedList {
	if n > len(l) {
		n = len(l)
	}
	if n < 0 {
		n = 0
	}
	return l[:n]
}

// At returns the entry at 1-based rank k, or false if k is out of range.
func (l RankedList) At(k int) (Canonical, bool) {
	if k < 1 || k > len(l) {
		return Canonical{}, false
	}
	return l[k-1], true
}
