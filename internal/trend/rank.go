package trend

import "sort"

// countWeight is how much heavier an independent mention weighs than a
// single like. Many people mentioning a thing separately is a far stronger
// trend signal than one viral post collecting likes.
const countWeight = 200

// Trendiness computes the deterministic popularity score for a merged trend.
func Trendiness(likes, count int) int {
	return likes + countWeight*count
}

// Rank computes trendiness for each canonical trend and returns a fresh
// list sorted descending. Ties keep their original merge order. The input
// slice is not modified; the output is a permutation of the input.
func Rank(merged []Canonical) RankedList {
	ranked := make(RankedList, len(merged))
	copy(ranked, merged)

	for i := range ranked {
		ranked[i].Trendiness = Trendiness(ranked[i].Likes, ranked[i].Count)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Trendiness > ranked[j].Trendiness
	})

	return ranked
}
