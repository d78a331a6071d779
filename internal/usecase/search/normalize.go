package search

import "github.com/ashokkumar81090/Hackathon/internal/domain/search/result"

// Normalize min-max scales raw scores of one engine list into [0,1].
// The best hit gets 1 and the worst 0; when every raw score is equal
// (including a single hit) all get 1. Order is preserved.
func Normalize(list []result.Candidate) []result.Normalized {
	out := make([]result.Normalized, len(list))
	if len(list) == 0 {
		return out
	}

	lo, hi := list[0].RawScore, list[0].RawScore
	for _, c := range list[1:] {
		lo = min(lo, c.RawScore)
		hi = max(hi, c.RawScore)
	}

	span := hi - lo
	for i, c := range list {
		score := 1.0
		if span > 0 {
			score = (c.RawScore - lo) / span
		}
		out[i] = result.Normalized{Candidate: c, NormScore: score}
	}
	return out
}
