package search

import (
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/mode"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/result"
)

// Fuse merges normalized engine lists by record id with additive weighted scores.
//
// Vector hits come first with score v·w.Vector. A keyword hit for a record already
// present adds k·w.Keyword and replaces the content snippet only when its own is
// longer; other display fields stay. A keyword-only record is appended with
// k·w.Keyword. Repeats within one list count once. The output is unsorted and
// keeps that insertion order.
func Fuse(keyword, vector []result.Normalized, w Weights) []result.Ranked {
	out := make([]result.Ranked, 0, len(vector)+len(keyword))
	pos := make(map[string]int, len(vector)+len(keyword))

	for _, n := range vector {
		if _, dup := pos[n.RecordID]; dup {
			continue
		}
		pos[n.RecordID] = len(out)
		out = append(out, fused(n, n.NormScore*w.Vector))
	}

	seen := make(map[string]struct{}, len(keyword))
	for _, n := range keyword {
		if _, dup := seen[n.RecordID]; dup {
			continue
		}
		seen[n.RecordID] = struct{}{}

		i, ok := pos[n.RecordID]
		if !ok {
			pos[n.RecordID] = len(out)
			out = append(out, fused(n, n.NormScore*w.Keyword))
			continue
		}
		out[i].Score += n.NormScore * w.Keyword
		if len(n.Content) > len(out[i].Content) {
			out[i].Content = n.Content
		}
	}
	return out
}

func fused(n result.Normalized, score float64) result.Ranked {
	return result.Ranked{
		RecordID:    n.RecordID,
		Summary:     n.Summary,
		Description: n.Description,
		Content:     n.Content,
		Score:       score,
		MatchType:   mode.Hybrid,
		Fields:      n.Fields,
	}
}
