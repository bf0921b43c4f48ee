package retrieval

import (
	"sort"

	"github.com/kailas-cloud/scoutnotes/internal/repository/search"
)

// candidate is one fused note with its per-signal scores.
type candidate struct {
	hit           search.Hit
	keywordScore  float64
	semanticScore float64
	finalScore    float64
}

// fuse merges the two result sets with union (OR) semantics:
// final = kw * lexNorm + sw * sem. Lexical scores are BM25 ranks with
// no upper bound, so they are normalized by the per-query maximum;
// semantic scores are cosine similarities already in [0, 1]. A note
// present in only one set scores 0 on the other signal. No
// renormalization happens after fusion: the weights are plain linear
// coefficients.
func fuse(lexical, semantic []search.Hit, keywordWeight, semanticWeight float64) []candidate {
	var maxLex float64
	for _, h := range lexical {
		if h.Score > maxLex {
			maxLex = h.Score
		}
	}

	merged := make(map[int64]*candidate, len(lexical)+len(semantic))
	order := make([]int64, 0, len(lexical)+len(semantic))

	for _, h := range lexical {
		norm := 0.0
		if maxLex > 0 {
			norm = h.Score / maxLex
		}
		merged[h.NoteID] = &candidate{hit: h, keywordScore: norm}
		order = append(order, h.NoteID)
	}

	for _, h := range semantic {
		if existing, ok := merged[h.NoteID]; ok {
			existing.semanticScore = h.Score
			continue
		}
		merged[h.NoteID] = &candidate{hit: h, semanticScore: h.Score}
		order = append(order, h.NoteID)
	}

	fused := make([]candidate, 0, len(merged))
	for _, id := range order {
		c := merged[id]
		c.finalScore = keywordWeight*c.keywordScore + semanticWeight*c.semanticScore
		fused = append(fused, *c)
	}

	// Stable descending sort keeps insertion order for equal scores,
	// which makes ties deterministic (lexical hits first, then by rank).
	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].finalScore > fused[j].finalScore
	})

	return fused
}
