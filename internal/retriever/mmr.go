package retriever

import (
	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

// maximalMarginalRelevance reranks candidates to balance relevance to the
// query against redundancy among the results already picked. lambda=1 is
// pure relevance, lambda=0 pure diversity.
func maximalMarginalRelevance(queryVec []float32, candidates []vectorstore.ScoredChunk, k int, lambda float32) []vectorstore.ScoredChunk {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	relevance := make([]float32, len(candidates))
	for i, c := range candidates {
		relevance[i] = vectorstore.CosineSimilarity(queryVec, c.Vector)
	}

	selected := make([]vectorstore.ScoredChunk, 0, k)
	picked := make([]bool, len(candidates))

	for len(selected) < k {
		best := -1
		var bestScore float32
		for i, c := range candidates {
			if picked[i] {
				continue
			}
			var maxRedundancy float32
			for _, s := range selected {
				if sim := vectorstore.CosineSimilarity(c.Vector, s.Vector); sim > maxRedundancy {
					maxRedundancy = sim
				}
			}
			score := lambda*relevance[i] - (1-lambda)*maxRedundancy
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}
		picked[best] = true
		selected = append(selected, candidates[best])
	}
	return selected
}
