package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

const clauseComparisonFormatError = "Error: Input must contain '|' to separate the two clauses."

// clauseComparisonHandler computes an embedding similarity score for two
// pipe-separated clauses and asks the model for the qualitative analysis.
// The format check happens before any model or embedding call.
func clauseComparisonHandler(embedder Embedder, llm Completer) Handler {
	return func(ctx context.Context, sessionID, input string) (string, error) {
		if !strings.Contains(input, "|") {
			return clauseComparisonFormatError, nil
		}

		parts := strings.SplitN(input, "|", 2)
		first := strings.TrimSpace(parts[0])
		second := strings.TrimSpace(parts[1])

		firstVec, err := embedder.Embed(ctx, first)
		if err != nil {
			return "", fmt.Errorf("embed first clause failed: %w", err)
		}
		secondVec, err := embedder.Embed(ctx, second)
		if err != nil {
			return "", fmt.Errorf("embed second clause failed: %w", err)
		}
		similarity := vectorstore.CosineSimilarity(firstVec, secondVec)

		prompt := fmt.Sprintf(
			"Compare these two clauses.\n"+
				"Cosine Similarity Score: %.4f\n\n"+
				"Clause 1: %s\n"+
				"Clause 2: %s\n\n"+
				"Provide a legal analysis of differences.",
			similarity, first, second,
		)
		return llm.CompleteOnce(ctx, prompt)
	}
}
