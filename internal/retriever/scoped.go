package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

var (
	// ErrNoDocuments means the session has no ingested files at all.
	ErrNoDocuments = errors.New("no documents in this session")
	// ErrNoRelevantChunks means documents exist but nothing matched the query.
	ErrNoRelevantChunks = errors.New("no relevant chunks found")
)

const (
	defaultK      = 8
	defaultFetchK = 25
	mmrLambda     = 0.5
	queryVariants = 3
)

// FileLister resolves a session to the file ids whose chunks it may see.
type FileLister interface {
	ListFileIDsBySessionID(sessionID string) ([]string, error)
}

// QueryExpander paraphrases a query into alternative phrasings.
type QueryExpander interface {
	CompleteOnce(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ScopedRetriever returns chunks for a session's query, restricted to that
// session's own files. The source filter is non-optional: a failed file
// lookup fails the whole retrieval rather than widening the search.
type ScopedRetriever struct {
	files    FileLister
	expander QueryExpander
	embedder Embedder
	store    vectorstore.Store
	k        int
	fetchK   int
}

func NewScopedRetriever(files FileLister, expander QueryExpander, embedder Embedder, store vectorstore.Store, k, fetchK int) *ScopedRetriever {
	if k <= 0 {
		k = defaultK
	}
	if fetchK < k {
		fetchK = defaultFetchK
	}
	return &ScopedRetriever{
		files:    files,
		expander: expander,
		embedder: embedder,
		store:    store,
		k:        k,
		fetchK:   fetchK,
	}
}

// Retrieve runs query expansion plus diversity-aware search and returns
// deduplicated chunks in relevance order. ErrNoDocuments and
// ErrNoRelevantChunks distinguish an empty session from an empty match.
func (r *ScopedRetriever) Retrieve(ctx context.Context, sessionID, query string) ([]vectorstore.ScoredChunk, error) {
	fileIDs, err := r.files.ListFileIDsBySessionID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve session files failed: %w", err)
	}
	if len(fileIDs) == 0 {
		return nil, ErrNoDocuments
	}

	var merged []vectorstore.ScoredChunk
	for _, variant := range r.expandQuery(ctx, query) {
		queryVec, err := r.embedder.Embed(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("embed query failed: %w", err)
		}

		candidates, err := r.store.Search(ctx, queryVec, fileIDs, r.fetchK)
		if err != nil {
			return nil, fmt.Errorf("vector search failed: %w", err)
		}

		merged = append(merged, maximalMarginalRelevance(queryVec, candidates, r.k, mmrLambda)...)
	}

	deduped := dedupeByText(merged)
	if len(deduped) == 0 {
		return nil, ErrNoRelevantChunks
	}
	return deduped, nil
}

// expandQuery asks the model for paraphrased variants of the query. The
// original query always comes first; expansion failures degrade to searching
// with the original alone.
func (r *ScopedRetriever) expandQuery(ctx context.Context, query string) []string {
	prompt := fmt.Sprintf(
		"Generate %d alternative phrasings of the following question about a legal document, "+
			"one per line, with no numbering and no commentary. Keep the legal terminology intact.\n\n"+
			"Question: %s",
		queryVariants, query,
	)

	variants := []string{query}
	raw, err := r.expander.CompleteOnce(ctx, prompt)
	if err != nil {
		return variants
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == query {
			continue
		}
		variants = append(variants, line)
		if len(variants) > queryVariants {
			break
		}
	}
	return variants
}

// dedupeByText keeps the first occurrence of each exact chunk text,
// preserving the incoming relevance order.
func dedupeByText(chunks []vectorstore.ScoredChunk) []vectorstore.ScoredChunk {
	seen := make(map[string]struct{}, len(chunks))
	var out []vectorstore.ScoredChunk
	for _, c := range chunks {
		if _, ok := seen[c.Text]; ok {
			continue
		}
		seen[c.Text] = struct{}{}
		out = append(out, c)
	}
	return out
}
