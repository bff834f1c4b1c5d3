package vectorstore

import (
	"context"
	"errors"
)

// MetadataSourceID is the metadata key binding a chunk to the upload that
// produced it. Retrieval isolation hangs entirely on this tag: the index is
// shared by all sessions and there is no physical partitioning.
const MetadataSourceID = "source_id"

// ErrEmptySourceFilter is returned when a search arrives without source ids.
// An unfiltered search could surface another session's documents, so the
// store refuses it outright instead of degrading to a global search.
var ErrEmptySourceFilter = errors.New("vector search requires a non-empty source filter")

// Chunk is the unit of retrieval: a bounded span of document text, its
// metadata (always carrying source_id), and its embedding.
type Chunk struct {
	ID       string
	Text     string
	Metadata map[string]any
	Vector   []float32
}

// ScoredChunk is a search candidate with its similarity score. The vector is
// included so callers can rerank for diversity.
type ScoredChunk struct {
	Chunk
	Score float32
}

type Store interface {
	Add(ctx context.Context, chunks []Chunk) error

	// Search returns up to limit candidates whose source_id is in sourceIDs,
	// ranked by similarity to queryVector. It fails with ErrEmptySourceFilter
	// when sourceIDs is empty.
	Search(ctx context.Context, queryVector []float32, sourceIDs []string, limit int) ([]ScoredChunk, error)

	// DeleteBySourceID removes every chunk tagged with sourceID.
	DeleteBySourceID(ctx context.Context, sourceID string) error
}
