package vectorstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a brute-force in-memory Store used in tests and for local
// development without a Qdrant instance.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks []Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Add(ctx context.Context, chunks []Chunk) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		copied := c
		copied.Metadata = cloneMetadata(c.Metadata)
		s.chunks = append(s.chunks, copied)
	}
	return nil
}

func (s *MemoryStore) Search(ctx context.Context, queryVector []float32, sourceIDs []string, limit int) ([]ScoredChunk, error) {
	_ = ctx
	if len(sourceIDs) == 0 {
		return nil, ErrEmptySourceFilter
	}
	allowed := make(map[string]struct{}, len(sourceIDs))
	for _, id := range sourceIDs {
		allowed[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []ScoredChunk
	for _, c := range s.chunks {
		sourceID, _ := c.Metadata[MetadataSourceID].(string)
		if _, ok := allowed[sourceID]; !ok {
			continue
		}
		results = append(results, ScoredChunk{
			Chunk: c,
			Score: CosineSimilarity(queryVector, c.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) DeleteBySourceID(ctx context.Context, sourceID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	for _, c := range s.chunks {
		if id, _ := c.Metadata[MetadataSourceID].(string); id != sourceID {
			kept = append(kept, c)
		}
	}
	s.chunks = kept
	return nil
}

// Len reports the number of stored chunks; handy for ingestion tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func cloneMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
