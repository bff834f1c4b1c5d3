package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

type fakeFileLister struct {
	files map[string][]string
	err   error
}

func (f *fakeFileLister) ListFileIDsBySessionID(sessionID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.files[sessionID], nil
}

type fakeExpander struct {
	response string
	err      error
	calls    int
}

func (f *fakeExpander) CompleteOnce(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

// vocabEmbedder maps known phrases to fixed vectors so similarity in tests
// is fully deterministic.
type vocabEmbedder struct {
	vectors map[string][]float32
}

func (e *vocabEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func seedStore(t *testing.T, chunks []vectorstore.Chunk) *vectorstore.MemoryStore {
	t.Helper()
	store := vectorstore.NewMemoryStore()
	if err := store.Add(context.Background(), chunks); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func chunk(id, text, sourceID string, vec []float32) vectorstore.Chunk {
	return vectorstore.Chunk{
		ID:   id,
		Text: text,
		Metadata: map[string]any{
			vectorstore.MetadataSourceID: sourceID,
		},
		Vector: vec,
	}
}

func TestRetrieveNoDocuments(t *testing.T) {
	r := NewScopedRetriever(
		&fakeFileLister{files: map[string][]string{}},
		&fakeExpander{},
		&vocabEmbedder{},
		vectorstore.NewMemoryStore(),
		8, 25,
	)

	_, err := r.Retrieve(context.Background(), "empty-session", "anything")
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestRetrieveFailsClosedOnFileLookupError(t *testing.T) {
	r := NewScopedRetriever(
		&fakeFileLister{err: errors.New("db down")},
		&fakeExpander{},
		&vocabEmbedder{},
		vectorstore.NewMemoryStore(),
		8, 25,
	)

	_, err := r.Retrieve(context.Background(), "s1", "anything")
	if err == nil {
		t.Fatalf("file lookup failure must fail the retrieval")
	}
	if errors.Is(err, ErrNoDocuments) || errors.Is(err, ErrNoRelevantChunks) {
		t.Fatalf("lookup failure must not look like an empty result: %v", err)
	}
}

func TestRetrieveOnlySeesOwnSessionFiles(t *testing.T) {
	store := seedStore(t, []vectorstore.Chunk{
		chunk("1", "termination clause of contract A", "file-a", []float32{1, 0, 0}),
		chunk("2", "termination clause of contract B", "file-b", []float32{1, 0, 0}),
	})

	r := NewScopedRetriever(
		&fakeFileLister{files: map[string][]string{"s1": {"file-a"}}},
		&fakeExpander{err: errors.New("expansion down")},
		&vocabEmbedder{},
		store,
		8, 25,
	)

	chunks, err := r.Retrieve(context.Background(), "s1", "termination")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	for _, c := range chunks {
		if c.Metadata[vectorstore.MetadataSourceID] != "file-a" {
			t.Fatalf("leaked chunk from another session: %+v", c)
		}
	}
	if len(chunks) != 1 {
		t.Fatalf("expected exactly the session's own chunk, got %d", len(chunks))
	}
}

func TestRetrieveNoRelevantChunks(t *testing.T) {
	// Session has a file on record, but the store holds nothing for it.
	r := NewScopedRetriever(
		&fakeFileLister{files: map[string][]string{"s1": {"file-a"}}},
		&fakeExpander{},
		&vocabEmbedder{},
		vectorstore.NewMemoryStore(),
		8, 25,
	)

	_, err := r.Retrieve(context.Background(), "s1", "anything")
	if !errors.Is(err, ErrNoRelevantChunks) {
		t.Fatalf("expected ErrNoRelevantChunks, got %v", err)
	}
}

func TestRetrieveDeduplicatesAcrossQueryVariants(t *testing.T) {
	store := seedStore(t, []vectorstore.Chunk{
		chunk("1", "the governing law is Delaware", "file-a", []float32{1, 0, 0}),
		chunk("2", "notices must be in writing", "file-a", []float32{0, 1, 0}),
	})

	// Expansion produces two variants, so both store chunks are selected
	// twice; output must carry each text once.
	r := NewScopedRetriever(
		&fakeFileLister{files: map[string][]string{"s1": {"file-a"}}},
		&fakeExpander{response: "which law governs this agreement\nwhat jurisdiction applies"},
		&vocabEmbedder{},
		store,
		8, 25,
	)

	chunks, err := r.Retrieve(context.Background(), "s1", "governing law")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	seen := make(map[string]int)
	for _, c := range chunks {
		seen[c.Text]++
	}
	for text, n := range seen {
		if n > 1 {
			t.Fatalf("chunk %q returned %d times", text, n)
		}
	}
	if len(chunks) != 2 {
		t.Fatalf("expected both unique chunks, got %d", len(chunks))
	}
}

func TestRetrieveDegradesWhenExpansionFails(t *testing.T) {
	store := seedStore(t, []vectorstore.Chunk{
		chunk("1", "payment due in 30 days", "file-a", []float32{1, 0, 0}),
	})
	expander := &fakeExpander{err: errors.New("llm down")}

	r := NewScopedRetriever(
		&fakeFileLister{files: map[string][]string{"s1": {"file-a"}}},
		expander,
		&vocabEmbedder{},
		store,
		8, 25,
	)

	chunks, err := r.Retrieve(context.Background(), "s1", "payment terms")
	if err != nil {
		t.Fatalf("retrieve should degrade to the original query: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d", len(chunks))
	}
	if expander.calls != 1 {
		t.Fatalf("expected one expansion attempt, got %d", expander.calls)
	}
}
