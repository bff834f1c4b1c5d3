package retriever

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ooawamleh/LegalMind-AI/internal/ingest"
	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

// keywordEmbedder projects text onto three topic axes so the full
// ingest-then-retrieve path has deterministic similarity.
type keywordEmbedder struct{}

func (keywordEmbedder) vector(text string) []float32 {
	v := []float32{0.1, 0.1, 0.1}
	t := strings.ToLower(text)
	if strings.Contains(t, "termination") {
		v[0] = 1
	}
	if strings.Contains(t, "payment") {
		v[1] = 1
	}
	if strings.Contains(t, "confidential") {
		v[2] = 1
	}
	return v
}

func (e keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

type noVision struct{}

func (noVision) TranscribeImage(ctx context.Context, path string) (string, error) {
	return "", nil
}

func writeContractDocx(t *testing.T) string {
	t.Helper()

	sections := []struct {
		heading  string
		sentence string
	}{
		{"TERMINATION", "Either party may trigger termination with ninety days of written notice. "},
		{"PAYMENT TERMS", "All payment obligations fall due within thirty days of invoice. "},
		{"CONFIDENTIALITY", "Each party keeps the other's confidential materials under strict controls. "},
	}

	var body strings.Builder
	for _, s := range sections {
		body.WriteString(fmt.Sprintf("<w:p><w:r><w:t>%s</w:t></w:r></w:p>", s.heading))
		// Long enough that each section stands on its own instead of being
		// merged into a neighbor.
		body.WriteString(fmt.Sprintf("<w:p><w:r><w:t>%s</w:t></w:r></w:p>", strings.Repeat(s.sentence, 9)))
	}
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	path := filepath.Join(t.TempDir(), "contract.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	entry, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := entry.Write([]byte(doc)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestIngestRetrieveDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	embedder := keywordEmbedder{}

	processor := ingest.NewProcessor(noVision{}, embedder, store, false)
	path := writeContractDocx(t)

	count, err := processor.Ingest(ctx, path, "file-1")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected one chunk per section, got %d", count)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("source file should be removed after ingest")
	}

	r := NewScopedRetriever(
		&fakeFileLister{files: map[string][]string{"s1": {"file-1"}}},
		&fakeExpander{err: errors.New("expansion down")},
		embedder,
		store,
		8, 25,
	)

	chunks, err := r.Retrieve(ctx, "s1", "termination notice period")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected all three section chunks, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "termination") {
		t.Fatalf("most relevant chunk should be the termination section, got %q", chunks[0].Text)
	}
	for _, c := range chunks {
		if c.Metadata[vectorstore.MetadataSourceID] != "file-1" {
			t.Fatalf("chunk missing source tag: %+v", c.Metadata)
		}
		if title, _ := c.Metadata["section_title"].(string); title == "" {
			t.Fatalf("chunk missing section title: %+v", c.Metadata)
		}
	}

	if err := store.DeleteBySourceID(ctx, "file-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Retrieve(ctx, "s1", "termination notice period"); !errors.Is(err, ErrNoRelevantChunks) {
		t.Fatalf("expected ErrNoRelevantChunks after deletion, got %v", err)
	}
}
