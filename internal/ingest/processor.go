package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ooawamleh/LegalMind-AI/internal/pkg/docxextract"
	"github.com/ooawamleh/LegalMind-AI/internal/pkg/pdfextract"
	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

const (
	imageChunkSize     = 1000
	imageChunkOverlap  = 200
	sectionMaxChars    = 2000
	sectionSoftLimit   = 1500
	sectionMergeUnder  = 500
	clauseChunkSize    = 800
	clauseChunkOverlap = 100
	embeddingBatchSize = 10 // embedding APIs often limit batch size
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// VisionProvider transcribes a document image verbatim.
type VisionProvider interface {
	TranscribeImage(ctx context.Context, path string) (string, error)
}

// Embedder turns chunk texts into vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Processor converts an uploaded file into tagged chunks in the vector store.
type Processor struct {
	vision    VisionProvider
	embedder  Embedder
	store     vectorstore.Store
	keepFiles bool
}

func NewProcessor(vision VisionProvider, embedder Embedder, store vectorstore.Store, keepFiles bool) *Processor {
	return &Processor{
		vision:    vision,
		embedder:  embedder,
		store:     store,
		keepFiles: keepFiles,
	}
}

// Ingest chunks the file at path, tags every chunk with fileID as its
// source_id, embeds and writes them, and returns the number written. Zero is
// a valid outcome (nothing extractable survived filtering); callers must not
// record a session file for it. The source file is removed on every exit
// path unless the debug retention flag was set.
func (p *Processor) Ingest(ctx context.Context, path, fileID string) (count int, err error) {
	defer func() {
		if p.keepFiles {
			return
		}
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) && err == nil {
			err = fmt.Errorf("remove source file failed: %w", removeErr)
		}
	}()

	ext := strings.ToLower(filepath.Ext(path))

	var chunks []vectorstore.Chunk
	switch ext {
	case ".png", ".jpg", ".jpeg":
		chunks, err = p.processImage(ctx, path)
	case ".pdf", ".doc", ".docx":
		chunks, err = p.processDocument(ctx, path, ext)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return 0, fmt.Errorf("ingest %s failed: %w", filepath.Base(path), err)
	}

	chunks = filterChunks(chunks)
	if len(chunks) == 0 {
		return 0, nil
	}

	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		chunks[i].Metadata[vectorstore.MetadataSourceID] = fileID
	}

	if err := p.embedChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("embed chunks failed: %w", err)
	}
	if err := p.store.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks failed: %w", err)
	}
	return len(chunks), nil
}

func (p *Processor) processImage(ctx context.Context, path string) ([]vectorstore.Chunk, error) {
	transcript, err := p.vision.TranscribeImage(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("transcribe image failed: %w", err)
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, nil
	}

	var chunks []vectorstore.Chunk
	for _, text := range windowText(transcript, imageChunkSize, imageChunkOverlap) {
		chunks = append(chunks, vectorstore.Chunk{
			Text: text,
			Metadata: map[string]any{
				"filename": filepath.Base(path),
				"kind":     "image_transcript",
			},
		})
	}
	return chunks, nil
}

func (p *Processor) processDocument(ctx context.Context, path, ext string) ([]vectorstore.Chunk, error) {
	_ = ctx

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = extractPDF(path)
	case ".doc":
		text, err = extractDoc(path)
	default:
		text, err = docxextract.ExtractText(path)
	}
	if err != nil {
		return nil, err
	}

	sections := splitSections(text, sectionMaxChars, sectionSoftLimit, sectionMergeUnder)

	var chunks []vectorstore.Chunk
	for _, section := range sections {
		for _, sub := range refineClauses(section.Text, clauseChunkSize, clauseChunkOverlap) {
			// Sub-clauses inherit the section's metadata so retrieval hits
			// still map back to the heading they came from.
			chunks = append(chunks, vectorstore.Chunk{
				Text: sub,
				Metadata: map[string]any{
					"filename":      filepath.Base(path),
					"section_title": section.Title,
				},
			})
		}
	}
	return chunks, nil
}

func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}
	defer f.Close()
	return pdfextract.ExtractText(f)
}

// oleMagic is the compound-file header of Word 97-2003 binary documents.
var oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// extractDoc handles the .doc extension. The legacy binary format is
// rejected with a conversion hint; .doc files that are really OOXML
// archives are read like any .docx.
func extractDoc(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open doc failed: %w", err)
	}
	header := make([]byte, len(oleMagic))
	n, _ := io.ReadFull(f, header)
	f.Close()

	if n == len(oleMagic) && bytes.Equal(header, oleMagic) {
		return "", fmt.Errorf("%w: legacy Word .doc, convert to .docx first", ErrUnsupportedFileType)
	}
	return docxextract.ExtractText(path)
}

// filterChunks drops blank chunks and strips metadata values the vector
// index cannot store (lists and nested maps get flattened or removed).
func filterChunks(chunks []vectorstore.Chunk) []vectorstore.Chunk {
	var kept []vectorstore.Chunk
	for _, c := range chunks {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		c.Metadata = flattenMetadata(c.Metadata)
		kept = append(kept, c)
	}
	return kept
}

func flattenMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		switch val := v.(type) {
		case string, bool, int, int32, int64, float32, float64:
			out[k] = val
		case []string:
			out[k] = strings.Join(val, ", ")
		default:
			// unsupported shape, drop it
		}
	}
	return out
}

func (p *Processor) embedChunks(ctx context.Context, chunks []vectorstore.Chunk) error {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	var vectors [][]float32
	for i := 0; i < len(texts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := p.embedder.EmbedBatch(ctx, texts[i:end])
		if err != nil {
			return err
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(chunks), len(vectors))
	}

	for i := range chunks {
		chunks[i].Vector = vectors[i]
	}
	return nil
}
