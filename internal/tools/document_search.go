package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ooawamleh/LegalMind-AI/internal/retriever"
)

const (
	noDocumentsNotice = "System Notification: No documents have been uploaded in this session. " +
		"Ask the user to upload a document first."
	noRelevantNotice = "System Notification: No relevant information found in the uploaded documents. " +
		"Do not invent an answer."
)

// documentSearchHandler retrieves chunks scoped to the calling session and
// formats them with a grounding instruction. The two empty outcomes get
// distinct notices so the model can tell "nothing uploaded" apart from
// "nothing matched".
func documentSearchHandler(r Retriever) Handler {
	return func(ctx context.Context, sessionID, input string) (string, error) {
		chunks, err := r.Retrieve(ctx, sessionID, input)
		if errors.Is(err, retriever.ErrNoDocuments) {
			return noDocumentsNotice, nil
		}
		if errors.Is(err, retriever.ErrNoRelevantChunks) {
			return noRelevantNotice, nil
		}
		if err != nil {
			return "", err
		}

		blocks := make([]string, 0, len(chunks))
		for i, c := range chunks {
			blocks = append(blocks, fmt.Sprintf("Chunk %d:\n%s", i+1, c.Text))
		}

		return fmt.Sprintf(
			"DOCUMENT CONTEXT:\n%s\n\n"+
				"STRICT INSTRUCTION:\n"+
				"- Only answer using the exact text above.\n"+
				"- Quote clauses verbatim.\n"+
				"- If the answer is not present, respond with: 'I cannot find that information in the document.'\n"+
				"- Do not paraphrase or add external context unless explicitly asked.",
			strings.Join(blocks, "\n\n"),
		), nil
	}
}
