package tools

import (
	"context"
	"fmt"
)

const citationNoCredentialsNotice = "Search API key missing. Cannot validate citation."

// citationValidationHandler verifies a legal citation against web search data
// and instructs the model not to infer wording the search did not surface.
func citationValidationHandler(searcher Searcher, llm Completer) Handler {
	return func(ctx context.Context, sessionID, input string) (string, error) {
		if !searcher.Enabled() {
			return citationNoCredentialsNotice, nil
		}

		data, err := searcher.Search(ctx, "legal citation "+input)
		if err != nil {
			data = fmt.Sprintf("Search failed: %v", err)
		}

		prompt := fmt.Sprintf(
			"Validate this legal citation using the search data below.\n"+
				"Data: %s\n"+
				"Citation: %s\n\n"+
				"STRICT INSTRUCTION:\n"+
				"- Confirm whether the citation exists and is valid.\n"+
				"- If the exact text of the citation is not found, say: \"I cannot find the exact wording, but the citation exists and is valid.\"\n"+
				"- Do not infer or paraphrase the content of the citation.",
			data, input,
		)
		return llm.CompleteOnce(ctx, prompt)
	}
}
