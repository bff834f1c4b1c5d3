package tools

import (
	"context"
	"fmt"
)

const complianceNoCredentialsNotice = "Search API key is missing. Cannot check external compliance."

// complianceCheckHandler searches the web for current regulations and has the
// model assess the query against the results. A search failure is folded into
// the prompt instead of aborting so the model can still respond.
func complianceCheckHandler(searcher Searcher, llm Completer) Handler {
	return func(ctx context.Context, sessionID, input string) (string, error) {
		if !searcher.Enabled() {
			return complianceNoCredentialsNotice, nil
		}

		results, err := searcher.Search(ctx, "current legal regulations "+input)
		if err != nil {
			results = fmt.Sprintf("Search failed: %v", err)
		}

		prompt := fmt.Sprintf(
			"Check regulatory compliance based on these search results:\n%s\n\nQuery: %s",
			results, input,
		)
		return llm.CompleteOnce(ctx, prompt)
	}
}
