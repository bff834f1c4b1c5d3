package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ooawamleh/LegalMind-AI/internal/ai"
	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

// Tool names as advertised to the model.
const (
	NameDocumentSearch     = "document_search"
	NameComplianceCheck    = "compliance_check"
	NameClauseComparison   = "clause_comparison"
	NameCitationValidation = "citation_validation"
)

// Retriever fetches session-scoped document chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, sessionID, query string) ([]vectorstore.ScoredChunk, error)
}

// Completer runs a one-shot prompt against the model.
type Completer interface {
	CompleteOnce(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher wraps the external web search. Enabled reports whether credentials
// are present; tools degrade to a fixed notice when they are not.
type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, query string) (string, error)
}

// Handler executes one tool invocation. sessionID scopes any document access;
// input is the raw query string extracted from the model's arguments.
type Handler func(ctx context.Context, sessionID, input string) (string, error)

// Registry holds the tool definitions sent to the model and the dispatch
// table that executes them.
type Registry struct {
	definitions []ai.ToolDefinition
	handlers    map[string]Handler
}

func NewRegistry(retriever Retriever, llm Completer, embedder Embedder, searcher Searcher) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}

	r.register(ai.NewFunctionTool(
		NameDocumentSearch,
		"Search the uploaded legal document or contract for specific information. "+
			"Useful for finding definitions, clauses, dates, or parties in the text.",
	), documentSearchHandler(retriever))

	r.register(ai.NewFunctionTool(
		NameComplianceCheck,
		"Checks real-time regulatory compliance using web search. "+
			"Use this to find current laws (GDPR, CCPA, etc.) or recent legal changes.",
	), complianceCheckHandler(searcher, llm))

	r.register(ai.NewFunctionTool(
		NameClauseComparison,
		"Compares two legal clauses for similarity and differences. "+
			"Input must be two clauses separated by a pipe '|' symbol. "+
			"Example: \"Clause A text | Clause B text\"",
	), clauseComparisonHandler(embedder, llm))

	r.register(ai.NewFunctionTool(
		NameCitationValidation,
		"Validates if a specific legal citation, case law, or statute is real and accurate. "+
			"Uses web search to verify existence.",
	), citationValidationHandler(searcher, llm))

	return r
}

func (r *Registry) register(def ai.ToolDefinition, h Handler) {
	r.definitions = append(r.definitions, def)
	r.handlers[def.Function.Name] = h
}

func (r *Registry) Definitions() []ai.ToolDefinition {
	return r.definitions
}

// Dispatch decodes the model's arguments and runs the named tool. Failures
// come back as result strings rather than errors so the model can read them
// and recover; only a missing handler is reported as such.
func (r *Registry) Dispatch(ctx context.Context, sessionID, name, arguments string) string {
	handler, ok := r.handlers[name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q.", name)
	}

	input := parseQueryArgument(arguments)

	result, err := handler(ctx, sessionID, input)
	if err != nil {
		return fmt.Sprintf("Error: tool %s failed: %v", name, err)
	}
	return result
}

// parseQueryArgument extracts the "query" field from the JSON arguments the
// model produced. Malformed JSON falls back to the raw string so a sloppy
// model call still reaches the tool.
func parseQueryArgument(arguments string) string {
	var parsed struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &parsed); err == nil && parsed.Query != "" {
		return parsed.Query
	}
	return strings.TrimSpace(arguments)
}
