package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ooawamleh/LegalMind-AI/internal/ai"
	"github.com/ooawamleh/LegalMind-AI/internal/tools"
)

const (
	defaultPreambleThreshold = 200
	defaultMaxToolCalls      = 5
)

// markerTools are the tools whose start is surfaced to the client as an
// analysis notice. The comparison and citation tools finish fast enough
// that a notice would only flicker.
var markerTools = map[string]bool{
	tools.NameDocumentSearch:  true,
	tools.NameComplianceCheck: true,
}

// Streamer runs one streaming chat completion, reporting content deltas
// through onToken and returning any tool calls the model requested plus the
// full accumulated content.
type Streamer interface {
	StreamChat(ctx context.Context, messages []ai.ChatMessage, defs []ai.ToolDefinition, onToken func(string) error) ([]ai.ToolCall, string, error)
}

// HistoryProvider loads the prior conversation for a session, oldest first.
type HistoryProvider interface {
	History(ctx context.Context, sessionID string) ([]ai.ChatMessage, error)
}

// ExchangeRecorder persists a completed user/assistant exchange, user
// message first.
type ExchangeRecorder interface {
	RecordExchange(ctx context.Context, sessionID, userText, assistantText string) error
}

// Dispatcher executes a named tool for a session.
type Dispatcher interface {
	Definitions() []ai.ToolDefinition
	Dispatch(ctx context.Context, sessionID, name, arguments string) string
}

// Loop drives one agent turn: history in, filtered token stream out, tools
// executed in between, exchange persisted at the end.
type Loop struct {
	llm               Streamer
	tools             Dispatcher
	history           HistoryProvider
	recorder          ExchangeRecorder
	preambleThreshold int
	maxToolCalls      int
}

func NewLoop(llm Streamer, dispatcher Dispatcher, history HistoryProvider, recorder ExchangeRecorder, preambleThreshold, maxToolCalls int) *Loop {
	if preambleThreshold <= 0 {
		preambleThreshold = defaultPreambleThreshold
	}
	if maxToolCalls <= 0 {
		maxToolCalls = defaultMaxToolCalls
	}
	return &Loop{
		llm:               llm,
		tools:             dispatcher,
		history:           history,
		recorder:          recorder,
		preambleThreshold: preambleThreshold,
		maxToolCalls:      maxToolCalls,
	}
}

// RunTurn answers query in the context of the session's history, streaming
// visible output through emit. The exchange is persisted only after the
// stream completes cleanly; on failure the client gets a system error chunk
// and nothing is saved.
func (l *Loop) RunTurn(ctx context.Context, sessionID, query string, emit func(string) error) error {
	// Every failure path surfaces through the stream; handlers rely on this
	// and do not report loop errors separately.
	fail := func(err error) error {
		_ = emit(fmt.Sprintf("\n[System Error]: %v", err))
		return err
	}

	prior, err := l.history.History(ctx, sessionID)
	if err != nil {
		return fail(fmt.Errorf("load history failed: %w", err))
	}

	messages := make([]ai.ChatMessage, 0, len(prior)+2)
	messages = append(messages, ai.ChatMessage{Role: "system", Content: systemPrompt(time.Now())})
	messages = append(messages, prior...)
	messages = append(messages, ai.ChatMessage{Role: "user", Content: query})

	var visible strings.Builder
	filter := newStreamFilter(l.preambleThreshold, func(s string) error {
		visible.WriteString(s)
		return emit(s)
	})

	toolCallsUsed := 0
	budgetSpent := false
	lastContent := ""
	for {
		defs := l.tools.Definitions()
		if toolCallsUsed >= l.maxToolCalls {
			// Budget spent. Withhold the tools so the model has to answer
			// with what it already gathered.
			defs = nil
			budgetSpent = true
		}

		toolCalls, content, err := l.llm.StreamChat(ctx, messages, defs, filter.OnToken)
		if err != nil {
			return fail(fmt.Errorf("stream completion failed: %w", err))
		}
		lastContent = content

		if len(toolCalls) == 0 || defs == nil {
			break
		}

		messages = append(messages, ai.ChatMessage{
			Role:      "assistant",
			Content:   content,
			ToolCalls: toolCalls,
		})

		for _, call := range toolCalls {
			if err := filter.OnToolStart(markerTools[call.Function.Name]); err != nil {
				return fail(fmt.Errorf("emit analysis marker failed: %w", err))
			}

			result := l.tools.Dispatch(ctx, sessionID, call.Function.Name, call.Function.Arguments)
			messages = append(messages, ai.ChatMessage{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			})
			toolCallsUsed++
		}
	}

	if err := filter.Finish(); err != nil {
		return fail(fmt.Errorf("flush stream failed: %w", err))
	}

	if budgetSpent && strings.TrimSpace(lastContent) == "" {
		return fail(fmt.Errorf("could not complete the request within %d tool calls", l.maxToolCalls))
	}

	response := visible.String()
	if strings.TrimSpace(response) == "" {
		return nil
	}
	if err := l.recorder.RecordExchange(ctx, sessionID, query, response); err != nil {
		return fail(fmt.Errorf("record exchange failed: %w", err))
	}
	return nil
}
