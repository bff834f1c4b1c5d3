package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

type OpenAICompatibleClient struct {
	httpClient *http.Client
}

func NewOpenAICompatibleClient() *OpenAICompatibleClient {
	return &OpenAICompatibleClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *OpenAICompatibleClient) postJSON(ctx context.Context, cfg ChatConfig, path string, reqBody any) ([]byte, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

// Complete runs a non-streaming chat completion and returns the assistant text.
func (c *OpenAICompatibleClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage) (string, error) {
	raw, err := c.postJSON(ctx, cfg, "/chat/completions", map[string]any{
		"model":    cfg.Model,
		"messages": messages,
		"stream":   false,
	})
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// CompleteOnce is the single-prompt variant used by tools that synthesize a
// result from one block of text.
func (c *OpenAICompatibleClient) CompleteOnce(ctx context.Context, cfg ChatConfig, prompt string) (string, error) {
	return c.Complete(ctx, cfg, []ChatMessage{{Role: "user", Content: prompt}})
}

// StreamChat runs one streaming model round. Content deltas are forwarded to
// onToken in arrival order; tool-call argument fragments never reach onToken
// and are instead accumulated into complete ToolCall values returned at the
// end of the round. An empty ToolCall slice means the model answered directly.
func (c *OpenAICompatibleClient) StreamChat(
	ctx context.Context,
	cfg ChatConfig,
	messages []ChatMessage,
	tools []ToolDefinition,
	onToken func(token string) error,
) ([]ToolCall, string, error) {
	reqBody := map[string]any{
		"model":    cfg.Model,
		"messages": messages,
		"stream":   true,
	}
	if len(tools) > 0 {
		reqBody["tools"] = tools
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("marshal llm stream request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("build llm stream request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("llm stream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("llm stream status %d: %s", resp.StatusCode, string(raw))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var full strings.Builder
	pending := map[int]*ToolCall{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var chunk struct {
			Choices []struct {
				Delta struct {
					Content   string `json:"content"`
					ToolCalls []struct {
						Index    int    `json:"index"`
						ID       string `json:"id"`
						Type     string `json:"type"`
						Function struct {
							Name      string `json:"name"`
							Arguments string `json:"arguments"`
						} `json:"function"`
					} `json:"tool_calls"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta

		for _, frag := range delta.ToolCalls {
			call, ok := pending[frag.Index]
			if !ok {
				call = &ToolCall{}
				pending[frag.Index] = call
			}
			if frag.ID != "" {
				call.ID = frag.ID
			}
			if frag.Type != "" {
				call.Type = frag.Type
			}
			if frag.Function.Name != "" {
				call.Function.Name += frag.Function.Name
			}
			call.Function.Arguments += frag.Function.Arguments
		}

		if delta.Content != "" {
			full.WriteString(delta.Content)
			if err := onToken(delta.Content); err != nil {
				return nil, "", err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("scan llm stream failed: %w", err)
	}

	indexes := make([]int, 0, len(pending))
	for i := range pending {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	calls := make([]ToolCall, 0, len(pending))
	for _, i := range indexes {
		calls = append(calls, *pending[i])
	}
	return calls, full.String(), nil
}
