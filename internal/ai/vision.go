package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const transcribeInstruction = "Transcribe this legal document. Capture all headers and clauses accurately."

// TranscribeImage sends the image at path to the model once and returns the
// verbatim transcript. An empty transcript is returned as "", nil so callers
// can treat it as a zero-chunk document rather than a failure.
func (c *OpenAICompatibleClient) TranscribeImage(ctx context.Context, cfg ChatConfig, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image failed: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	// Multi-part content, so the plain ChatMessage struct does not apply here.
	reqBody := map[string]any{
		"model": cfg.Model,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": transcribeInstruction},
					{"type": "image_url", "image_url": map[string]any{
						"url": "data:image/jpeg;base64," + encoded,
					}},
				},
			},
		},
	}

	raw, err := c.postJSON(ctx, cfg, "/chat/completions", reqBody)
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
		return "", fmt.Errorf("parse transcription json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty transcription choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
