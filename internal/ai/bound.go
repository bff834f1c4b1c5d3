package ai

import "context"

// BoundClient pairs the HTTP client with resolved chat and embedding
// configuration so consumers do not thread config through every call.
type BoundClient struct {
	client  *OpenAICompatibleClient
	chatCfg ChatConfig
	embCfg  EmbeddingConfig
}

func NewBoundClient(client *OpenAICompatibleClient, chatCfg ChatConfig, embCfg EmbeddingConfig) *BoundClient {
	return &BoundClient{client: client, chatCfg: chatCfg, embCfg: embCfg}
}

func (b *BoundClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	return b.client.Complete(ctx, b.chatCfg, messages)
}

func (b *BoundClient) CompleteOnce(ctx context.Context, prompt string) (string, error) {
	return b.client.CompleteOnce(ctx, b.chatCfg, prompt)
}

func (b *BoundClient) StreamChat(ctx context.Context, messages []ChatMessage, tools []ToolDefinition, onToken func(string) error) ([]ToolCall, string, error) {
	return b.client.StreamChat(ctx, b.chatCfg, messages, tools, onToken)
}

func (b *BoundClient) TranscribeImage(ctx context.Context, path string) (string, error) {
	return b.client.TranscribeImage(ctx, b.chatCfg, path)
}

func (b *BoundClient) Embed(ctx context.Context, text string) ([]float32, error) {
	return b.client.Embed(ctx, b.embCfg, text)
}

func (b *BoundClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return b.client.EmbedBatch(ctx, b.embCfg, texts)
}
