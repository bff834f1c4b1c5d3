package app

import (
	"context"
	"fmt"

	"github.com/ooawamleh/LegalMind-AI/internal/ai"
	"github.com/ooawamleh/LegalMind-AI/internal/model"
	"github.com/ooawamleh/LegalMind-AI/internal/repository"
)

// MessagePublisher hands finished messages to the async persistence queue.
type MessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// HistoryStore is the cache in front of the message table.
type HistoryStore interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, sessionID string, messages []model.Message) error
	DeleteHistory(ctx context.Context, sessionID string) error
	MarkDirty(ctx context.Context, sessionID string) error
	IsDirty(ctx context.Context, sessionID string) (bool, error)
}

// ChatService owns conversation history access and post-stream persistence.
// Reads go through the Redis cache unless a dirty marker says queued writes
// have not landed yet; writes go through RabbitMQ and invalidate the cache.
type ChatService struct {
	messageRepo *repository.MessageRepository
	history     HistoryStore
	publisher   MessagePublisher
}

func NewChatService(messageRepo *repository.MessageRepository, history HistoryStore, publisher MessagePublisher) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		history:     history,
		publisher:   publisher,
	}
}

// Messages returns the session's conversation, oldest first.
func (s *ChatService) Messages(ctx context.Context, sessionID string) ([]model.Message, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}

	dirty, err := s.history.IsDirty(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !dirty {
		if cached, ok, err := s.history.GetHistory(ctx, sessionID); err == nil && ok {
			return cached, nil
		}
	}

	messages, err := s.messageRepo.ListBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if !dirty {
		if err := s.history.SetHistory(ctx, sessionID, messages); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// History adapts the stored conversation to chat-completion messages for the
// agent loop.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]ai.ChatMessage, error) {
	messages, err := s.Messages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]ai.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out, nil
}

// RecordExchange queues the user message and then the assistant message on
// the persistence queue, marks the cached history dirty, and drops the stale
// cache entry. Ordering on a single durable queue preserves conversation
// order at the consumer.
func (s *ChatService) RecordExchange(ctx context.Context, sessionID, userText, assistantText string) error {
	if sessionID == "" || userText == "" || assistantText == "" {
		return ErrInvalidInput
	}

	if err := s.publisher.Publish(ctx, model.Message{
		SessionID: sessionID,
		Role:      "user",
		Content:   userText,
	}); err != nil {
		return fmt.Errorf("publish user message failed: %w", err)
	}
	if err := s.publisher.Publish(ctx, model.Message{
		SessionID: sessionID,
		Role:      "assistant",
		Content:   assistantText,
	}); err != nil {
		return fmt.Errorf("publish assistant message failed: %w", err)
	}

	if err := s.history.MarkDirty(ctx, sessionID); err != nil {
		return err
	}
	return s.history.DeleteHistory(ctx, sessionID)
}
