package app

import (
	"context"
	"testing"

	"github.com/ooawamleh/LegalMind-AI/internal/model"
	"github.com/ooawamleh/LegalMind-AI/internal/repository"
)

func newChatFixture(t *testing.T) (*ChatService, *repository.MessageRepository, *memHistory, *fakePublisher) {
	t.Helper()
	db := openTestDB(t)
	messageRepo := repository.NewMessageRepository(db)
	history := newMemHistory()
	publisher := &fakePublisher{}
	return NewChatService(messageRepo, history, publisher), messageRepo, history, publisher
}

func TestMessagesLoadsFromDBAndFillsCache(t *testing.T) {
	svc, repo, history, _ := newChatFixture(t)

	for _, m := range []model.Message{
		{SessionID: "s1", Role: "user", Content: "first"},
		{SessionID: "s1", Role: "assistant", Content: "second"},
	} {
		msg := m
		if err := repo.Create(&msg); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	msgs, err := svc.Messages(context.Background(), "s1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Fatalf("wrong order or content: %+v", msgs)
	}

	if cached, ok, _ := history.GetHistory(context.Background(), "s1"); !ok || len(cached) != 2 {
		t.Fatalf("cache should be filled after a DB read")
	}
}

func TestMessagesServedFromCache(t *testing.T) {
	svc, _, history, _ := newChatFixture(t)

	seed := []model.Message{{SessionID: "s1", Role: "user", Content: "cached"}}
	if err := history.SetHistory(context.Background(), "s1", seed); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	msgs, err := svc.Messages(context.Background(), "s1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "cached" {
		t.Fatalf("expected the cached copy, got %+v", msgs)
	}
}

func TestMessagesBypassCacheWhileDirty(t *testing.T) {
	svc, repo, history, _ := newChatFixture(t)

	// Stale cache plus a dirty marker: the DB copy must win and the stale
	// entry must not be refreshed.
	if err := history.SetHistory(context.Background(), "s1", []model.Message{
		{SessionID: "s1", Role: "user", Content: "stale"},
	}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if err := history.MarkDirty(context.Background(), "s1"); err != nil {
		t.Fatalf("mark dirty: %v", err)
	}
	if err := repo.Create(&model.Message{SessionID: "s1", Role: "user", Content: "fresh"}); err != nil {
		t.Fatalf("seed db: %v", err)
	}

	msgs, err := svc.Messages(context.Background(), "s1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != "fresh" {
		t.Fatalf("dirty read should come from the DB, got %+v", msgs)
	}
}

func TestHistoryMapsRoles(t *testing.T) {
	svc, repo, _, _ := newChatFixture(t)

	if err := repo.Create(&model.Message{SessionID: "s1", Role: "user", Content: "q"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.Create(&model.Message{SessionID: "s1", Role: "assistant", Content: "a"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	history, err := svc.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Role != "user" || history[1].Role != "assistant" {
		t.Fatalf("role mapping wrong: %+v", history)
	}
}

func TestRecordExchangePublishesUserThenAssistant(t *testing.T) {
	svc, _, history, publisher := newChatFixture(t)

	if err := svc.RecordExchange(context.Background(), "s1", "question", "answer"); err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published messages, got %d", len(publisher.published))
	}
	if publisher.published[0].Role != "user" || publisher.published[0].Content != "question" {
		t.Fatalf("user message must go first: %+v", publisher.published[0])
	}
	if publisher.published[1].Role != "assistant" || publisher.published[1].Content != "answer" {
		t.Fatalf("assistant message must follow: %+v", publisher.published[1])
	}

	if dirty, _ := history.IsDirty(context.Background(), "s1"); !dirty {
		t.Fatalf("session should be marked dirty until the worker lands the rows")
	}
	if len(history.deletes) != 1 {
		t.Fatalf("stale cache entry should be dropped")
	}
}

func TestRecordExchangeRejectsBlankInput(t *testing.T) {
	svc, _, _, publisher := newChatFixture(t)

	if err := svc.RecordExchange(context.Background(), "s1", "", "answer"); err == nil {
		t.Fatalf("blank user text should be rejected")
	}
	if len(publisher.published) != 0 {
		t.Fatalf("nothing should be published")
	}
}
