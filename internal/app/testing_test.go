package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/ooawamleh/LegalMind-AI/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Session{}, &model.SessionFile{}, &model.Message{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// memHistory is an in-memory HistoryStore standing in for Redis.
type memHistory struct {
	mu      sync.Mutex
	entries map[string][]model.Message
	dirty   map[string]bool
	deletes []string
}

func newMemHistory() *memHistory {
	return &memHistory{
		entries: make(map[string][]model.Message),
		dirty:   make(map[string]bool),
	}
}

func (m *memHistory) GetHistory(ctx context.Context, sessionID string) ([]model.Message, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs, ok := m.entries[sessionID]
	return msgs, ok, nil
}

func (m *memHistory) SetHistory(ctx context.Context, sessionID string, messages []model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = append([]model.Message(nil), messages...)
	return nil
}

func (m *memHistory) DeleteHistory(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	m.deletes = append(m.deletes, sessionID)
	return nil
}

func (m *memHistory) MarkDirty(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirty[sessionID] = true
	return nil
}

func (m *memHistory) IsDirty(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty[sessionID], nil
}

type fakePublisher struct {
	published []model.Message
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, msg model.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}
