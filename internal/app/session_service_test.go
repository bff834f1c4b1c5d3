package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ooawamleh/LegalMind-AI/internal/model"
	"github.com/ooawamleh/LegalMind-AI/internal/repository"
	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
	"gorm.io/gorm"
)

func newSessionFixture(t *testing.T) (*SessionService, *gorm.DB, *vectorstore.MemoryStore, *memHistory) {
	t.Helper()
	db := openTestDB(t)
	store := vectorstore.NewMemoryStore()
	history := newMemHistory()
	svc := NewSessionService(
		repository.NewSessionRepository(db),
		repository.NewSessionFileRepository(db),
		repository.NewMessageRepository(db),
		store,
		history,
	)
	return svc, db, store, history
}

func TestSessionCreateAndList(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	first, err := svc.Create(1, "Contract Review")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.SessionID == "" {
		t.Fatalf("session id must be assigned")
	}

	second, err := svc.Create(1, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.Title != "New Chat" {
		t.Fatalf("blank title should default, got %q", second.Title)
	}
	if second.SessionID == first.SessionID {
		t.Fatalf("session ids must be unique")
	}

	sessions, err := svc.List(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	other, err := svc.List(2)
	if err != nil {
		t.Fatalf("list other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other user must not see these sessions")
	}
}

func TestSessionGetEnforcesOwnership(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	created, err := svc.Create(1, "Mine")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(1, created.SessionID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := svc.Get(2, created.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign lookup should be not-found, got %v", err)
	}
	if _, err := svc.Get(1, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("missing session should be not-found, got %v", err)
	}
}

func TestSessionRename(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	created, _ := svc.Create(1, "Old")
	if err := svc.Rename(1, created.SessionID, "New Title"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, err := svc.Get(1, created.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "New Title" {
		t.Fatalf("title not updated: %q", got.Title)
	}

	if err := svc.Rename(2, created.SessionID, "Hijack"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign rename should fail, got %v", err)
	}
	if err := svc.Rename(1, created.SessionID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank title should be rejected, got %v", err)
	}
}

func TestAutoTitlePrefersUploadedFilename(t *testing.T) {
	svc, db, _, _ := newSessionFixture(t)

	created, _ := svc.Create(1, "New Chat")
	fileRepo := repository.NewSessionFileRepository(db)
	if err := fileRepo.Create(&model.SessionFile{
		FileID:    "f1",
		SessionID: created.SessionID,
		Filename:  "Master Services Agreement.pdf",
	}); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	title, err := svc.AutoTitle(1, created.SessionID, "what does clause 3 say")
	if err != nil {
		t.Fatalf("auto title: %v", err)
	}
	if title != "📄 Master Services Agreement" {
		t.Fatalf("filename should win and lose its extension, got %q", title)
	}
}

func TestAutoTitleFromQuery(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	cases := []struct {
		query string
		want  string
	}{
		{"hello", "General Discussion"},
		{"Hi!", "General Discussion"},
		{"", "General Discussion"},
		{"summarize the contract", "Summarize the contract"},
		{"what are the termination rights under this agreement", "What are the termination rights..."},
	}
	for _, tc := range cases {
		created, _ := svc.Create(1, "New Chat")
		title, err := svc.AutoTitle(1, created.SessionID, tc.query)
		if err != nil {
			t.Fatalf("auto title %q: %v", tc.query, err)
		}
		if title != tc.want {
			t.Fatalf("query %q: got %q want %q", tc.query, title, tc.want)
		}
	}
}

func TestAutoTitleCapsLength(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	created, _ := svc.Create(1, "New Chat")
	query := strings.Repeat("incomprehensibilities ", 5)
	title, err := svc.AutoTitle(1, created.SessionID, query)
	if err != nil {
		t.Fatalf("auto title: %v", err)
	}
	if n := len([]rune(title)); n > 50 {
		t.Fatalf("title has %d runes, cap is 50", n)
	}
}

func TestSessionDeleteCascades(t *testing.T) {
	svc, db, store, history := newSessionFixture(t)

	created, _ := svc.Create(1, "Doomed")
	fileRepo := repository.NewSessionFileRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	for _, fileID := range []string{"f1", "f2"} {
		if err := fileRepo.Create(&model.SessionFile{
			FileID:    fileID,
			SessionID: created.SessionID,
			Filename:  fileID + ".pdf",
		}); err != nil {
			t.Fatalf("seed file: %v", err)
		}
		if err := store.Add(context.Background(), []vectorstore.Chunk{{
			ID:       fileID + "-chunk",
			Text:     "text",
			Metadata: map[string]any{vectorstore.MetadataSourceID: fileID},
			Vector:   []float32{1},
		}}); err != nil {
			t.Fatalf("seed chunk: %v", err)
		}
	}
	if err := messageRepo.Create(&model.Message{SessionID: created.SessionID, Role: "user", Content: "hi"}); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	if err := svc.Delete(context.Background(), 1, created.SessionID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(1, created.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("session should be gone, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("vector chunks should be gone, %d left", store.Len())
	}
	files, _ := fileRepo.ListBySessionID(created.SessionID)
	if len(files) != 0 {
		t.Fatalf("file rows should be gone")
	}
	msgs, _ := messageRepo.ListBySessionID(created.SessionID)
	if len(msgs) != 0 {
		t.Fatalf("message rows should be gone")
	}
	if len(history.deletes) == 0 {
		t.Fatalf("cached history should be invalidated")
	}
}

func TestSessionDeleteForeignUserRejected(t *testing.T) {
	svc, _, _, _ := newSessionFixture(t)

	created, _ := svc.Create(1, "Mine")
	if err := svc.Delete(context.Background(), 2, created.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("foreign delete should fail, got %v", err)
	}
	if _, err := svc.Get(1, created.SessionID); err != nil {
		t.Fatalf("session should survive a foreign delete: %v", err)
	}
}
