package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ooawamleh/LegalMind-AI/internal/model"
	"github.com/ooawamleh/LegalMind-AI/internal/repository"
	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	defaultSessionTitle = "New Chat"
	fallbackTitle       = "General Discussion"
	titleMaxRunes       = 50
	titleMaxWords       = 5
)

var titleGreetings = map[string]bool{
	"hello":        true,
	"hi":           true,
	"hey":          true,
	"good morning": true,
	"greetings":    true,
}

// SessionService manages chat sessions and their full-cascade deletion
// across MySQL, the vector store, and the history cache.
type SessionService struct {
	sessionRepo *repository.SessionRepository
	fileRepo    *repository.SessionFileRepository
	messageRepo *repository.MessageRepository
	store       vectorstore.Store
	history     HistoryStore
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	fileRepo *repository.SessionFileRepository,
	messageRepo *repository.MessageRepository,
	store vectorstore.Store,
	history HistoryStore,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		fileRepo:    fileRepo,
		messageRepo: messageRepo,
		store:       store,
		history:     history,
	}
}

func (s *SessionService) Create(userID uint, title string) (*model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultSessionTitle
	}

	session := &model.Session{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Title:     title,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) List(userID uint) ([]model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

// Get returns the session if it exists and belongs to userID.
func (s *SessionService) Get(userID uint, sessionID string) (*model.Session, error) {
	if userID == 0 || sessionID == "" {
		return nil, ErrInvalidInput
	}
	session, err := s.sessionRepo.GetBySessionIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) Rename(userID uint, sessionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidInput
	}
	if _, err := s.Get(userID, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.UpdateTitle(sessionID, title)
}

// AutoTitle derives a session title, preferring the first uploaded filename
// over the user's query, and saves it. Bare greetings fall back to a generic
// title instead of becoming one.
func (s *SessionService) AutoTitle(userID uint, sessionID, query string) (string, error) {
	if _, err := s.Get(userID, sessionID); err != nil {
		return "", err
	}

	files, err := s.fileRepo.ListBySessionID(sessionID)
	if err != nil {
		return "", err
	}

	var title string
	if len(files) > 0 {
		name := files[0].Filename
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		title = "📄 " + name
	} else {
		title = titleFromQuery(query)
	}

	if err := s.sessionRepo.UpdateTitle(sessionID, title); err != nil {
		return "", err
	}
	return title, nil
}

// Delete removes the session and everything hanging off it: vector chunks
// per file, the file rows, the message rows, the cached history, and finally
// the session itself.
func (s *SessionService) Delete(ctx context.Context, userID uint, sessionID string) error {
	if _, err := s.Get(userID, sessionID); err != nil {
		return err
	}

	fileIDs, err := s.fileRepo.ListFileIDsBySessionID(sessionID)
	if err != nil {
		return err
	}
	for _, fileID := range fileIDs {
		if err := s.store.DeleteBySourceID(ctx, fileID); err != nil {
			return fmt.Errorf("delete vectors for file %s failed: %w", fileID, err)
		}
	}

	if err := s.fileRepo.DeleteBySessionID(sessionID); err != nil {
		return err
	}
	if err := s.messageRepo.DeleteBySessionID(sessionID); err != nil {
		return err
	}
	if err := s.history.DeleteHistory(ctx, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.DeleteBySessionIDAndUserID(sessionID, userID)
}

func titleFromQuery(query string) string {
	query = strings.TrimSpace(query)
	lower := strings.ToLower(query)

	words := strings.Fields(query)
	if titleGreetings[lower] || (len(words) < 2 && titleGreetings[strings.ReplaceAll(lower, "!", "")]) {
		return fallbackTitle
	}
	if query == "" {
		return fallbackTitle
	}

	title := query
	if len(words) > titleMaxWords {
		title = strings.Join(words[:titleMaxWords], " ") + "..."
	}
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		runes = runes[:titleMaxRunes]
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
