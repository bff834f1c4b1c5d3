package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ooawamleh/LegalMind-AI/internal/app"
	"github.com/ooawamleh/LegalMind-AI/internal/transport/http/middleware"
	"github.com/ooawamleh/LegalMind-AI/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
	chatService    *app.ChatService
}

type CreateSessionRequest struct {
	Title string `json:"title" binding:"max=128"`
}

type RenameSessionRequest struct {
	Title string `json:"title" binding:"required,max=128"`
}

type AutoTitleRequest struct {
	Query string `json:"query" binding:"max=2000"`
}

func NewSessionHandler(sessionService *app.SessionService, chatService *app.ChatService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, chatService: chatService}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	return userID, ok
}

func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	session, err := h.sessionService.Create(userID, req.Title)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create session failed")
		return
	}

	response.OK(c, gin.H{
		"session_id": session.SessionID,
		"title":      session.Title,
		"created_at": session.CreatedAt,
	})
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	sessions, err := h.sessionService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sessions failed")
		return
	}

	items := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, gin.H{
			"session_id": s.SessionID,
			"title":      s.Title,
			"created_at": s.CreatedAt,
		})
	}
	response.OK(c, gin.H{"sessions": items})
}

func (h *SessionHandler) Rename(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	var req RenameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	err := h.sessionService.Rename(userID, c.Param("session_id"), req.Title)
	if err != nil {
		writeSessionError(c, err, "rename session failed")
		return
	}
	response.OK(c, gin.H{"status": "updated", "title": req.Title})
}

func (h *SessionHandler) AutoTitle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	var req AutoTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	title, err := h.sessionService.AutoTitle(userID, c.Param("session_id"), req.Query)
	if err != nil {
		writeSessionError(c, err, "auto title failed")
		return
	}
	response.OK(c, gin.H{"title": title})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	err := h.sessionService.Delete(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeSessionError(c, err, "delete session failed")
		return
	}
	response.OK(c, gin.H{"status": "deleted"})
}

func (h *SessionHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	sessionID := c.Param("session_id")
	if _, err := h.sessionService.Get(userID, sessionID); err != nil {
		writeSessionError(c, err, "load session failed")
		return
	}

	messages, err := h.chatService.Messages(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load history failed")
		return
	}

	items := make([]gin.H, 0, len(messages))
	for _, m := range messages {
		items = append(items, gin.H{"role": m.Role, "content": m.Content})
	}
	response.OK(c, gin.H{"messages": items})
}

func writeSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
