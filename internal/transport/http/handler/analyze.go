package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ooawamleh/LegalMind-AI/internal/agent"
	"github.com/ooawamleh/LegalMind-AI/internal/app"
	"github.com/ooawamleh/LegalMind-AI/internal/transport/http/response"
)

type AnalyzeHandler struct {
	sessionService *app.SessionService
	loop           *agent.Loop
}

type AnalyzeRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Query     string `json:"query" binding:"required,max=8000"`
}

func NewAnalyzeHandler(sessionService *app.SessionService, loop *agent.Loop) *AnalyzeHandler {
	return &AnalyzeHandler{sessionService: sessionService, loop: loop}
}

// Analyze streams the agent's answer as plain text chunks. Errors after the
// first byte has gone out surface inside the stream, not as a status code.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if _, err := h.sessionService.Get(userID, req.SessionID); err != nil {
		writeSessionError(c, err, "load session failed")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	emit := func(chunk string) error {
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	// The loop already pushed a system error chunk to the client on failure;
	// nothing more useful can be written at this point.
	_ = h.loop.RunTurn(c.Request.Context(), req.SessionID, req.Query, emit)
}
