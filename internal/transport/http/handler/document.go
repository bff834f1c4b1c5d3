package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ooawamleh/LegalMind-AI/internal/app"
	"github.com/ooawamleh/LegalMind-AI/internal/transport/http/response"
)

type DocumentHandler struct {
	sessionService  *app.SessionService
	documentService *app.DocumentService
}

func NewDocumentHandler(sessionService *app.SessionService, documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{sessionService: sessionService, documentService: documentService}
}

// Upload ingests one or more files into the session named by the form field.
// Results are reported per file; a failed file does not abort the rest.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	sessionID := c.PostForm("session_id")
	if _, err := h.sessionService.Get(userID, sessionID); err != nil {
		writeSessionError(c, err, "load session failed")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files provided")
		return
	}

	results := make([]app.UploadResult, 0, len(files))
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			results = append(results, app.UploadResult{
				Filename: fileHeader.Filename,
				Status:   "Error",
				Detail:   err.Error(),
			})
			continue
		}
		result := h.documentService.Upload(c.Request.Context(), sessionID, fileHeader.Filename, src)
		_ = src.Close()
		results = append(results, result)
	}

	response.OK(c, gin.H{"uploaded": results})
}

func (h *DocumentHandler) List(c *gin.Context) {
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

	files, err := h.documentService.ListFiles(sessionID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list files failed")
		return
	}

	items := make([]gin.H, 0, len(files))
	for _, f := range files {
		items = append(items, gin.H{
			"file_id":    f.FileID,
			"filename":   f.Filename,
			"created_at": f.CreatedAt,
		})
	}
	response.OK(c, gin.H{"files": items})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
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

	if err := h.documentService.DeleteFile(c.Request.Context(), sessionID, c.Param("file_id")); err != nil {
		if errors.Is(err, app.ErrFileNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeFileNotFound, "file not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete file failed")
		return
	}
	response.OK(c, gin.H{"status": "deleted"})
}
