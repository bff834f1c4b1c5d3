package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ooawamleh/LegalMind-AI/internal/ingest"
	"github.com/ooawamleh/LegalMind-AI/internal/model"
	"github.com/ooawamleh/LegalMind-AI/internal/repository"
	"github.com/ooawamleh/LegalMind-AI/internal/vectorstore"
)

var ErrFileNotFound = errors.New("file not found")

// UploadResult reports the outcome for one uploaded file. Uploads are
// per-file: one bad file never fails the batch.
type UploadResult struct {
	Filename string `json:"filename"`
	FileID   string `json:"file_id,omitempty"`
	Chunks   int    `json:"chunks"`
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
}

// DocumentService handles upload, listing, and deletion of session files.
type DocumentService struct {
	fileRepo  *repository.SessionFileRepository
	processor *ingest.Processor
	store     vectorstore.Store
	uploadDir string
}

func NewDocumentService(fileRepo *repository.SessionFileRepository, processor *ingest.Processor, store vectorstore.Store, uploadDir string) *DocumentService {
	return &DocumentService{
		fileRepo:  fileRepo,
		processor: processor,
		store:     store,
		uploadDir: uploadDir,
	}
}

// Upload stores one file under a fresh id, ingests it, and records it
// against the session when at least one chunk landed. Zero chunks is a
// success with nothing to retrieve, so no file row is written for it.
func (s *DocumentService) Upload(ctx context.Context, sessionID, filename string, src io.Reader) UploadResult {
	fileID := uuid.NewString()
	path := filepath.Join(s.uploadDir, fileID+filepath.Ext(filename))

	if err := s.saveFile(path, src); err != nil {
		return UploadResult{Filename: filename, Status: "Error", Detail: err.Error()}
	}

	chunks, err := s.processor.Ingest(ctx, path, fileID)
	if err != nil {
		return UploadResult{Filename: filename, Status: "Error", Detail: err.Error()}
	}

	if chunks > 0 {
		if err := s.fileRepo.Create(&model.SessionFile{
			FileID:    fileID,
			SessionID: sessionID,
			Filename:  filename,
		}); err != nil {
			return UploadResult{Filename: filename, Status: "Error", Detail: err.Error()}
		}
	}

	return UploadResult{
		Filename: filename,
		FileID:   fileID,
		Chunks:   chunks,
		Status:   "Success",
	}
}

func (s *DocumentService) saveFile(path string, src io.Reader) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir failed: %w", err)
	}
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file failed: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write upload file failed: %w", err)
	}
	return nil
}

func (s *DocumentService) ListFiles(sessionID string) ([]model.SessionFile, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.fileRepo.ListBySessionID(sessionID)
}

// DeleteFile removes the file's chunks from the vector store and its row
// from MySQL. The file must belong to sessionID; a foreign file id reads
// the same as a missing one. Both deletions are always attempted; a
// vector-side failure does not leave the relational row behind.
func (s *DocumentService) DeleteFile(ctx context.Context, sessionID, fileID string) error {
	if sessionID == "" || fileID == "" {
		return ErrInvalidInput
	}

	file, err := s.fileRepo.GetByFileID(fileID)
	if err != nil {
		return err
	}
	if file == nil || file.SessionID != sessionID {
		return ErrFileNotFound
	}

	var vecErr error
	if err := s.store.DeleteBySourceID(ctx, fileID); err != nil {
		vecErr = fmt.Errorf("delete vectors failed: %w", err)
	}
	dbErr := s.fileRepo.DeleteByFileID(fileID)

	return errors.Join(vecErr, dbErr)
}
