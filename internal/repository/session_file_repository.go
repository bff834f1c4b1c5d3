package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ooawamleh/LegalMind-AI/internal/model"
)

type SessionFileRepository struct {
	db *gorm.DB
}

func NewSessionFileRepository(db *gorm.DB) *SessionFileRepository {
	return &SessionFileRepository{db: db}
}

func (r *SessionFileRepository) Create(file *model.SessionFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("create session file failed: %w", err)
	}
	return nil
}

func (r *SessionFileRepository) ListBySessionID(sessionID string) ([]model.SessionFile, error) {
	var files []model.SessionFile
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list session files failed: %w", err)
	}
	return files, nil
}

// ListFileIDsBySessionID returns only the partition keys, for retrieval filters
// and cascade deletes.
func (r *SessionFileRepository) ListFileIDsBySessionID(sessionID string) ([]string, error) {
	var ids []string
	if err := r.db.Model(&model.SessionFile{}).Where("session_id = ?", sessionID).Pluck("file_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list session file ids failed: %w", err)
	}
	return ids, nil
}

func (r *SessionFileRepository) GetByFileID(fileID string) (*model.SessionFile, error) {
	var file model.SessionFile
	if err := r.db.Where("file_id = ?", fileID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session file failed: %w", err)
	}
	return &file, nil
}

func (r *SessionFileRepository) DeleteByFileID(fileID string) error {
	if err := r.db.Where("file_id = ?", fileID).Delete(&model.SessionFile{}).Error; err != nil {
		return fmt.Errorf("delete session file failed: %w", err)
	}
	return nil
}

func (r *SessionFileRepository) DeleteBySessionID(sessionID string) error {
	if err := r.db.Where("session_id = ?", sessionID).Delete(&model.SessionFile{}).Error; err != nil {
		return fmt.Errorf("delete session files failed: %w", err)
	}
	return nil
}
