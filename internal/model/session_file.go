package model

import "time"

// SessionFile records one successfully ingested upload. FileID doubles as the
// vector store partition key: every chunk produced from the upload is tagged
// with it, and deleting the file must clear both this row and those chunks.
type SessionFile struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	FileID    string    `gorm:"size:64;not null;uniqueIndex" json:"file_id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	Filename  string    `gorm:"size:256;not null" json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}
