package model

import "time"

// Session is one isolated conversation plus its uploaded document scope.
// SessionID is the opaque token clients hold; it never changes after creation.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID string    `gorm:"size:64;not null;uniqueIndex" json:"session_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
