package session

import "time"

type Session struct {
	ID         uint64    `gorm:"primaryKey"`
	SessionKey string    `gorm:"unique;not null"`
	StartedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	EndedAt    *time.Time
	UserAgent  *string   `gorm:"type:text"`
	UserID     string    `gorm:"size:36;not null;index"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type CreateSessionRequest struct {
	Username string `json:"username" binding:"required,min=1,max=32"`
}
