package session

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateSession(session *Session) error
	GetSessionByKey(sessionKey string) (*Session, error)
	UpdateSessionEndedAt(sessionID uint64) error
	CloseUserSessions(userID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(session *Session) error {
	return r.db.Create(session).Error
}

func (r *repository) GetSessionByKey(sessionKey string) (*Session, error) {
	var session Session
	err := r.db.Where("session_key = ? AND ended_at IS NULL", sessionKey).First(&session).Error
	return &session, err
}

func (r *repository) UpdateSessionEndedAt(sessionID uint64) error {
	return r.db.Model(&Session{}).
		Where("id = ?", sessionID).
		Update("ended_at", time.Now().UTC()).Error
}

func (r *repository) CloseUserSessions(userID string) error {
	return r.db.Model(&Session{}).
		Where("user_id = ? AND ended_at IS NULL", userID).
		Update("ended_at", time.Now().UTC()).Error
}
