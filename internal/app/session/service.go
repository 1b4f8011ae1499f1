package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/app/user"
	"backend/internal/providers/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

type Service interface {
	CreateSessionAndUser(username, userAgent string) (*Session, *user.User, error)
	GetUserBySessionKey(ctx context.Context, sessionKey string) (*user.User, error)
	GetSessionByKey(sessionKey string) (*Session, error)
	EndSession(ctx context.Context, sessionKey string) error
}

type service struct {
	repo     Repository
	userRepo user.Repository
	redisP   *redis.RedisProvider
}

func NewService(repo Repository, userRepo user.Repository, redisP *redis.RedisProvider) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		redisP:   redisP,
	}
}

// CreateSessionAndUser stands in for the external identity provider:
// a username maps to exactly one user, created on first sight. Credential
// verification is out of scope for this backend.
func (s *service) CreateSessionAndUser(username, userAgent string) (*Session, *user.User, error) {
	u, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to look up user: %w", err)
		}
		u = &user.User{
			ID:       uuid.NewString(),
			Username: username,
		}
		if err := s.userRepo.CreateUser(u); err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	_ = s.repo.CloseUserSessions(u.ID)

	sessionKey, err := generateSessionKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	session := &Session{
		SessionKey: sessionKey,
		UserAgent:  &userAgent,
		UserID:     u.ID,
		StartedAt:  time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateSession(session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.cacheUser(context.Background(), sessionKey, u)

	return session, u, nil
}

func (s *service) GetUserBySessionKey(ctx context.Context, sessionKey string) (*user.User, error) {
	if s.redisP != nil {
		cached, err := s.redisP.Get(ctx, cacheKey(sessionKey)).Result()
		if err == nil {
			var u user.User
			if err := json.Unmarshal([]byte(cached), &u); err == nil {
				return &u, nil
			}
		}
	}

	session, err := s.repo.GetSessionByKey(sessionKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	u, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}

	s.cacheUser(ctx, sessionKey, u)

	return u, nil
}

func (s *service) GetSessionByKey(sessionKey string) (*Session, error) {
	session, err := s.repo.GetSessionByKey(sessionKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *service) EndSession(ctx context.Context, sessionKey string) error {
	session, err := s.GetSessionByKey(sessionKey)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateSessionEndedAt(session.ID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	if s.redisP != nil {
		s.redisP.Del(ctx, cacheKey(sessionKey))
	}

	return nil
}

func (s *service) cacheUser(ctx context.Context, sessionKey string, u *user.User) {
	if s.redisP == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	s.redisP.SetWithDefaultTTL(ctx, cacheKey(sessionKey), data, 0)
}

func cacheKey(sessionKey string) string {
	return "session:" + sessionKey
}

func generateSessionKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
