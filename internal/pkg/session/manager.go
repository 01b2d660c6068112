// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tracksafe-service/internal/repository/postgres"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Manager struct {
	client      *redis.Client
	accountRepo *postgres.AccountRepository
	logger      *zap.Logger
}

func NewManager(client *redis.Client, accountRepo *postgres.AccountRepository, logger *zap.Logger) *Manager {
	return &Manager{
		client:      client,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// CreateSession stores a new session in Redis and updates DB
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	key := m.sessionKey(session.AccountID, session.JTI)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	if session.SessionID > 0 {
		if err := m.accountRepo.UpdateSessionActivity(ctx, session.SessionID); err != nil {
			// Redis is source of truth
			m.logger.Warn("failed to update DB session activity", zap.Error(err))
		}
	}

	return nil
}

// GetSession retrieves a session from Redis with DB fallback
func (m *Manager) GetSession(ctx context.Context, accountID, jti string) (*SessionData, error) {
	key := m.sessionKey(accountID, jti)

	// Try Redis first (fast path)
	data, err := m.client.Get(ctx, key).Bytes()
	if err == nil {
		var session SessionData
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}

		session.LastActivityAt = time.Now()
		go m.touch(context.Background(), accountID, jti)

		return &session, nil
	}

	if err != redis.Nil {
		m.logger.Warn("redis error, falling back to DB", zap.Error(err))
	}

	dbSession, dbErr := m.accountRepo.FindSessionByToken(ctx, jti)
	if dbErr != nil {
		return nil, fmt.Errorf("session not found: %w", dbErr)
	}

	if dbSession.AccountID != accountID {
		return nil, fmt.Errorf("session account mismatch")
	}
	if dbSession.Status != "active" || dbSession.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("session no longer active")
	}

	sessionData := &SessionData{
		JTI:            jti,
		AccountID:      dbSession.AccountID,
		SessionID:      dbSession.ID,
		IPAddress:      dbSession.IPAddress.String,
		UserAgent:      dbSession.UserAgent.String,
		LoginAt:        dbSession.LoginAt,
		LastActivityAt: dbSession.LastActivityAt,
		ExpiresAt:      dbSession.ExpiresAt,
		IsActive:       true,
	}

	if account, err := m.accountRepo.FindAccountByID(ctx, accountID); err == nil {
		sessionData.Email = account.Email
	}

	// Restore to Redis for next time
	go func() {
		if err := m.CreateSession(context.Background(), sessionData); err != nil {
			m.logger.Warn("failed to restore session to redis", zap.Error(err))
		}
	}()

	return sessionData, nil
}

// touch updates the last activity timestamp in Redis.
func (m *Manager) touch(ctx context.Context, accountID, jti string) {
	key := m.sessionKey(accountID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		return // session doesn't exist or expired
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return
	}

	session.LastActivityAt = time.Now()

	updated, err := json.Marshal(session)
	if err != nil {
		return
	}

	if ttl := time.Until(session.ExpiresAt); ttl > 0 {
		_ = m.client.Set(ctx, key, updated, ttl).Err()
	}
}

// InvalidateSession removes a session from Redis and DB
func (m *Manager) InvalidateSession(ctx context.Context, accountID, jti string) error {
	key := m.sessionKey(accountID, jti)

	if err := m.client.Del(ctx, key).Err(); err != nil {
		m.logger.Warn("failed to delete session from redis", zap.Error(err))
	}

	dbSession, err := m.accountRepo.FindSessionByToken(ctx, jti)
	if err == nil {
		if err := m.accountRepo.InvalidateSession(ctx, dbSession.ID); err != nil {
			return fmt.Errorf("failed to invalidate DB session: %w", err)
		}
	}

	return nil
}

// InvalidateAllAccountSessions removes all sessions for an account
func (m *Manager) InvalidateAllAccountSessions(ctx context.Context, accountID string) error {
	pattern := fmt.Sprintf("session:%s:*", accountID)

	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			m.logger.Warn("failed to delete session key", zap.String("key", iter.Val()), zap.Error(err))
		}
	}

	if err := m.accountRepo.InvalidateAllAccountSessions(ctx, accountID); err != nil {
		return fmt.Errorf("failed to invalidate DB sessions: %w", err)
	}

	return iter.Err()
}

// IsTokenBlacklisted checks if a token is blacklisted
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := m.blacklistKey(jti)
	exists, err := m.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

// BlacklistToken adds a token to the blacklist
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	key := m.blacklistKey(jti)
	return m.client.Set(ctx, key, "1", ttl).Err()
}

func (m *Manager) sessionKey(accountID, jti string) string {
	return fmt.Sprintf("session:%s:%s", accountID, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}
