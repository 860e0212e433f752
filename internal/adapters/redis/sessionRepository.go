package redis

import (
	"context"
	"errors"
	"time"

	"xclone/internal/config"
	"xclone/internal/ports/session"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	sessionPrefix     = "session:"
	userSessionPrefix = "user_sessions:"
)

// SessionRepositoryRedis keeps one key per live token plus a per-user index for logout-all.
type SessionRepositoryRedis struct {
	Client *redis.Client
}

func NewSessionRepositoryRedis(client *redis.Client) *SessionRepositoryRedis {
	return &SessionRepositoryRedis{
		Client: client,
	}
}

func (r *SessionRepositoryRedis) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	index := userSessionPrefix + userID

	pipe := r.Client.TxPipeline()
	pipe.Set(ctx, sessionPrefix+tokenID, userID, ttl)
	pipe.SAdd(ctx, index, tokenID)
	// the index lives as long as the newest session
	pipe.Expire(ctx, index, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	config.Logger.Debug("Session saved", zap.String("userID", userID), zap.Duration("ttl", ttl))
	return nil
}

func (r *SessionRepositoryRedis) Lookup(ctx context.Context, tokenID string) (string, error) {
	userID, err := r.Client.Get(ctx, sessionPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *SessionRepositoryRedis) Revoke(ctx context.Context, tokenID string) error {
	userID, err := r.Lookup(ctx, tokenID)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.Client.TxPipeline()
	pipe.Del(ctx, sessionPrefix+tokenID)
	pipe.SRem(ctx, userSessionPrefix+userID, tokenID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *SessionRepositoryRedis) RevokeAll(ctx context.Context, userID string) error {
	index := userSessionPrefix + userID

	tokenIDs, err := r.Client.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, sessionPrefix+id)
	}
	keys = append(keys, index)

	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	config.Logger.Info("Revoked all sessions", zap.String("userID", userID), zap.Int("count", len(tokenIDs)))
	return nil
}
