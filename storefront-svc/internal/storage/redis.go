package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each browser session's durable keys in one Redis hash.
// The hash expires after TTL of inactivity.
type RedisStorage struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{Client: client, TTL: ttl}
}

func (s *RedisStorage) SessionKey(sessionID string) string {
	return "storefront:session:" + sessionID
}

// ForSession returns the key-value slot owned by one session.
func (s *RedisStorage) ForSession(sessionID string) *SessionStorage {
	return &SessionStorage{client: s.Client, key: s.SessionKey(sessionID), ttl: s.TTL}
}

type SessionStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *SessionStorage) Get(ctx context.Context, field string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, field, value string) error {
	return s.SetMany(ctx, map[string]string{field: value})
}

// SetMany writes all fields in a single MULTI/EXEC so readers never observe
// a partial update.
func (s *SessionStorage) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, fields)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *SessionStorage) Delete(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.client.HDel(ctx, s.key, fields...).Err()
}
