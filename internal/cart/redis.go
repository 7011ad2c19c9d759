package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"foodorder/internal/domain"
)

// RedisStore persists one line list per cart key, JSON-encoded with a TTL.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (s *RedisStore) key(id string) string {
	return "cart:" + id
}

func (s *RedisStore) Load(ctx context.Context, id string) ([]domain.CartLine, error) {
	data, err := s.Client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return s.Clear(ctx, id)
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.key(id), data, s.TTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	return s.Client.Del(ctx, s.key(id)).Err()
}
