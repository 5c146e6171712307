package state

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/launch-comb/app/announcement"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the seen keys as members of one Redis set.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(ctx context.Context, addr, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Debug("Connected to Redis", "addr", addr, "key", key)

	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Load(ctx context.Context) (announcement.SeenState, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load set %s: %w", s.key, err)
	}
	return announcement.NewSeenState(members...), nil
}

// SaveAtomic adds every key in a single MULTI/EXEC block.
func (s *RedisStore) SaveAtomic(ctx context.Context, seen announcement.SeenState) error {
	if seen.Len() == 0 {
		return nil
	}

	members := make([]interface{}, 0, seen.Len())
	for _, key := range seen.Keys() {
		members = append(members, key)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, s.key, members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store set %s: %w", s.key, err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
