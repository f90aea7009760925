// Package cache holds the query cache backing the resource clients.
// Entries live under hierarchical keys ("billers:list:<filters>") so a
// single prefix invalidation covers every filtered variant. Entries are
// invalidated, never patched in place; readers always refetch.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// KeySeparator joins the segments of a hierarchical cache key.
const KeySeparator = ":"

// Store is a redis-backed query cache with in-flight fetch deduplication.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewStore wires a Store over an existing redis client.
func NewStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{client: client, ttl: ttl, logger: logger}
}

// GetOrFetch returns the cached value under key, or runs fetch and
// caches its result. Concurrent calls for the same key share one fetch.
func (s *Store) GetOrFetch(ctx context.Context, key string, dest any, fetch func(context.Context) (any, error)) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dest)
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Warn("cache read", slog.String("key", key), slog.Any("error", err))
	}

	resultChan := s.group.DoChan(key, func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		buf, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := s.client.Set(ctx, key, buf, s.ttl).Err(); err != nil {
			s.logger.Warn("cache write", slog.String("key", key), slog.Any("error", err))
		}
		return buf, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dest)
	}
}

// Invalidate drops each given key and every descendant key under it.
// Failures are logged and swallowed: a mutation that already succeeded
// must not be failed by cache trouble.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			s.logger.Warn("cache invalidate", slog.String("key", key), slog.Any("error", err))
		}
		pattern := key + KeySeparator + "*"
		iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
		var descendants []string
		for iter.Next(ctx) {
			descendants = append(descendants, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.logger.Warn("cache scan", slog.String("pattern", pattern), slog.Any("error", err))
			continue
		}
		if len(descendants) == 0 {
			continue
		}
		if err := s.client.Del(ctx, descendants...).Err(); err != nil {
			s.logger.Warn("cache invalidate", slog.String("pattern", pattern), slog.Any("error", err))
		}
	}
}
