package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KrishiLabs/sakhi"
)

// RedisStore persists conversation history as a Redis list per
// conversation. RPUSH preserves insertion order, so a tail LRANGE yields
// the most recent turns already in chronological order.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	now       func() time.Time
}

// RedisStoreConfig holds configuration for the Redis history store.
type RedisStoreConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for conversation keys (default: "sakhi:conv:")
	TTL       int    // Idle conversation expiry in seconds (0 = keep forever)
}

// NewRedisStore creates a Redis history store with the given configuration.
func NewRedisStore(cfg RedisStoreConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string, ttlSeconds int) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "sakhi:conv:"
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Append persists one turn at the end of the conversation list.
func (s *RedisStore) Append(ctx context.Context, conversationID string, role sakhi.Role, content string) error {
	turn := sakhi.Turn{
		Role:      role,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return &sakhi.StorageError{Message: "encoding turn", Cause: err}
	}

	key := s.key(conversationID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return &sakhi.StorageError{Message: "appending turn", Cause: err}
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return &sakhi.StorageError{Message: "refreshing conversation expiry", Cause: err}
		}
	}
	return nil
}

// LoadRecent returns up to limit most recent turns, oldest first. A missing
// key is an empty conversation, not an error.
func (s *RedisStore) LoadRecent(ctx context.Context, conversationID string, limit int) ([]sakhi.Turn, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	rows, err := s.client.LRange(ctx, s.key(conversationID), start, -1).Result()
	if err != nil {
		return nil, &sakhi.StorageError{Message: "loading history", Cause: err}
	}

	turns := make([]sakhi.Turn, 0, len(rows))
	for _, row := range rows {
		var turn sakhi.Turn
		if err := json.Unmarshal([]byte(row), &turn); err != nil {
			return nil, &sakhi.StorageError{Message: "decoding turn", Cause: err}
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear removes every turn of the conversation.
func (s *RedisStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, s.key(conversationID)).Err(); err != nil {
		return &sakhi.StorageError{Message: "clearing history", Cause: err}
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(conversationID string) string {
	return s.keyPrefix + conversationID
}

// Verify RedisStore implements HistoryStore
var _ sakhi.HistoryStore = (*RedisStore)(nil)
