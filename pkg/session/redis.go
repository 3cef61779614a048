package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces the keys (default "wordcloud:session").
	Prefix string

	// TTL expires idle records; zero keeps them forever.
	TTL time.Duration
}

// RedisStore keeps records in Redis, one string value per key.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and pings it. Connection failures are
// retried with backoff before STORE_UNAVAILABLE is returned.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := RetryWithBackoff(ctx, func() error {
		return Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect to redis at %s", cfg.Addr)
	}
	s := NewRedisStoreFromClient(client, cfg.Prefix)
	s.ttl = cfg.TTL
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client. The store takes
// ownership and closes it on Close.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "wordcloud:session"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) keyFor(key string) string { return s.prefix + ":" + key }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.keyFor(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "redis get %s", key)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	if err := errors.ValidateStoreKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyFor(key), data, s.ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "redis set %s", key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyFor(key)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "redis del %s", key)
	}
	return nil
}

func (s *RedisStore) Close() error    { return s.client.Close() }
func (s *RedisStore) Backend() string { return "redis" }

var _ Store = (*RedisStore)(nil)
