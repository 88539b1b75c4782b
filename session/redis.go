package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promptweave/promptweave/core"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "conversation:"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	// URL is a redis connection URL (redis://...). Required unless Client is set.
	URL string
	// Client overrides URL with an existing client, e.g. for cluster setups.
	Client *redis.Client
	// TTL expires idle conversations. Zero keeps them forever.
	TTL time.Duration
}

// RedisStore is a durable core.ConversationStore backed by Redis. Each
// session is one JSON value under "conversation:<id>", rewritten whole on
// every append. The single SET per append keeps the all-or-nothing contract:
// a failed write leaves the previous value untouched.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, optFns ...func(o *RedisOptions)) (*RedisStore, error) {
	opts := RedisOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.Client
	if client == nil {
		if opts.URL == "" {
			return nil, fmt.Errorf("redis store requires a URL or client")
		}
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(parsed)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

// LoadOrCreate implements core.ConversationStore. Unknown ids yield a fresh
// empty session; nothing is written until the first append.
func (s *RedisStore) LoadOrCreate(ctx context.Context, id string) (*core.Session, error) {
	if id == "" {
		id = core.NewID()
	}
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = core.NewSession(id)
	}
	return sess, nil
}

// Append implements core.ConversationStore with a load-extend-write cycle
// ending in a single SET.
func (s *RedisStore) Append(ctx context.Context, sessionID string, msgs ...core.Message) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		sess = core.NewSession(sessionID)
	}
	sess.Append(msgs...)

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// HealthCheck pings the backing server.
func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load(ctx context.Context, id string) (*core.Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess core.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &sess, nil
}
