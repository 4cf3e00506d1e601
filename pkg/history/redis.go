package history

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/autoinstall/pkg/errors"
)

const (
	redisRunPrefix = "autoinstall:run:"
	redisIndexKey  = "autoinstall:runs"
)

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTL expires run documents; zero keeps them forever. Expired runs
	// are pruned from the index lazily by List.
	TTL time.Duration
}

// RedisStore keeps runs in Redis: one JSON string per run and a sorted
// set of run IDs scored by start time.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisRunKey(id string) string {
	return redisRunPrefix + id
}

// Save writes the run document and indexes it.
func (s *RedisStore) Save(ctx context.Context, run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal run")
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisRunKey(run.ID), data, s.ttl)
		pipe.ZAdd(ctx, redisIndexKey, redis.Z{
			Score:  float64(run.StartedAt.UnixNano()),
			Member: run.ID,
		})
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save run %s", run.ID)
	}
	return nil
}

// Get reads a run document.
func (s *RedisStore) Get(ctx context.Context, id string) (*Run, error) {
	data, err := s.client.Get(ctx, redisRunKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get run %s", id)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse run %s", id)
	}
	return &run, nil
}

// List returns the newest runs from the index.
func (s *RedisStore) List(ctx context.Context, limit int) ([]*Run, error) {
	limit = normalizeLimit(limit)
	ids, err := s.client.ZRevRange(ctx, redisIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list runs")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisRunKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load runs")
	}

	runs := make([]*Run, 0, len(values))
	var expired []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var run Run
		if err := json.Unmarshal([]byte(str), &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}
	if len(expired) > 0 {
		_ = s.client.ZRem(ctx, redisIndexKey, expired...).Err()
	}
	return runs, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
