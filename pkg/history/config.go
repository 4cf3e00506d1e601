package history

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/autoinstall/pkg/errors"
	"github.com/matzehuels/autoinstall/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a history backend.
type Config struct {
	Backend string `toml:"backend"`

	// file
	Dir string `toml:"dir"`

	// redis
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	RedisTTL      time.Duration `toml:"redis_ttl"`

	// mongo
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendNone, BackendFile:
		return nil
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "history.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "history.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q (must be one of: none, file, redis, mongo)", c.Backend)
	}
	return nil
}

// Open connects to the configured backend. An empty backend means file.
func Open(ctx context.Context, c Config) (Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend {
	case BackendNone:
		return NewNullStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB, TTL: c.RedisTTL})
	case BackendMongo:
		return NewMongoStore(ctx, MongoConfig{URI: c.MongoURI, Database: c.MongoDatabase, Collection: c.MongoCollection})
	default:
		return NewFileStore(c.Dir)
	}
}

// DefaultDir returns the file backend directory using the XDG data
// convention (~/.local/share/autoinstall/runs).
func DefaultDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "autoinstall", "runs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "autoinstall", "runs"), nil
}

// Record saves run and reports the write to the history hooks.
func Record(ctx context.Context, s Store, backend string, run *Run) error {
	err := s.Save(ctx, run)
	observability.History().OnRunSaved(ctx, backend, run.ID, err)
	return err
}
