package archive

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/felipe-codebit/prototipo-zap/internal/db"
)

// StoreType names an archive driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeSQLite StoreType = "sqlite"
	StoreTypeRedis  StoreType = "redis"
)

// Option configures an archive driver.
type Option func(*archiveConfig)

type archiveConfig struct {
	db          *db.DB
	redisClient *redis.Client
	redisTTL    time.Duration
}

// WithDB sets the database used by the sqlite driver.
func WithDB(d *db.DB) Option {
	return func(c *archiveConfig) { c.db = d }
}

// WithRedisClient sets the client used by the redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *archiveConfig) { c.redisClient = client }
}

// WithRedisTTL sets how long records live in redis.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *archiveConfig) { c.redisTTL = ttl }
}

// NewArchive returns the driver named by storeType.
func NewArchive(storeType StoreType, opts ...Option) (Archive, error) {
	cfg := &archiveConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch storeType {
	case StoreTypeMemory, "":
		return newMemoryArchive(), nil

	case StoreTypeSQLite:
		if cfg.db == nil {
			return nil, ErrInvalidConfig
		}
		return &sqliteArchive{db: cfg.db}, nil

	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := cfg.redisTTL
		if ttl <= 0 {
			ttl = 7 * 24 * time.Hour
		}
		return &redisArchive{client: cfg.redisClient, ttl: ttl}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if len(rec.Data) == 0 {
		rec.Data = []byte("{}")
	}
}
