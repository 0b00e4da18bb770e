package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisArchive struct {
	client *redis.Client
	ttl    time.Duration
}

func redisKey(sessionID string, kind Kind) string {
	return "artifact:" + sessionID + ":" + string(kind)
}

func (a *redisArchive) Save(ctx context.Context, rec *Record) error {
	prepare(rec)
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	return a.client.Set(ctx, redisKey(rec.SessionID, rec.Kind), val, a.ttl).Err()
}

func (a *redisArchive) Latest(ctx context.Context, sessionID string, kind Kind) (*Record, error) {
	key := redisKey(sessionID, kind)
	val, err := a.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	_ = a.client.Expire(ctx, key, a.ttl).Err()
	return &rec, nil
}

func (a *redisArchive) Close() error {
	return a.client.Close()
}
