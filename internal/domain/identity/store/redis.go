package store

import (
	"context"
	"encoding/json"
	"fmt"

	"lvlhub-server-go/internal/domain/identity/model"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a redis-backed identity store. Records are stored
// per user id with a secondary username index key.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "identity:"
	}
	return &redisStore{
		client: client,
		prefix: prefix,
	}, nil
}

func (s *redisStore) userKey(id string) string {
	return s.prefix + "user:" + id
}

func (s *redisStore) nameKey(username string) string {
	return s.prefix + "name:" + username
}

func (s *redisStore) Put(ctx context.Context, rec model.Record) error {
	if rec.UserID == "" || rec.Username == "" {
		return fmt.Errorf("user id and username required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.userKey(rec.UserID), data, 0)
	pipe.Set(ctx, s.nameKey(rec.Username), rec.UserID, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStore) Get(ctx context.Context, userID string) (model.Record, error) {
	raw, err := s.client.Get(ctx, s.userKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return model.Record{}, ErrNotFound
		}
		return model.Record{}, err
	}
	var rec model.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

func (s *redisStore) GetByUsername(ctx context.Context, username string) (model.Record, error) {
	id, err := s.client.Get(ctx, s.nameKey(username)).Result()
	if err != nil {
		if err == redis.Nil {
			return model.Record{}, ErrNotFound
		}
		return model.Record{}, err
	}
	return s.Get(ctx, id)
}

func (s *redisStore) Remove(ctx context.Context, userID string) error {
	rec, err := s.Get(ctx, userID)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.userKey(userID))
	pipe.Del(ctx, s.nameKey(rec.Username))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStore) List(ctx context.Context) ([]string, error) {
	var cursor uint64
	ids := make([]string, 0)
	pattern := s.prefix + "user:*"
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			ids = append(ids, key[len(s.prefix)+len("user:"):])
		}
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}
	return ids, nil
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}
