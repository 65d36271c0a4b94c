package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lvlhub-server-go/internal/domain/session/model"

	"github.com/redis/go-redis/v9"
)

// Sealer abstracts the optional payload cipher so this package does not
// depend on the parent session package.
type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

type redisStore struct {
	client *redis.Client
	prefix string
	grace  time.Duration
	sealer Sealer
}

const swapRetries = 3

// NewRedis constructs a redis-backed session store. When a sealer is given,
// payloads are encrypted before they reach the wire.
func NewRedis(cfg Config, sealer Sealer) (Store, error) {
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
		prefix = "session:"
	}
	return &redisStore{
		client: client,
		prefix: prefix,
		grace:  cfg.Grace,
		sealer: sealer,
	}, nil
}

func (s *redisStore) key(token string) string {
	return s.prefix + token
}

func (s *redisStore) encode(sess model.Session) ([]byte, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if s.sealer != nil {
		return s.sealer.Seal(data)
	}
	return data, nil
}

func (s *redisStore) decode(raw []byte) (model.Session, error) {
	if s.sealer != nil {
		plain, err := s.sealer.Open(raw)
		if err != nil {
			return model.Session{}, err
		}
		raw = plain
	}
	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

// retention keeps revoked/expired records queryable through the grace window.
func (s *redisStore) retention(sess model.Session) time.Duration {
	ttl := time.Until(sess.ExpiresAt) + s.grace
	if ttl <= 0 {
		ttl = time.Second
	}
	return ttl
}

func (s *redisStore) Insert(ctx context.Context, sess model.Session) error {
	data, err := s.encode(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.key(sess.Token), data, s.retention(sess)).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenExists
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, token string) (model.Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return model.Session{}, ErrNotFound
		}
		return model.Session{}, err
	}
	return s.decode(raw)
}

func (s *redisStore) Revoke(ctx context.Context, token string) error {
	key := s.key(token)
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return ErrNotFound
			}
			return err
		}
		sess, err := s.decode(raw)
		if err != nil {
			return err
		}
		if sess.Revoked {
			return nil
		}
		sess.Revoked = true
		data, err := s.encode(sess)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < swapRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return redis.TxFailedErr
}

func (s *redisStore) Swap(ctx context.Context, oldToken string, next model.Session) error {
	oldKey := s.key(oldToken)
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, oldKey).Bytes()
		if err != nil {
			if err == redis.Nil {
				return ErrNotFound
			}
			return err
		}
		sess, err := s.decode(raw)
		if err != nil {
			return err
		}
		if sess.Revoked {
			return ErrRevoked
		}
		if sess.Expired(time.Now()) {
			return ErrExpired
		}

		sess.Revoked = true
		oldData, err := s.encode(sess)
		if err != nil {
			return err
		}
		newData, err := s.encode(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, oldKey, oldData, redis.KeepTTL)
			pipe.Set(ctx, s.key(next.Token), newData, s.retention(next))
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, oldKey)
	if err == redis.TxFailedErr {
		// Someone else mutated the old token mid-swap; report its new state.
		sess, getErr := s.Get(ctx, oldToken)
		if getErr != nil {
			return getErr
		}
		if sess.Revoked {
			return ErrRevoked
		}
		if sess.Expired(time.Now()) {
			return ErrExpired
		}
		return ErrRevoked
	}
	return err
}

func (s *redisStore) CleanupExpired(context.Context) error {
	// Redis drops records via key TTL; retention already includes grace.
	return nil
}

func (s *redisStore) Stats(ctx context.Context) (map[string]any, error) {
	size, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"type":  "redis",
		"total": size,
	}, nil
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}
