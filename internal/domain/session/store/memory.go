package store

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"lvlhub-server-go/internal/domain/session/model"
)

const defaultShardCount = 32

// memoryStore shards the token space so validation of one session never
// blocks on mutations of unrelated ones.
type memoryStore struct {
	shards []*shard
	grace  time.Duration
}

type shard struct {
	mutex sync.RWMutex
	items map[string]model.Session
}

// NewMemory builds a sharded in-memory session store.
func NewMemory(cfg Config) Store {
	count := defaultShardCount
	if cfg.Memory != nil && cfg.Memory.Shards > 0 {
		count = cfg.Memory.Shards
	}
	shards := make([]*shard, count)
	for i := range shards {
		shards[i] = &shard{items: make(map[string]model.Session)}
	}
	return &memoryStore{
		shards: shards,
		grace:  cfg.Grace,
	}
}

func (s *memoryStore) shardIndex(token string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return int(h.Sum32() % uint32(len(s.shards)))
}

func (s *memoryStore) Insert(_ context.Context, sess model.Session) error {
	sh := s.shards[s.shardIndex(sess.Token)]
	sh.mutex.Lock()
	defer sh.mutex.Unlock()

	if _, ok := sh.items[sess.Token]; ok {
		return ErrTokenExists
	}
	sh.items[sess.Token] = sess
	return nil
}

func (s *memoryStore) Get(_ context.Context, token string) (model.Session, error) {
	sh := s.shards[s.shardIndex(token)]
	sh.mutex.RLock()
	sess, ok := sh.items[token]
	sh.mutex.RUnlock()
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *memoryStore) Revoke(_ context.Context, token string) error {
	sh := s.shards[s.shardIndex(token)]
	sh.mutex.Lock()
	defer sh.mutex.Unlock()

	sess, ok := sh.items[token]
	if !ok {
		return ErrNotFound
	}
	if !sess.Revoked {
		sess.Revoked = true
		sh.items[token] = sess
	}
	return nil
}

// Swap holds the locks of both affected shards (in index order, to avoid
// deadlock with a concurrent Swap touching the same pair) so no observer can
// see the old token live once the new one exists.
func (s *memoryStore) Swap(_ context.Context, oldToken string, next model.Session) error {
	oldIdx := s.shardIndex(oldToken)
	newIdx := s.shardIndex(next.Token)

	first, second := oldIdx, newIdx
	if first > second {
		first, second = second, first
	}
	s.shards[first].mutex.Lock()
	defer s.shards[first].mutex.Unlock()
	if second != first {
		s.shards[second].mutex.Lock()
		defer s.shards[second].mutex.Unlock()
	}

	oldShard := s.shards[oldIdx]
	sess, ok := oldShard.items[oldToken]
	if !ok {
		return ErrNotFound
	}
	if sess.Revoked {
		return ErrRevoked
	}
	if sess.Expired(time.Now()) {
		return ErrExpired
	}

	newShard := s.shards[newIdx]
	if _, ok := newShard.items[next.Token]; ok {
		return ErrTokenExists
	}

	sess.Revoked = true
	oldShard.items[oldToken] = sess
	newShard.items[next.Token] = next
	return nil
}

func (s *memoryStore) CleanupExpired(_ context.Context) error {
	cutoff := time.Now().Add(-s.grace)
	for _, sh := range s.shards {
		sh.mutex.Lock()
		for token, sess := range sh.items {
			if sess.ExpiresAt.Before(cutoff) {
				delete(sh.items, token)
			}
		}
		sh.mutex.Unlock()
	}
	return nil
}

func (s *memoryStore) Stats(_ context.Context) (map[string]any, error) {
	now := time.Now()
	total := 0
	active := 0
	for _, sh := range s.shards {
		sh.mutex.RLock()
		total += len(sh.items)
		for _, sess := range sh.items {
			if sess.Valid(now) {
				active++
			}
		}
		sh.mutex.RUnlock()
	}
	return map[string]any{
		"type":   "memory",
		"shards": len(s.shards),
		"total":  total,
		"active": active,
	}, nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}
