package store

import (
	"context"
	"fmt"
	"sync"

	"lvlhub-server-go/internal/domain/identity/model"
)

type memoryStore struct {
	mutex      sync.RWMutex
	byUserID   map[string]model.Record
	byUsername map[string]string // username -> user id
}

// NewMemory builds an in-memory identity store.
func NewMemory() Store {
	return &memoryStore{
		byUserID:   make(map[string]model.Record),
		byUsername: make(map[string]string),
	}
}

func (s *memoryStore) Put(_ context.Context, rec model.Record) error {
	if rec.UserID == "" {
		return fmt.Errorf("user id required")
	}
	if rec.Username == "" {
		return fmt.Errorf("username required")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if prev, ok := s.byUserID[rec.UserID]; ok && prev.Username != rec.Username {
		delete(s.byUsername, prev.Username)
	}
	s.byUserID[rec.UserID] = rec
	s.byUsername[rec.Username] = rec.UserID
	return nil
}

func (s *memoryStore) Get(_ context.Context, userID string) (model.Record, error) {
	s.mutex.RLock()
	rec, ok := s.byUserID[userID]
	s.mutex.RUnlock()
	if !ok {
		return model.Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) GetByUsername(_ context.Context, username string) (model.Record, error) {
	s.mutex.RLock()
	id, ok := s.byUsername[username]
	var rec model.Record
	if ok {
		rec, ok = s.byUserID[id]
	}
	s.mutex.RUnlock()
	if !ok {
		return model.Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *memoryStore) Remove(_ context.Context, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if rec, ok := s.byUserID[userID]; ok {
		delete(s.byUsername, rec.Username)
		delete(s.byUserID, userID)
	}
	return nil
}

func (s *memoryStore) List(_ context.Context) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := make([]string, 0, len(s.byUserID))
	for id := range s.byUserID {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}
