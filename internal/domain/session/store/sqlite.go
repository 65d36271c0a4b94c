package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lvlhub-server-go/internal/domain/session/model"
	"lvlhub-server-go/internal/platform/storage"

	"gorm.io/gorm"
)

type sqliteStore struct {
	db    *gorm.DB
	grace time.Duration
}

// NewSQLite builds a relational session store on top of the shared gorm handle.
func NewSQLite(db *gorm.DB, cfg Config) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	return &sqliteStore{
		db:    db,
		grace: cfg.Grace,
	}, nil
}

func (s *sqliteStore) Insert(ctx context.Context, sess model.Session) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing storage.SessionRecord
		err := tx.Where("token = ?", sess.Token).First(&existing).Error
		if err == nil {
			return ErrTokenExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&storage.SessionRecord{
			Token:     sess.Token,
			UserID:    sess.UserID,
			IssuedAt:  sess.IssuedAt,
			ExpiresAt: sess.ExpiresAt,
			Revoked:   sess.Revoked,
		}).Error
	})
}

func (s *sqliteStore) Get(ctx context.Context, token string) (model.Session, error) {
	var record storage.SessionRecord
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, ErrNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	return convert(record), nil
}

func (s *sqliteStore) Revoke(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record storage.SessionRecord
		err := tx.Where("token = ?", token).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if record.Revoked {
			return nil
		}
		return tx.Model(&storage.SessionRecord{}).
			Where("token = ?", token).
			Update("revoked", true).
			Error
	})
}

func (s *sqliteStore) Swap(ctx context.Context, oldToken string, next model.Session) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record storage.SessionRecord
		err := tx.Where("token = ?", oldToken).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if record.Revoked {
			return ErrRevoked
		}
		if !time.Now().Before(record.ExpiresAt) {
			return ErrExpired
		}

		if err := tx.Model(&storage.SessionRecord{}).
			Where("token = ?", oldToken).
			Update("revoked", true).
			Error; err != nil {
			return err
		}
		return tx.Create(&storage.SessionRecord{
			Token:     next.Token,
			UserID:    next.UserID,
			IssuedAt:  next.IssuedAt,
			ExpiresAt: next.ExpiresAt,
			Revoked:   next.Revoked,
		}).Error
	})
}

func (s *sqliteStore) CleanupExpired(ctx context.Context) error {
	cutoff := time.Now().Add(-s.grace)
	return s.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&storage.SessionRecord{}).
		Error
}

func (s *sqliteStore) Stats(ctx context.Context) (map[string]any, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&storage.SessionRecord{}).
		Count(&total).
		Error; err != nil {
		return nil, err
	}
	var active int64
	if err := s.db.WithContext(ctx).
		Model(&storage.SessionRecord{}).
		Where("revoked = ? AND expires_at > ?", false, time.Now()).
		Count(&active).
		Error; err != nil {
		return nil, err
	}
	return map[string]any{
		"type":   "sqlite",
		"total":  total,
		"active": active,
	}, nil
}

func (s *sqliteStore) Close(context.Context) error {
	return nil
}

func convert(record storage.SessionRecord) model.Session {
	return model.Session{
		Token:     record.Token,
		UserID:    record.UserID,
		IssuedAt:  record.IssuedAt,
		ExpiresAt: record.ExpiresAt,
		Revoked:   record.Revoked,
	}
}
