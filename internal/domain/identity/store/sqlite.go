package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lvlhub-server-go/internal/domain/identity/model"
	"lvlhub-server-go/internal/platform/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type sqliteStore struct {
	db *gorm.DB
}

// NewSQLite builds a relational identity store on top of the shared gorm handle.
func NewSQLite(db *gorm.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite store requires database handle")
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Put(ctx context.Context, rec model.Record) error {
	if rec.UserID == "" || rec.Username == "" {
		return fmt.Errorf("user id and username required")
	}

	account := storage.UserAccount{
		UserID:        rec.UserID,
		Username:      rec.Username,
		PasswordHash:  rec.PasswordHash,
		HashVersion:   rec.HashVersion,
		SuiteType:     string(rec.SuiteType),
		Demographics:  marshalJSON(rec.Demographics),
		Preferences:   marshalJSON(rec.Preferences),
		UsagePatterns: marshalJSON(rec.UsagePatterns),
		CreatedAt:     rec.CreatedAt,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", rec.UserID).
			Delete(&storage.UserAccount{}).Error; err != nil {
			return err
		}
		return tx.Create(&account).Error
	})
}

func (s *sqliteStore) Get(ctx context.Context, userID string) (model.Record, error) {
	var account storage.UserAccount
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	return s.convert(account, err)
}

func (s *sqliteStore) GetByUsername(ctx context.Context, username string) (model.Record, error) {
	var account storage.UserAccount
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	return s.convert(account, err)
}

func (s *sqliteStore) Remove(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&storage.UserAccount{}).
		Error
}

func (s *sqliteStore) List(ctx context.Context) ([]string, error) {
	var accounts []storage.UserAccount
	if err := s.db.WithContext(ctx).Select("user_id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.UserID)
	}
	return ids, nil
}

func (s *sqliteStore) Close(context.Context) error {
	return nil
}

func (s *sqliteStore) convert(account storage.UserAccount, err error) (model.Record, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Record{}, ErrNotFound
	}
	if err != nil {
		return model.Record{}, err
	}

	rec := model.Record{
		Identity: model.Identity{
			UserID:        account.UserID,
			Username:      account.Username,
			SuiteType:     model.SuiteType(account.SuiteType),
			Demographics:  unmarshalJSON(account.Demographics),
			Preferences:   unmarshalJSON(account.Preferences),
			UsagePatterns: unmarshalJSON(account.UsagePatterns),
			CreatedAt:     account.CreatedAt,
		},
		PasswordHash: account.PasswordHash,
		HashVersion:  account.HashVersion,
	}
	return rec, nil
}

func marshalJSON(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func unmarshalJSON(data datatypes.JSON) map[string]any {
	if len(data) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
