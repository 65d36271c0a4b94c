package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	platformerrors "lvlhub-server-go/internal/platform/errors"
)

// Open connects the relational backend and runs migrations.
func Open(driver, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, platformerrors.New(
			platformerrors.KindStorage, "storage.open", "database dsn is empty")
	}

	var db *gorm.DB
	var err error
	switch driver {
	case "", "sqlite":
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	default:
		return nil, platformerrors.New(
			platformerrors.KindStorage, "storage.open",
			fmt.Sprintf("unsupported database driver: %s", driver))
	}
	if err != nil {
		return nil, platformerrors.Wrap(
			platformerrors.KindStorage, "storage.open", "open database", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for all storage models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserAccount{}, &SessionRecord{}); err != nil {
		return platformerrors.Wrap(
			platformerrors.KindStorage, "storage.migrate", "auto migrate", err)
	}
	return nil
}
