package database

import (
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteConnect opens and migrates a file-backed database. Foreign keys are
// switched on so conversation deletes cascade the same way they do on Postgres.
func SQLiteConnect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "database.SQLiteConnect.Open")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database.SQLiteConnect.DB")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := MigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}
