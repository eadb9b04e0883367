package database

import (
	"fmt"
	"time"

	"marketplace-messenger/config"
	"marketplace-messenger/model"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func PostgresConnect(cfg config.Postgres, log logrus.FieldLogger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "database.PostgresConnect.Open")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database.PostgresConnect.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.WithField("host", cfg.Host).Info("connection opened to Postgres")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Postgres database migrated")

	return db, nil
}

// Migrate creates or updates the tables the messenger owns. users, cars and
// car_photos belong to other services and are left alone.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Conversation{},
		&model.Message{},
		&model.Notification{},
	)
	if err != nil {
		return errors.Wrap(err, "database.Migrate.AutoMigrate")
	}
	return nil
}

// MigrateAll also creates the externally owned tables the read joins need.
// Only for standalone databases such as the SQLite test store.
func MigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Car{}, &model.CarPhoto{}); err != nil {
		return errors.Wrap(err, "database.MigrateAll.AutoMigrate")
	}
	return Migrate(db)
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
