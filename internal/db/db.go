package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zumnet/numeros-sorte/internal/config"
)

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	if conf == nil {
		return nil, fmt.Errorf("postgres config is missing")
	}

	return OpenPostgresWithURL(conf.DSN())
}

func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	return db, nil
}

// OpenSQLite opens a SQLite database at path, or a private in-memory database
// when path is empty. A single connection is used so write transactions are
// serialized by the pool instead of failing with SQLITE_BUSY.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := "file::memory:"
	if path != "" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB -> %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Open picks the driver named in the database config. A non-empty databaseURL
// always selects Postgres.
func Open(conf *config.AppConfig, databaseURL string) (*gorm.DB, error) {
	if databaseURL != "" {
		return OpenPostgresWithURL(databaseURL)
	}

	if conf.Database.Driver == config.DriverSQLite {
		return OpenSQLite(conf.Database.SQLitePath)
	}

	return OpenPostgres(conf.Postgres)
}
