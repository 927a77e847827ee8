package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/homelab/models"
)

// Databases bundles the two schemas the application talks to.
type Databases struct {
	// Petitions holds the items and entries tables.
	Petitions *gorm.DB
	// Homelab holds the page_visits table.
	Homelab *gorm.DB
}

// Close releases both connection pools.
func (d *Databases) Close() {
	for _, db := range []*gorm.DB{d.Petitions, d.Homelab} {
		if db == nil {
			continue
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// DSN returns the MySQL DSN for the named schema. An explicit URI wins over the host settings.
func DSN(cfg AppConfig, uri, name string) string {
	if uri != "" {
		return uri
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		name,
	)
}

// OpenPetitions connects to the petitions schema only. The operator CLI needs nothing else.
func OpenPetitions(cfg AppConfig) (*gorm.DB, error) {
	db, err := OpenDatabase(mysql.Open(DSN(cfg, cfg.PetitionsDatabaseURI, cfg.PetitionsDBName)), cfg.LogLevel,
		&models.Item{}, &models.Entry{})
	if err != nil {
		return nil, fmt.Errorf("petitions database: %w", err)
	}
	return db, nil
}

// InitDatabases connects to both MySQL schemas and creates any missing tables.
func InitDatabases(cfg AppConfig) (*Databases, error) {
	petitions, err := OpenPetitions(cfg)
	if err != nil {
		return nil, err
	}

	homelab, err := OpenDatabase(mysql.Open(DSN(cfg, cfg.HomelabDatabaseURI, cfg.HomelabDBName)), cfg.LogLevel,
		&models.PageVisit{})
	if err != nil {
		dbs := &Databases{Petitions: petitions}
		dbs.Close()
		return nil, fmt.Errorf("homelab database: %w", err)
	}

	return &Databases{Petitions: petitions, Homelab: homelab}, nil
}

// OpenDatabase opens a gorm handle on the dialector, verifies the connection and
// creates the tables of modelDefs that do not exist yet.
func OpenDatabase(dialector gorm.Dialector, logLevel string, modelDefs ...interface{}) (*gorm.DB, error) {
	// Derive level from app LogLevel and raise slow-sql threshold to reduce noise
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(logLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormCfg := &gorm.Config{
		Logger:                                   gLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	// Recycle idle connections before the server's wait_timeout does.
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	// Ping at boot so network/auth problems surface before the first query.
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	for _, model := range modelDefs {
		// Only migrate when table not exists to avoid intrusive changes on existing schema
		if db.Migrator().HasTable(model) {
			continue
		}
		if err := db.AutoMigrate(model); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("auto migration for %T: %w", model, err)
		}
	}

	return db, nil
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "info", "", "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}
