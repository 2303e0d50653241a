package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pageza/recipe-finder/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens (creating if needed) the SQLite file at path and migrates the session table
func OpenSQLite(path string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the client tables
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SessionRecord{}); err != nil {
		return fmt.Errorf("failed to migrate session table: %w", err)
	}
	return nil
}
