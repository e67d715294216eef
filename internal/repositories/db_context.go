package repositories

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	if dir := filepath.Dir(connectionString); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(Collection{})
	if err != nil {
		return fmt.Errorf("failed to migrate Collection entity: %w", err)
	}
	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
