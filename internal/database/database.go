package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database connection described by cfg and returns the
// handle; callers inject it where needed instead of reading a package
// global.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate runs automigration for all models.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// The email column is the case-sensitive login key. MySQL's default
	// utf8mb4 collation compares case-insensitively, which would make both
	// the equality lookup and the unique index fold case, so pin a binary
	// collation there. SQLite already compares bytes exactly.
	if db.Dialector.Name() == "mysql" {
		err := db.Exec(
			"ALTER TABLE users MODIFY email varchar(255) COLLATE utf8mb4_bin NOT NULL",
		).Error
		if err != nil {
			return fmt.Errorf("failed to pin email collation: %w", err)
		}
	}

	log.Println("Database migrations completed")
	return nil
}
