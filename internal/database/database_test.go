package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	// The mysql-only collation statement must not run against sqlite.
	require.NoError(t, Migrate(db))

	require.True(t, db.Migrator().HasTable(&models.User{}))
	require.True(t, db.Migrator().HasTable(&models.Task{}))

	// Migrate is idempotent.
	require.NoError(t, Migrate(db))
}
