package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"projectarchitect/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestInit_CreatesDirAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	var buf bytes.Buffer
	db, err := Init(Config{Path: path, LogLevel: logger.Info, Logger: zerolog.New(&buf)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.True(t, db.Migrator().HasTable(&models.GenerationRun{}))
	assert.True(t, db.Migrator().HasTable(&models.AppSettings{}))
	assert.Contains(t, buf.String(), `"component":"gorm"`)
}
